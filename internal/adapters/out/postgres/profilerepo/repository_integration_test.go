package profilerepo_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/profilerepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/profile"
)

// ProfileStoreIntegrationTestSuite runs the GORM profile store against a real
// PostgreSQL container.
type ProfileStoreIntegrationTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	store     *profilerepo.GormProfileStore
}

func (suite *ProfileStoreIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := postgres.Open(ctx, connStr)
	suite.Require().NoError(err)
	suite.db = db
}

func (suite *ProfileStoreIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE profiles").Error)
	suite.store = profilerepo.NewGormProfileStore(suite.db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (suite *ProfileStoreIntegrationTestSuite) TearDownSuite() {
	if suite.db != nil {
		suite.Require().NoError(postgres.Close(suite.db))
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *ProfileStoreIntegrationTestSuite) TestLoad_EmptyTable() {
	got, err := suite.store.Load(context.Background())

	suite.Require().NoError(err)
	suite.Empty(got)
}

func (suite *ProfileStoreIntegrationTestSuite) TestSave_ThenLoad_RoundTrips() {
	ctx := context.Background()

	// Given
	granted := time.Date(2025, 3, 1, 18, 10, 0, 0, time.UTC)
	in := map[kernel.UserID]profile.Snapshot{
		10: {
			Name:           "Ali",
			Phone:          "+998901112233",
			Regions:        []string{"Farg'ona", "Toshkent"},
			LastRegion:     "Toshkent",
			TrialGrantedAt: granted,
			TrialExpiresAt: granted.Add(30 * 24 * time.Hour),
			Extra:          map[string]json.RawMessage{"lang": json.RawMessage(`"uz"`)},
		},
		11: {Name: "Vali"},
	}

	// When
	suite.Require().NoError(suite.store.Save(ctx, in))
	got, err := suite.store.Load(ctx)

	// Then
	suite.Require().NoError(err)
	suite.Require().Len(got, 2)
	ali := got[10]
	suite.Equal("+998901112233", ali.Phone)
	suite.Equal([]string{"Farg'ona", "Toshkent"}, ali.Regions)
	suite.Equal("Toshkent", ali.LastRegion)
	suite.True(ali.TrialGrantedAt.Equal(granted))
	suite.True(ali.TrialJoinedAt.IsZero())
	suite.JSONEq(`"uz"`, string(ali.Extra["lang"]))
	suite.Nil(got[11].Regions)
	suite.Nil(got[11].Extra)
}

func (suite *ProfileStoreIntegrationTestSuite) TestSave_ReplacesDocument() {
	ctx := context.Background()

	// Given
	suite.Require().NoError(suite.store.Save(ctx, map[kernel.UserID]profile.Snapshot{
		10: {Name: "Ali"},
		11: {Name: "Vali"},
	}))

	// When
	suite.Require().NoError(suite.store.Save(ctx, map[kernel.UserID]profile.Snapshot{
		11: {Name: "Vali", Phone: "+998907778899"},
		12: {Name: "Gani"},
	}))

	// Then
	got, err := suite.store.Load(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(got, 2)
	suite.NotContains(got, kernel.UserID(10))
	suite.Equal("+998907778899", got[11].Phone)
	suite.Equal("Gani", got[12].Name)
}

func (suite *ProfileStoreIntegrationTestSuite) TestSave_EmptyDocumentClearsTable() {
	ctx := context.Background()
	suite.Require().NoError(suite.store.Save(ctx, map[kernel.UserID]profile.Snapshot{10: {Name: "Ali"}}))

	suite.Require().NoError(suite.store.Save(ctx, map[kernel.UserID]profile.Snapshot{}))

	var count int64
	suite.Require().NoError(suite.db.Model(&profilerepo.ProfileDTO{}).Count(&count).Error)
	suite.Zero(count)
}

func (suite *ProfileStoreIntegrationTestSuite) TestLoad_SkipsUnmappableRows() {
	ctx := context.Background()
	suite.Require().NoError(suite.db.Exec("INSERT INTO profiles (user_id, name) VALUES (0, 'ghost'), (5, 'Ali')").Error)

	got, err := suite.store.Load(ctx)

	suite.Require().NoError(err)
	suite.Len(got, 1)
	suite.Equal("Ali", got[5].Name)
}

func TestProfileStoreIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ProfileStoreIntegrationTestSuite))
}
