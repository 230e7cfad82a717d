package entitlement_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/entitlement"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

const month = 30 * 24 * time.Hour

func TestEntitlement_GrantTrial(t *testing.T) {
	e := entitlement.New(7)

	require.NoError(t, e.GrantTrial(t0, month, "Farg'ona"))
	err := e.GrantTrial(t0.Add(time.Hour), time.Hour, "Andijon")

	require.ErrorIs(t, err, entitlement.ErrTrialAlreadyGranted)
	trial, ok := e.Trial()
	require.True(t, ok)
	assert.Equal(t, t0, trial.GrantedAt)
	assert.Equal(t, t0.Add(month), trial.ExpiresAt)
	assert.Equal(t, []string{"Farg'ona"}, trial.Regions)
}

func TestEntitlement_EntitledRegions(t *testing.T) {
	e := entitlement.New(7)
	assert.Empty(t, e.EntitledRegions())
	assert.True(t, e.IsEmpty())

	require.NoError(t, e.GrantTrial(t0, month, "Farg'ona"))
	assert.Equal(t, []string{"Farg'ona"}, e.EntitledRegions())

	require.NoError(t, e.ActivateSubscription([]string{"Andijon", "Farg'ona"}))
	assert.Equal(t, []string{"Andijon", "Farg'ona"}, e.EntitledRegions())

	_, hasTrial := e.Trial()
	assert.False(t, hasTrial, "activation drops the trial")
}

func TestEntitlement_ActivateSubscription_NoRegions(t *testing.T) {
	e := entitlement.New(7)
	require.ErrorIs(t, e.ActivateSubscription(nil), entitlement.ErrNoRegions)
	assert.False(t, e.HasActiveSubscription())
}

func TestEntitlement_AddRegion(t *testing.T) {
	e := entitlement.New(7)
	assert.False(t, e.AddRegion("Andijon"), "no records to extend")

	require.NoError(t, e.GrantTrial(t0, month, "Farg'ona"))
	assert.True(t, e.AddRegion("Andijon"))
	assert.False(t, e.AddRegion("Andijon"))

	trial, _ := e.Trial()
	assert.Equal(t, []string{"Farg'ona", "Andijon"}, trial.Regions)
}

func TestEntitlement_Sweep(t *testing.T) {
	t.Run("no trial", func(t *testing.T) {
		res, _ := entitlement.New(7).Sweep(t0)
		assert.Equal(t, entitlement.SweepNoTrial, res)
	})

	t.Run("pending", func(t *testing.T) {
		e := entitlement.New(7)
		require.NoError(t, e.GrantTrial(t0, month, "Farg'ona"))

		res, regions := e.Sweep(t0.Add(month - time.Second))

		assert.Equal(t, entitlement.SweepPending, res)
		assert.Nil(t, regions)
		_, ok := e.Trial()
		assert.True(t, ok)
	})

	t.Run("expired at the boundary", func(t *testing.T) {
		e := entitlement.New(7)
		require.NoError(t, e.GrantTrial(t0, month, "Farg'ona"))
		e.AddRegion("Andijon")

		res, regions := e.Sweep(t0.Add(month))

		assert.Equal(t, entitlement.SweepExpired, res)
		assert.Equal(t, []string{"Farg'ona", "Andijon"}, regions)
		assert.True(t, e.IsEmpty())
	})

	t.Run("dropped by a subscription", func(t *testing.T) {
		e := entitlement.New(7)
		require.NoError(t, e.ActivateSubscription([]string{"Andijon"}))
		require.NoError(t, e.GrantTrial(t0, month, "Farg'ona"))

		res, regions := e.Sweep(t0)

		assert.Equal(t, entitlement.SweepDropped, res)
		assert.Nil(t, regions)
		_, ok := e.Trial()
		assert.False(t, ok)
		assert.True(t, e.HasActiveSubscription())
	})
}

func TestEntitlement_Clone(t *testing.T) {
	e := entitlement.New(7)
	require.NoError(t, e.GrantTrial(t0, month, "Farg'ona"))

	c := e.Clone()
	c.AddRegion("Andijon")

	trial, _ := e.Trial()
	assert.Equal(t, []string{"Farg'ona"}, trial.Regions)
}
