package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Snapshot backends for the user profile document.
const (
	SnapshotFile     = "file"
	SnapshotPostgres = "postgres"
	SnapshotRedis    = "redis"
)

type Config struct {
	BotToken       string
	AdminIDs       []kernel.UserID
	RatingsChatID  int64
	PaymentsChatID int64

	CardNumber      string
	CardHolder      string
	ContactPhone    string
	ContactTelegram string

	DataDir         string
	RegionsFile     string
	SnapshotBackend string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisKey      string

	HTTPHost      string
	HTTPPort      string
	AdminAPIToken string
	LogLevel      slog.Level

	TrialTTL      time.Duration
	InviteTTL     time.Duration
	WatchInterval time.Duration
	WatchJitter   time.Duration

	GatewayRate  float64
	GatewayBurst int

	UpdateWorkers int
	PollTimeout   int
}

// LoadConfig reads .env when present and then the process environment. The result
// is not validated; commands that need the bot call Validate.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (Config, error) {
	e := env{get: getenv}

	dataDir := e.str("DATA_DIR", "data")
	cfg := Config{
		BotToken:       strings.TrimSpace(getenv("BOT_TOKEN")),
		AdminIDs:       e.userIDs("ADMIN_IDS"),
		RatingsChatID:  e.int64("RATINGS_CHAT_ID", 0),
		PaymentsChatID: e.int64("PAYMENTS_CHAT_ID", 0),

		CardNumber:      e.str("CARD_NUMBER", ""),
		CardHolder:      e.str("CARD_HOLDER", ""),
		ContactPhone:    e.str("CONTACT_PHONE", ""),
		ContactTelegram: e.str("CONTACT_TG", ""),

		DataDir:         dataDir,
		RegionsFile:     e.str("REGIONS_FILE", filepath.Join(dataDir, "regions.json")),
		SnapshotBackend: strings.ToLower(e.str("SNAPSHOT_BACKEND", SnapshotFile)),

		DBHost:     e.str("DB_HOST", "localhost"),
		DBPort:     e.str("DB_PORT", "5432"),
		DBUser:     e.str("DB_USER", "postgres"),
		DBPassword: getenv("DB_PASSWORD"),
		DBName:     e.str("DB_NAME", "dispatch"),
		DBSslMode:  e.str("DB_SSLMODE", "disable"),

		RedisAddr:     e.str("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD"),
		RedisDB:       int(e.int64("REDIS_DB", 0)),
		RedisKey:      getenv("REDIS_KEY"),

		HTTPHost:      e.str("HTTP_HOST", "127.0.0.1"),
		HTTPPort:      e.str("HTTP_PORT", "8080"),
		AdminAPIToken: getenv("ADMIN_API_TOKEN"),
		LogLevel:      e.level("LOG_LEVEL", slog.LevelInfo),

		TrialTTL:      time.Duration(e.int64("TRIAL_DAYS", 30)) * 24 * time.Hour,
		InviteTTL:     e.duration("INVITE_TTL", 24*time.Hour),
		WatchInterval: e.duration("WATCH_INTERVAL", time.Hour),
		WatchJitter:   e.duration("WATCH_JITTER", 30*time.Second),

		GatewayRate:  e.float("GATEWAY_RATE", 25),
		GatewayBurst: int(e.int64("GATEWAY_BURST", 5)),

		UpdateWorkers: int(e.int64("UPDATE_WORKERS", 8)),
		PollTimeout:   int(e.int64("POLL_TIMEOUT", 30)),
	}
	if len(e.errs) > 0 {
		return Config{}, errors.Join(e.errs...)
	}
	return cfg, nil
}

// Validate checks the settings the bot cannot start without.
func (c Config) Validate() error {
	var problems []error
	if c.BotToken == "" {
		problems = append(problems, errs.NewValueIsRequiredError("BOT_TOKEN"))
	}
	if c.PaymentsChatID == 0 {
		problems = append(problems, errs.NewValueIsRequiredError("PAYMENTS_CHAT_ID"))
	}
	switch c.SnapshotBackend {
	case SnapshotFile, SnapshotPostgres, SnapshotRedis:
	default:
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("SNAPSHOT_BACKEND",
			fmt.Errorf("%q is not one of file, postgres, redis", c.SnapshotBackend)))
	}
	if c.TrialTTL <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("TRIAL_DAYS", errors.New("must be positive")))
	}
	return errors.Join(problems...)
}

// DSN is the postgres connection string.
func (c Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSslMode}}.Encode(),
	}
	return u.String()
}

// UsersFile is the JSON snapshot path of the file backend.
func (c Config) UsersFile() string {
	return filepath.Join(c.DataDir, "users.json")
}

type env struct {
	get  func(string) string
	errs []error
}

func (e *env) str(key, fallback string) string {
	if v := strings.TrimSpace(e.get(key)); v != "" {
		return v
	}
	return fallback
}

func (e *env) int64(key string, fallback int64) int64 {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		e.errs = append(e.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	return n
}

func (e *env) float(key string, fallback float64) float64 {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.errs = append(e.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	return f
}

func (e *env) duration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	return d
}

func (e *env) level(key string, fallback slog.Level) slog.Level {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return fallback
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(v)); err != nil {
		e.errs = append(e.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	return l
}

// userIDs parses a comma separated id list.
func (e *env) userIDs(key string) []kernel.UserID {
	var ids []kernel.UserID
	for _, part := range strings.Split(e.get(key), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := kernel.ParseUserID(part)
		if err != nil {
			e.errs = append(e.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// regionEntry is one element of regions.json. Chat ids may be written as numbers or
// strings.
type regionEntry struct {
	Name         string  `json:"name"`
	OrderChatID  chatRef `json:"order_chat_id"`
	DriverChatID chatRef `json:"driver_chat_id"`
}

type chatRef int64

func (c *chatRef) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n = json.Number(strings.TrimSpace(s))
	}
	if n == "" {
		*c = 0
		return nil
	}
	// Unparseable ids count as missing; the catalog reports a missing order chat.
	v, _ := n.Int64()
	*c = chatRef(v)
	return nil
}

// regionsTemplateSize is how many placeholder regions a fresh regions.json gets.
const regionsTemplateSize = 18

// LoadRegions reads the region catalog from path. A missing or empty file is
// replaced by a template to fill in, and loading fails.
func LoadRegions(path string) (*kernel.RegionCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read regions: %w", err)
	}

	var entries []regionEntry
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("regions", fmt.Errorf("%s: %w", path, err))
		}
	}
	if len(entries) == 0 {
		if err := writeRegionsTemplate(path); err != nil {
			return nil, err
		}
		return nil, errs.NewValueIsRequiredErrorWithCause("regions",
			fmt.Errorf("%s is missing or empty; fill in the region names and chat ids", path))
	}

	regions := make([]kernel.Region, 0, len(entries))
	for _, e := range entries {
		regions = append(regions, kernel.Region{
			Name:         e.Name,
			OrderChatID:  int64(e.OrderChatID),
			DriverChatID: int64(e.DriverChatID),
		})
	}
	return kernel.NewRegionCatalog(regions)
}

func writeRegionsTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	sample := make([]map[string]any, 0, regionsTemplateSize)
	for i := 1; i <= regionsTemplateSize; i++ {
		sample = append(sample, map[string]any{
			"name":           fmt.Sprintf("Hudud %d", i),
			"order_chat_id":  0,
			"driver_chat_id": 0,
		})
	}
	data, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create regions dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write regions template: %w", err)
	}
	return nil
}
