package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"

	httpin "dispatch/internal/adapters/in/http"
	telegramin "dispatch/internal/adapters/in/telegram"
	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/profilerepo"
	redisout "dispatch/internal/adapters/out/redis"
	"dispatch/internal/adapters/out/snapshot"
	telegramout "dispatch/internal/adapters/out/telegram"
	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/application/reminders"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/pkg/clock"
)

// CompositionRoot owns the long-lived collaborators of a running bot.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger

	bot      *tgbotapi.BotAPI
	gateway  *telegramout.Gateway
	deps     commands.Deps
	handlers telegramin.Handlers

	closers []func() error
}

// NewCompositionRoot connects to Telegram and the snapshot backend and builds the
// handlers. ctx bounds the lifetime of scheduled reminders.
func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	regions, err := LoadRegions(cfg.RegionsFile)
	if err != nil {
		return nil, err
	}

	root := &CompositionRoot{cfg: cfg, logger: logger}

	store, closeStore, err := OpenProfileStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	root.closers = append(root.closers, closeStore)

	profiles, err := memory.NewProfileRepository(ctx, store, logger)
	if err != nil {
		_ = root.Close()
		return nil, fmt.Errorf("load profiles: %w", err)
	}

	root.bot, err = tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		_ = root.Close()
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	logger.Info("authorized on telegram", "bot", root.bot.Self.UserName)

	root.gateway = telegramout.NewGateway(root.bot, telegramout.Config{
		PerSecond:    cfg.GatewayRate,
		Burst:        cfg.GatewayBurst,
		MaxRetryWait: telegramout.DefaultConfig().MaxRetryWait,
	}, logger)

	clk := clock.NewReal()
	root.deps = commands.Deps{
		Drafts:       memory.NewDraftRepository(),
		Orders:       memory.NewOrderRepository(),
		OrderLocks:   memory.NewKeyedMutex(),
		Profiles:     profiles,
		Entitlements: memory.NewEntitlementRepository(),
		Onboarding:   memory.NewOnboardingRepository(),
		Invites:      memory.NewInviteRepository(),
		Gateway:      root.gateway,
		Reminders:    reminders.NewScheduler(ctx, root.gateway, clk, logger),
		Regions:      regions,
		Admins:       services.NewAdminPolicy(cfg.AdminIDs),
		Catalog: messages.NewCatalog(messages.Settings{
			CardNumber:      cfg.CardNumber,
			CardHolder:      cfg.CardHolder,
			ContactPhone:    cfg.ContactPhone,
			ContactTelegram: cfg.ContactTelegram,
		}),
		Clock:  clk,
		Logger: logger,
		Settings: commands.Settings{
			RatingsChatID:  cfg.RatingsChatID,
			PaymentsChatID: cfg.PaymentsChatID,
			TrialTTL:       cfg.TrialTTL,
			InviteTTL:      cfg.InviteTTL,
		},
	}
	root.handlers = telegramin.NewHandlers(root.deps)

	return root, nil
}

// Poller feeds Telegram updates to the router.
func (c *CompositionRoot) Poller() *telegramin.Poller {
	router := telegramin.NewRouter(c.handlers, c.deps, c.gateway)
	return telegramin.NewPoller(c.bot, router, c.cfg.UpdateWorkers, c.cfg.PollTimeout, c.logger)
}

// HTTPServer builds the admin API.
func (c *CompositionRoot) HTTPServer(ctx context.Context) (*echo.Echo, error) {
	server := httpin.NewServer(
		c.handlers.ApproveReceipt,
		c.handlers.UserCounts,
		queries.NewGetOrderQueryHandler(c.deps.Orders),
	)
	if c.cfg.AdminAPIToken == "" {
		c.logger.Warn("ADMIN_API_TOKEN is not set, every /api request will be refused")
	}
	return httpin.NewEcho(ctx, server, c.cfg.AdminAPIToken, c.logger)
}

// Jobs returns the background jobs of the bot.
func (c *CompositionRoot) Jobs() *jobs.JobManager {
	watcher := jobs.NewEntitlementWatchJob(
		commands.NewSweepTrialsCommandHandler(c.deps),
		c.cfg.WatchInterval,
		c.cfg.WatchJitter,
		c.logger,
	)
	return jobs.NewJobManager(c.logger, watcher)
}

// Close releases the snapshot backend.
func (c *CompositionRoot) Close() error {
	var errList []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errList = append(errList, err)
		}
	}
	c.closers = nil
	return errors.Join(errList...)
}

// OpenProfileStore connects the configured snapshot backend. The returned func
// releases it.
func OpenProfileStore(ctx context.Context, cfg Config, logger *slog.Logger) (ports.ProfileStore, func() error, error) {
	switch cfg.SnapshotBackend {
	case SnapshotPostgres:
		db, err := postgres.Open(ctx, cfg.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		return profilerepo.NewGormProfileStore(db, logger), func() error { return postgres.Close(db) }, nil

	case SnapshotRedis:
		client, err := redisout.NewClient(ctx, redisout.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.RedisKey,
		})
		if err != nil {
			return nil, nil, err
		}
		return redisout.NewProfileStore(client, cfg.RedisKey, logger), client.Close, nil

	default:
		return snapshot.NewFileStore(cfg.UsersFile(), logger), func() error { return nil }, nil
	}
}
