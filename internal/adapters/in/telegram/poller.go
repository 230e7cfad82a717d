package telegram

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"
)

// UpdateSource is the long-polling half of the Bot API client.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Poller feeds updates to the router with at most Workers updates in flight.
type Poller struct {
	source  UpdateSource
	router  *Router
	workers int
	timeout int
	logger  *slog.Logger
}

// NewPoller creates a poller. workers below one means a single worker; timeout is
// the long-poll timeout in seconds.
func NewPoller(source UpdateSource, router *Router, workers, timeout int, logger *slog.Logger) *Poller {
	if workers < 1 {
		workers = 1
	}
	return &Poller{source: source, router: router, workers: workers, timeout: timeout, logger: logger}
}

// Run polls until ctx is done and then waits for the updates already taken.
func (p *Poller) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = p.timeout
	cfg.AllowedUpdates = []string{"message", "callback_query", "chat_member"}
	updates := p.source.GetUpdatesChan(cfg)

	g := &errgroup.Group{}
	g.SetLimit(p.workers)

	p.logger.Info("polling for updates", "workers", p.workers)
	defer p.logger.Info("polling stopped")

	for {
		select {
		case <-ctx.Done():
			p.source.StopReceivingUpdates()
			_ = g.Wait()
			return nil
		case update, ok := <-updates:
			if !ok {
				_ = g.Wait()
				return nil
			}
			g.Go(func() error {
				defer func() {
					if rec := recover(); rec != nil {
						p.logger.Error("update handler panicked", "update_id", update.UpdateID, "panic", rec)
					}
				}()
				p.router.Handle(context.WithoutCancel(ctx), update)
				return nil
			})
		}
	}
}
