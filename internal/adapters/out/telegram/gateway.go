// Package telegram implements ports.MessagingGateway on the Telegram Bot API.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// BotAPI is the part of *tgbotapi.BotAPI the gateway calls.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Config tunes the outbound call rate. Telegram allows about 30 messages per second
// per bot.
type Config struct {
	PerSecond float64
	Burst     int
	// MaxRetryWait caps how long a call waits on flood control before giving up.
	MaxRetryWait time.Duration
}

// DefaultConfig stays under Telegram's global limit.
func DefaultConfig() Config {
	return Config{PerSecond: 25, Burst: 5, MaxRetryWait: 30 * time.Second}
}

// Gateway sends through BotAPI, waiting on a shared limiter before every call and
// retrying once when Telegram answers with flood control.
type Gateway struct {
	bot     BotAPI
	limiter *rate.Limiter
	cfg     Config
	logger  *slog.Logger
}

var _ ports.MessagingGateway = (*Gateway)(nil)

// NewGateway wraps bot with rate limiting and retries configured by cfg.
func NewGateway(bot BotAPI, cfg Config, logger *slog.Logger) *Gateway {
	if cfg.PerSecond <= 0 {
		cfg.PerSecond = DefaultConfig().PerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &Gateway{
		bot:     bot,
		limiter: rate.NewLimiter(rate.Limit(cfg.PerSecond), cfg.Burst),
		cfg:     cfg,
		logger:  logger.With("component", "telegram_gateway"),
	}
}

func (g *Gateway) Send(ctx context.Context, chatID int64, msg ports.Message) (kernel.MessageRef, error) {
	cfg := tgbotapi.NewMessage(chatID, msg.Text)
	cfg.ParseMode = parseMode(msg)
	cfg.DisableWebPagePreview = msg.DisablePreview
	cfg.ReplyMarkup = replyMarkup(msg)

	sent, err := g.send(ctx, "sendMessage", cfg)
	if err != nil {
		return kernel.MessageRef{}, err
	}
	return kernel.MessageRef{ChatID: sent.Chat.ID, MessageID: sent.MessageID}, nil
}

// SendFile returns ports.ErrPhotoNotAllowed when the chat refuses photos.
func (g *Gateway) SendFile(ctx context.Context, chatID int64, file ports.File, caption ports.Message) (kernel.MessageRef, error) {
	var cfg tgbotapi.Chattable
	switch file.Kind {
	case ports.FilePhoto:
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(file.ID))
		photo.Caption = caption.Text
		photo.ParseMode = parseMode(caption)
		photo.ReplyMarkup = replyMarkup(caption)
		cfg = photo
	case ports.FileDocument:
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileID(file.ID))
		doc.Caption = caption.Text
		doc.ParseMode = parseMode(caption)
		doc.ReplyMarkup = replyMarkup(caption)
		cfg = doc
	default:
		return kernel.MessageRef{}, fmt.Errorf("unsupported file kind %d", file.Kind)
	}

	sent, err := g.send(ctx, "sendFile", cfg)
	if err != nil {
		if file.Kind == ports.FilePhoto && isPhotoRefused(err) {
			return kernel.MessageRef{}, fmt.Errorf("%w: %w", ports.ErrPhotoNotAllowed, err)
		}
		return kernel.MessageRef{}, err
	}
	return kernel.MessageRef{ChatID: sent.Chat.ID, MessageID: sent.MessageID}, nil
}

func (g *Gateway) EditText(ctx context.Context, ref kernel.MessageRef, msg ports.Message) error {
	cfg := tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, msg.Text)
	cfg.ParseMode = parseMode(msg)
	cfg.DisableWebPagePreview = msg.DisablePreview
	if len(msg.Actions) > 0 {
		markup := inlineMarkup(msg.Actions)
		cfg.ReplyMarkup = &markup
	}
	return g.edit(ctx, "editMessageText", cfg)
}

func (g *Gateway) EditCaption(ctx context.Context, ref kernel.MessageRef, msg ports.Message) error {
	cfg := tgbotapi.NewEditMessageCaption(ref.ChatID, ref.MessageID, msg.Text)
	cfg.ParseMode = parseMode(msg)
	if len(msg.Actions) > 0 {
		markup := inlineMarkup(msg.Actions)
		cfg.ReplyMarkup = &markup
	}
	return g.edit(ctx, "editMessageCaption", cfg)
}

func (g *Gateway) EditActions(ctx context.Context, ref kernel.MessageRef, actions [][]ports.Action) error {
	cfg := tgbotapi.NewEditMessageReplyMarkup(ref.ChatID, ref.MessageID, inlineMarkup(actions))
	return g.edit(ctx, "editMessageReplyMarkup", cfg)
}

func (g *Gateway) Delete(ctx context.Context, ref kernel.MessageRef) error {
	_, err := g.request(ctx, "deleteMessage", tgbotapi.NewDeleteMessage(ref.ChatID, ref.MessageID))
	return err
}

func (g *Gateway) CreateInviteLink(ctx context.Context, req ports.InviteRequest) (string, error) {
	cfg := tgbotapi.CreateChatInviteLinkConfig{
		ChatConfig:  tgbotapi.ChatConfig{ChatID: req.ChatID},
		Name:        req.Name,
		MemberLimit: req.MemberLimit,
	}
	if !req.ExpireAt.IsZero() {
		cfg.ExpireDate = int(req.ExpireAt.Unix())
	}

	resp, err := g.request(ctx, "createChatInviteLink", cfg)
	if err != nil {
		return "", err
	}
	var link tgbotapi.ChatInviteLink
	if err := json.Unmarshal(resp.Result, &link); err != nil {
		return "", fmt.Errorf("decode invite link: %w", err)
	}
	if link.InviteLink == "" {
		return "", fmt.Errorf("empty invite link for chat %d", req.ChatID)
	}
	return link.InviteLink, nil
}

// Kick bans and immediately unbans, which removes the member but lets them join
// again with a new link.
func (g *Gateway) Kick(ctx context.Context, chatID int64, userID kernel.UserID) error {
	member := tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: int64(userID)}
	if _, err := g.request(ctx, "banChatMember", tgbotapi.BanChatMemberConfig{ChatMemberConfig: member}); err != nil {
		return err
	}
	_, err := g.request(ctx, "unbanChatMember", tgbotapi.UnbanChatMemberConfig{ChatMemberConfig: member, OnlyIfBanned: true})
	return err
}

// AnswerCallback stops the button spinner, optionally with a toast or an alert.
func (g *Gateway) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	cfg := tgbotapi.NewCallback(callbackID, text)
	cfg.ShowAlert = alert
	_, err := g.request(ctx, "answerCallbackQuery", cfg)
	return err
}

func (g *Gateway) edit(ctx context.Context, method string, cfg tgbotapi.Chattable) error {
	_, err := g.send(ctx, method, cfg)
	if isNotModified(err) {
		return nil
	}
	return err
}

func (g *Gateway) send(ctx context.Context, method string, cfg tgbotapi.Chattable) (tgbotapi.Message, error) {
	var sent tgbotapi.Message
	err := g.call(ctx, method, func() error {
		var err error
		sent, err = g.bot.Send(cfg)
		return err
	})
	return sent, err
}

func (g *Gateway) request(ctx context.Context, method string, cfg tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	var resp *tgbotapi.APIResponse
	err := g.call(ctx, method, func() error {
		var err error
		resp, err = g.bot.Request(cfg)
		return err
	})
	return resp, err
}

func (g *Gateway) call(ctx context.Context, method string, fn func() error) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}
	err := fn()

	wait := retryAfter(err)
	if wait == 0 || wait > g.cfg.MaxRetryWait {
		return err
	}
	g.logger.Warn("flood control, retrying", "method", method, "wait", wait)

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}
	return fn()
}
