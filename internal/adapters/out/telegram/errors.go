package telegram

import (
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func apiError(err error) (*tgbotapi.Error, bool) {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// retryAfter is the flood-control wait Telegram asked for, zero when err is not a
// 429.
func retryAfter(err error) time.Duration {
	apiErr, ok := apiError(err)
	if !ok || apiErr.RetryAfter <= 0 {
		return 0
	}
	return time.Duration(apiErr.RetryAfter) * time.Second
}

func isPhotoRefused(err error) bool {
	apiErr, ok := apiError(err)
	if !ok {
		return false
	}
	msg := strings.ToLower(apiErr.Message)
	return strings.Contains(msg, "photo") &&
		(strings.Contains(msg, "rights") || strings.Contains(msg, "forbidden") || strings.Contains(msg, "not allowed"))
}

// isNotModified reports an edit that left the message as it was.
func isNotModified(err error) bool {
	apiErr, ok := apiError(err)
	return ok && strings.Contains(apiErr.Message, "message is not modified")
}
