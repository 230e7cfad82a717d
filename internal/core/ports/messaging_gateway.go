package ports

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// ErrPhotoNotAllowed is returned by SendFile when the chat refuses photos; the
// caller may retry the same file as a document.
var ErrPhotoNotAllowed = errors.New("chat does not allow photos")

// Action is an inline button. Exactly one of Data or URL is set.
type Action struct {
	Label string
	Data  string
	URL   string
}

// KeyButton is a reply keyboard button.
type KeyButton struct {
	Text            string
	RequestContact  bool
	RequestLocation bool
}

// Keyboard replaces the user's reply keyboard. Remove hides it instead.
type Keyboard struct {
	Rows   [][]KeyButton
	Remove bool
}

// Message is an outgoing text or caption.
type Message struct {
	Text           string
	HTML           bool
	Actions        [][]Action
	Keyboard       *Keyboard
	DisablePreview bool
}

// FileKind tells how a file id is delivered.
type FileKind int

const (
	FilePhoto FileKind = iota + 1
	FileDocument
)

// File is a file already uploaded to the chat platform.
type File struct {
	ID   string
	Kind FileKind
}

// InviteRequest describes a single-use chat invite link.
type InviteRequest struct {
	ChatID      int64
	Name        string
	MemberLimit int
	ExpireAt    time.Time
}

// MessagingGateway is the outbound side of the chat platform. Every call may fail
// with a delivery error (blocked bot, missing rights); callers decide whether the
// failure matters.
type MessagingGateway interface {
	Send(ctx context.Context, chatID int64, msg Message) (kernel.MessageRef, error)
	SendFile(ctx context.Context, chatID int64, file File, caption Message) (kernel.MessageRef, error)

	// EditText replaces the text and the inline actions of a message.
	EditText(ctx context.Context, ref kernel.MessageRef, msg Message) error
	// EditCaption replaces the caption and the inline actions of a file message.
	EditCaption(ctx context.Context, ref kernel.MessageRef, msg Message) error
	// EditActions replaces only the inline actions; nil removes them.
	EditActions(ctx context.Context, ref kernel.MessageRef, actions [][]Action) error
	Delete(ctx context.Context, ref kernel.MessageRef) error

	CreateInviteLink(ctx context.Context, req InviteRequest) (string, error)
	// Kick removes a member without a lasting ban.
	Kick(ctx context.Context, chatID int64, userID kernel.UserID) error
}
