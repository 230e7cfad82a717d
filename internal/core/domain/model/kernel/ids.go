package kernel

import (
	"strconv"

	"dispatch/internal/pkg/errs"
)

// UserID is the numeric identity of a chat user. Customers, drivers and admins
// share the same id space.
type UserID int64

// ParseUserID parses the decimal text form used in callback data and snapshot keys.
func ParseUserID(s string) (UserID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("user id", err)
	}
	id := UserID(v)
	if err := id.Validate(); err != nil {
		return 0, err
	}
	return id, nil
}

// Validate rejects the zero id.
func (id UserID) Validate() error {
	if id == 0 {
		return errs.NewValueIsRequiredError("user id")
	}
	return nil
}

// String returns the decimal form of the id.
func (id UserID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// MessageRef points at a message the bot rendered so it can later be edited or deleted.
// The zero value means "no message".
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// IsZero reports whether the reference points nowhere.
func (r MessageRef) IsZero() bool {
	return r.MessageID == 0
}
