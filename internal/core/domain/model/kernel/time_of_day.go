package kernel

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"dispatch/internal/pkg/errs"
)

var timeOfDayPattern = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})$`)

// TimeOfDay is the wall-clock time an order is scheduled for. The zero value is
// midnight and is valid; use IsSet to tell it apart from a parsed value.
type TimeOfDay struct {
	hour   int
	minute int
	set    bool
}

// ParseTimeOfDay accepts "H:M" with one or two digits on each side, within the
// 24-hour clock, and returns the value normalized to HH:MM.
//
// Example:
//
//	t, err := kernel.ParseTimeOfDay("9:05")
//	fmt.Println(t) // 09:05
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	m := timeOfDayPattern.FindStringSubmatch(s)
	if m == nil {
		return TimeOfDay{}, errs.NewValueIsInvalidErrorWithCause("time", fmt.Errorf("%q is not HH:MM", s))
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if h > 23 {
		return TimeOfDay{}, errs.NewValueIsOutOfRangeError("hour", h, 0, 23)
	}
	if mm > 59 {
		return TimeOfDay{}, errs.NewValueIsOutOfRangeError("minute", mm, 0, 59)
	}
	return TimeOfDay{hour: h, minute: mm, set: true}, nil
}

// TimeOfDayFrom truncates t to its hour and minute.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return TimeOfDay{hour: t.Hour(), minute: t.Minute(), set: true}
}

// IsSet reports whether the value came from a parse or a clock reading.
func (t TimeOfDay) IsSet() bool {
	return t.set
}

// String renders HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}

// NextInstant places the time on now's calendar day in now's location. If that
// instant is not after now, now itself is returned, so the result is never in the past.
func (t TimeOfDay) NextInstant(now time.Time) time.Time {
	y, m, d := now.Date()
	target := time.Date(y, m, d, t.hour, t.minute, 0, 0, now.Location())
	if target.After(now) {
		return target
	}
	return now
}
