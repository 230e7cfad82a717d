package kernel_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{in: "19:00", want: "19:00"},
		{in: "9:5", want: "09:05"},
		{in: "00:00", want: "00:00"},
		{in: "23:59", want: "23:59"},
		{in: "24:00", wantErr: errs.ErrValueIsOutOfRange},
		{in: "12:60", wantErr: errs.ErrValueIsOutOfRange},
		{in: "1900", wantErr: errs.ErrValueIsInvalid},
		{in: "7 pm", wantErr: errs.ErrValueIsInvalid},
		{in: "", wantErr: errs.ErrValueIsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := kernel.ParseTimeOfDay(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.False(t, got.IsSet())
				return
			}
			require.NoError(t, err)
			assert.True(t, got.IsSet())
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestTimeOfDay_NextInstant(t *testing.T) {
	loc := time.FixedZone("UZT", 5*3600)
	now := time.Date(2025, 3, 10, 18, 0, 0, 0, loc)

	t.Run("later today", func(t *testing.T) {
		when, err := kernel.ParseTimeOfDay("19:00")
		require.NoError(t, err)

		assert.Equal(t, time.Date(2025, 3, 10, 19, 0, 0, 0, loc), when.NextInstant(now))
	})

	t.Run("already passed clamps to now", func(t *testing.T) {
		when, err := kernel.ParseTimeOfDay("07:30")
		require.NoError(t, err)

		assert.Equal(t, now, when.NextInstant(now))
	})

	t.Run("exactly now clamps to now", func(t *testing.T) {
		assert.Equal(t, now, kernel.TimeOfDayFrom(now).NextInstant(now))
	})
}
