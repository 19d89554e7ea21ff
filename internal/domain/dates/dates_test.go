package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestMake(t *testing.T) {
	t.Run("valid date with year", func(t *testing.T) {
		d, err := Make(15, 6, intPtr(1990))
		require.NoError(t, err)
		assert.Equal(t, time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("nil year uses placeholder", func(t *testing.T) {
		d, err := Make(1, 1, nil)
		require.NoError(t, err)
		assert.Equal(t, PlaceholderYear, d.Year())
	})

	t.Run("Feb 30 fails regardless of year", func(t *testing.T) {
		for _, year := range []*int{nil, intPtr(2000), intPtr(2024), intPtr(1999)} {
			_, err := Make(30, 2, year)
			assert.ErrorIs(t, err, ErrInvalidDate)
		}
	})

	t.Run("out of range components", func(t *testing.T) {
		cases := []struct{ day, month int }{
			{0, 6}, {32, 6}, {15, 0}, {15, 13}, {-1, 1},
		}
		for _, tc := range cases {
			_, err := Make(tc.day, tc.month, nil)
			assert.ErrorIs(t, err, ErrInvalidDate, "day=%d month=%d", tc.day, tc.month)
		}
	})

	t.Run("Apr 31 does not exist", func(t *testing.T) {
		_, err := Make(31, 4, intPtr(2020))
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("Feb 29 in a leap year", func(t *testing.T) {
		d, err := Make(29, 2, intPtr(2000))
		require.NoError(t, err)
		assert.Equal(t, 29, d.Day())
	})

	t.Run("Feb 29 in a non-leap year fails", func(t *testing.T) {
		_, err := Make(29, 2, intPtr(2023))
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("Feb 29 without a year fails against the non-leap placeholder", func(t *testing.T) {
		_, err := Make(29, 2, nil)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}

func TestEffectiveLocalDay(t *testing.T) {
	birthday := time.Date(2001, time.June, 15, 0, 0, 0, 0, time.UTC)

	t.Run("zero offset keeps the day", func(t *testing.T) {
		assert.Equal(t, birthday, EffectiveLocalDay(birthday, 0))
	})

	t.Run("positive offset flips to the previous UTC day", func(t *testing.T) {
		got := EffectiveLocalDay(birthday, 10)
		assert.Equal(t, time.Date(2001, time.June, 14, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("negative offset stays on the same UTC day", func(t *testing.T) {
		got := EffectiveLocalDay(birthday, -5)
		assert.Equal(t, birthday, got)
	})

	t.Run("Jan 1 with a positive offset rolls back to Dec 31", func(t *testing.T) {
		newYear := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
		got := EffectiveLocalDay(newYear, 2)
		assert.Equal(t, time.December, got.Month())
		assert.Equal(t, 31, got.Day())
	})
}

func TestToday(t *testing.T) {
	now := time.Date(2024, time.March, 7, 18, 42, 11, 999, time.FixedZone("CET", 3600))
	assert.Equal(t, time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC), Today(now))
}

func TestNextOccurrence(t *testing.T) {
	t.Run("later this year", func(t *testing.T) {
		from := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
		got, err := NextOccurrence(6, 15, from)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("already passed rolls to next year", func(t *testing.T) {
		from := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
		got, err := NextOccurrence(6, 15, from)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("today counts as the next occurrence", func(t *testing.T) {
		from := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
		got, err := NextOccurrence(6, 15, from)
		require.NoError(t, err)
		assert.Equal(t, from, got)
	})

	t.Run("December to January rollover", func(t *testing.T) {
		from := time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC)
		got, err := NextOccurrence(1, 1, from)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("Feb 29 skips to the next leap year", func(t *testing.T) {
		from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
		got, err := NextOccurrence(2, 29, from)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2028, time.February, 29, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("Feb 29 inside a leap year stays in it", func(t *testing.T) {
		from := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
		got, err := NextOccurrence(2, 29, from)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("pair that exists in no year fails instead of scanning forever", func(t *testing.T) {
		from := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
		_, err := NextOccurrence(2, 30, from)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}
