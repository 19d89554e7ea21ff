package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"birthday_bot/internal/domain/birthday"
	"birthday_bot/internal/domain/dates"
)

// Custom application-level errors for the birthday service.
var (
	ErrRecordNotFound = errors.New("no birthday recorded for this user in this chat")
	ErrInvalidOffset  = errors.New("utc offset must be between -12 and +14 hours")
	ErrYearUnknown    = errors.New("birthday record has no birth year")
)

// BirthdayService implements the upsert/lookup operations used by the
// command handlers. All mutations route through the store's Transact.
type BirthdayService struct {
	store birthday.SnapshotStore
	now   func() time.Time
}

func NewBirthdayService(store birthday.SnapshotStore) *BirthdayService {
	return &BirthdayService{store: store, now: time.Now}
}

// SetBirthday records or replaces the birthday for the (user, guild) pair.
// Replacement resets the announcement bookkeeping, so a corrected date is
// announced on its next occurrence.
func (s *BirthdayService) SetBirthday(ctx context.Context, userID, guildID int64, name string, day, month int, year *int, utcOffset int) (*birthday.Record, error) {
	if _, err := dates.Make(day, month, year); err != nil {
		return nil, err
	}
	if utcOffset < -12 || utcOffset > 14 {
		return nil, ErrInvalidOffset
	}

	rec := birthday.Record{
		UserID:    userID,
		GuildID:   guildID,
		Name:      name,
		Day:       day,
		Month:     month,
		Year:      year,
		UTCOffset: utcOffset,
	}
	err := s.store.Transact(ctx, func(snap *birthday.Snapshot) error {
		snap.Put(rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("persist birthday for user %d: %w", userID, err)
	}
	return &rec, nil
}

// GetBirthday returns a copy of the record for the (user, guild) pair.
func (s *BirthdayService) GetBirthday(ctx context.Context, userID, guildID int64) (*birthday.Record, error) {
	snap, err := s.store.Read(ctx)
	if err != nil && !errors.Is(err, birthday.ErrSnapshotCorrupted) {
		return nil, fmt.Errorf("read birthday snapshot: %w", err)
	}
	rec, ok := snap.Find(userID, guildID)
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &rec, nil
}

// SetAnnouncementChannel registers the chat the scheduler announces into for
// the given guild. Last write wins.
func (s *BirthdayService) SetAnnouncementChannel(ctx context.Context, guildID, chatID int64) error {
	err := s.store.Transact(ctx, func(snap *birthday.Snapshot) error {
		snap.ServerChannels[guildID] = chatID
		return nil
	})
	if err != nil {
		return fmt.Errorf("persist announcement channel for guild %d: %w", guildID, err)
	}
	return nil
}

// NextBirthday returns the next calendar occurrence of the user's birthday on
// or after UTC today.
func (s *BirthdayService) NextBirthday(ctx context.Context, userID, guildID int64) (time.Time, error) {
	rec, err := s.GetBirthday(ctx, userID, guildID)
	if err != nil {
		return time.Time{}, err
	}
	next, err := dates.NextOccurrence(rec.Month, rec.Day, dates.Today(s.now()))
	if err != nil {
		// Hand-edited store file with a month/day that exists in no year.
		return time.Time{}, fmt.Errorf("stored birthday for user %d is invalid: %w", userID, err)
	}
	return next, nil
}

// ProjectedFarewell projects the user's birth date expectancyYears forward.
// Requires a record with a known birth year.
func (s *BirthdayService) ProjectedFarewell(ctx context.Context, userID, guildID int64, expectancyYears int) (time.Time, error) {
	rec, err := s.GetBirthday(ctx, userID, guildID)
	if err != nil {
		return time.Time{}, err
	}
	if rec.Year == nil {
		return time.Time{}, ErrYearUnknown
	}
	birthDate, err := dates.Make(rec.Day, rec.Month, rec.Year)
	if err != nil {
		return time.Time{}, fmt.Errorf("stored birthday for user %d is invalid: %w", userID, err)
	}
	return birthDate.AddDate(expectancyYears, 0, 0), nil
}
