package app

import (
	"context"
	"fmt"
	"time"

	"birthday_bot/internal/domain/birthday"
	"birthday_bot/internal/domain/dates"
	domainTelegram "birthday_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// pendingAnnouncement is a delivery decided during a sweep, sent only after
// the updated snapshot has been written back.
type pendingAnnouncement struct {
	chatID int64
	userID int64
	name   string
}

// AnnouncementService runs the periodic sweep over all birthday records and
// fires at most one announcement per record per calendar year.
type AnnouncementService struct {
	store  birthday.SnapshotStore
	client domainTelegram.Client
	logger *logrus.Entry
	now    func() time.Time
}

func NewAnnouncementService(store birthday.SnapshotStore, client domainTelegram.Client, logger *logrus.Entry) *AnnouncementService {
	return &AnnouncementService{
		store:  store,
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Sweep evaluates every record against UTC today inside one transaction and
// delivers the queued announcements only after the snapshot write committed.
// A failed write discards the queue; the untouched last_announcement markers
// make the same records due again on the next tick.
func (s *AnnouncementService) Sweep(ctx context.Context) error {
	today := dates.Today(s.now())
	var pending []pendingAnnouncement

	err := s.store.Transact(ctx, func(snap *birthday.Snapshot) error {
		pending = pending[:0]
		for i := range snap.Entries {
			rec := &snap.Entries[i]
			if !dueToday(rec, today) {
				continue
			}

			stamp := today
			rec.LastAnnouncement = &stamp

			chatID, ok := snap.ServerChannels[rec.GuildID]
			if !ok {
				// No channel registered: the record is still marked for the
				// year so a later /set_channel does not trigger a backlog of
				// stale announcements.
				s.logger.WithFields(logrus.Fields{
					"user_id":  rec.UserID,
					"guild_id": rec.GuildID,
				}).Warn("Birthday due but no announcement channel is registered")
				continue
			}
			pending = append(pending, pendingAnnouncement{
				chatID: chatID,
				userID: rec.UserID,
				name:   rec.Name,
			})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("birthday sweep transaction: %w", err)
	}

	for _, p := range pending {
		text := fmt.Sprintf("🎂🎈 Happy birthday, %s! 🎉", p.name)
		if sendErr := s.client.SendMessage(p.chatID, text, nil); sendErr != nil {
			s.logger.WithError(sendErr).WithFields(logrus.Fields{
				"user_id": p.userID,
				"chat_id": p.chatID,
			}).Error("Failed to deliver birthday announcement")
			continue
		}
		s.logger.WithFields(logrus.Fields{
			"user_id": p.userID,
			"chat_id": p.chatID,
		}).Info("Birthday announcement delivered")
	}
	return nil
}

// dueToday reports whether rec's offset-adjusted birthday falls on the given
// UTC day and has not been announced this calendar year. The occurrence is
// anchored in today's year before the offset shift: anchoring in the birth
// year would let its leap-ness leak in (a Mar 1 birthday born in a leap year
// shifted back across midnight gives Feb 29, which no UTC day matches in a
// non-leap year).
func dueToday(rec *birthday.Record, today time.Time) bool {
	occurrence := time.Date(today.Year(), time.Month(rec.Month), rec.Day, 0, 0, 0, 0, time.UTC)
	if occurrence.Day() != rec.Day || occurrence.Month() != time.Month(rec.Month) {
		// Feb 29 in a non-leap year, or a hand-edited entry that no longer
		// validates: the birthday does not occur this year.
		return false
	}
	effective := dates.EffectiveLocalDay(occurrence, rec.UTCOffset)
	if effective.Month() != today.Month() || effective.Day() != today.Day() {
		return false
	}
	return !rec.AnnouncedIn(today.Year())
}
