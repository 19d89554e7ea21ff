package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"birthday_bot/internal/app"
	"birthday_bot/internal/domain/dates"
	"birthday_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterBirthdayHandlers registers the birthday command surface. Commands
// that mention a user operate on the sender, or on the author of the message
// being replied to.
func RegisterBirthdayHandlers(ctx context.Context, b *telebot.Bot, svc *app.BirthdayService, cfg *config.AppConfig, baseLogger *logrus.Entry) {
	b.Handle("/set_birthday", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/set_birthday",
			"sender_id": c.Sender().ID,
			"chat_id":   c.Chat().ID,
		})
		handlerLogger.Info("Command received")

		args := c.Args()
		// Expected format: /set_birthday <day> <month> [year] [utc_offset]
		if len(args) < 2 || len(args) > 4 {
			handlerLogger.WithField("args_count", len(args)).Warn("Invalid command format")
			return c.Send("Usage: /set_birthday <day> <month> [year] [utc_offset]\nReply to someone's message to set their birthday instead of yours.")
		}

		day, err := strconv.Atoi(args[0])
		if err != nil {
			return c.Send("🐺🎩❌ Day must be a number.")
		}
		month, err := strconv.Atoi(args[1])
		if err != nil {
			return c.Send("🐺🎩❌ Month must be a number.")
		}

		var year *int
		if len(args) >= 3 {
			y, err := strconv.Atoi(args[2])
			if err != nil {
				return c.Send("🐺🎩❌ Year must be a number.")
			}
			year = &y
		}

		utcOffset := 0
		if len(args) == 4 {
			utcOffset, err = strconv.Atoi(strings.TrimPrefix(args[3], "+"))
			if err != nil {
				return c.Send("🐺🎩❌ UTC offset must be a whole number of hours, e.g. 2 or -7.")
			}
		}

		target := targetUser(c)
		handlerLogger = handlerLogger.WithFields(logrus.Fields{
			"target_id": target.ID,
			"day":       day,
			"month":     month,
		})

		rec, err := svc.SetBirthday(ctx, target.ID, c.Chat().ID, displayName(target), day, month, year, utcOffset)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch {
			case errors.Is(err, dates.ErrInvalidDate):
				logWithError.Warn("Invalid date supplied")
				return c.Send("🐺🎩❌ Invalid date!")
			case errors.Is(err, app.ErrInvalidOffset):
				logWithError.Warn("Invalid UTC offset supplied")
				return c.Send("🐺🎩❌ UTC offset must be between -12 and +14.")
			default:
				logWithError.Error("Failed to save birthday")
				return c.Send("Something went wrong while saving the birthday. Please try again later.")
			}
		}

		handlerLogger.Info("Birthday saved")

		yearText := "???"
		if rec.Year != nil {
			yearText = strconv.Itoa(*rec.Year)
		}
		return c.Send(fmt.Sprintf("✍️📅🎈 Added birthday for %s on %d.%d.%s!", rec.Name, rec.Day, rec.Month, yearText))
	})

	b.Handle("/get_birthday", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/get_birthday",
			"sender_id": c.Sender().ID,
			"chat_id":   c.Chat().ID,
		})
		handlerLogger.Info("Command received")

		target := targetUser(c)
		rec, err := svc.GetBirthday(ctx, target.ID, c.Chat().ID)
		if err != nil {
			if errors.Is(err, app.ErrRecordNotFound) {
				return c.Send("☹️🎈 No birthday set for this user in this chat!")
			}
			handlerLogger.WithError(err).Error("Failed to look up birthday")
			return c.Send("Something went wrong while looking up the birthday. Please try again later.")
		}

		yearText := ""
		if rec.Year != nil {
			age := time.Now().UTC().Year() - *rec.Year
			yearText = fmt.Sprintf(".%d - They are %d years old", *rec.Year, age)
		}
		return c.Send(fmt.Sprintf("📅🎈 %s's birthday is on %d.%d%s!", rec.Name, rec.Day, rec.Month, yearText))
	})

	b.Handle("/set_channel", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/set_channel",
			"sender_id": c.Sender().ID,
			"chat_id":   c.Chat().ID,
		})
		handlerLogger.Info("Command received")

		// Default: announce into the chat the command was issued in. An
		// explicit chat ID lets a group redirect announcements elsewhere.
		channelID := c.Chat().ID
		args := c.Args()
		if len(args) > 1 {
			return c.Send("Usage: /set_channel [chat_id]")
		}
		if len(args) == 1 {
			parsed, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return c.Send("🐺🎩❌ Chat ID must be a number.")
			}
			channelID = parsed
		}

		if err := svc.SetAnnouncementChannel(ctx, c.Chat().ID, channelID); err != nil {
			handlerLogger.WithError(err).Error("Failed to save announcement channel")
			return c.Send("Something went wrong while saving the announcement channel. Please try again later.")
		}

		handlerLogger.WithField("channel_id", channelID).Info("Announcement channel saved")
		if channelID == c.Chat().ID {
			return c.Send("📣🎈 Birthday announcements will be posted in this chat!")
		}
		return c.Send(fmt.Sprintf("📣🎈 Birthday announcements for this group will be posted in chat %d!", channelID))
	})

	b.Handle("/next_birthday", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/next_birthday",
			"sender_id": c.Sender().ID,
			"chat_id":   c.Chat().ID,
		})
		handlerLogger.Info("Command received")

		target := targetUser(c)
		next, err := svc.NextBirthday(ctx, target.ID, c.Chat().ID)
		if err != nil {
			if errors.Is(err, app.ErrRecordNotFound) {
				return c.Send("☹️🎈 No birthday set for this user in this chat!")
			}
			handlerLogger.WithError(err).Error("Failed to compute next birthday")
			return c.Send("Something went wrong. Please try again later.")
		}

		days := int(next.Sub(dates.Today(time.Now())).Hours() / 24)
		if days == 0 {
			return c.Send(fmt.Sprintf("🎂🎈 %s's birthday is today!", displayName(target)))
		}
		return c.Send(fmt.Sprintf("📅⏳ %d days until %s's birthday (%d.%d.%d)!", days, displayName(target), next.Day(), int(next.Month()), next.Year()))
	})

	b.Handle("/days_left", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/days_left",
			"sender_id": c.Sender().ID,
			"chat_id":   c.Chat().ID,
		})
		handlerLogger.Info("Command received")

		target := targetUser(c)
		farewell, err := svc.ProjectedFarewell(ctx, target.ID, c.Chat().ID, cfg.LifeExpectancyYears)
		if err != nil {
			switch {
			case errors.Is(err, app.ErrRecordNotFound):
				return c.Send("☹️🎈 No birthday set for this user in this chat!")
			case errors.Is(err, app.ErrYearUnknown):
				return c.Send("🔮❌ I need a birth year for that one. Re-add the birthday with a year!")
			default:
				handlerLogger.WithError(err).Error("Failed to compute projection")
				return c.Send("Something went wrong. Please try again later.")
			}
		}

		daysLeft := int(farewell.Sub(dates.Today(time.Now())).Hours() / 24)
		if daysLeft < 0 {
			return c.Send(fmt.Sprintf("🎉🔮 %s has already beaten the %d-year estimate. Congratulations!", displayName(target), cfg.LifeExpectancyYears))
		}
		return c.Send(fmt.Sprintf("⏳🔮 About %d days until %s turns %d. Use them well!", daysLeft, displayName(target), cfg.LifeExpectancyYears))
	})
}

// targetUser resolves which user a command acts on: the author of the message
// being replied to, otherwise the sender.
func targetUser(c telebot.Context) *telebot.User {
	if msg := c.Message(); msg != nil && msg.ReplyTo != nil && msg.ReplyTo.Sender != nil {
		return msg.ReplyTo.Sender
	}
	return c.Sender()
}

func displayName(u *telebot.User) string {
	name := u.FirstName
	if u.LastName != "" {
		name = name + " " + u.LastName
	}
	if strings.TrimSpace(name) == "" {
		name = u.Username
	}
	return name
}
