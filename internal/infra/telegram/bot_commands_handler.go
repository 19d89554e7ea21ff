package telegram

import (
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterBotCommands registers the /start and /help handlers.
func RegisterBotCommands(b *telebot.Bot, baseLogger *logrus.Entry) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", func(c telebot.Context) error {
		logCtx := startHelpLogger.WithField("command", "/start").WithField("sender_id", c.Sender().ID)
		logCtx.Info("Processing /start command")

		return c.Send("🎈 Hi! I remember birthdays and announce them in this chat on the right day. Use /set_birthday to add yours and /help for the full list of commands.")
	})

	b.Handle("/help", func(c telebot.Context) error {
		logCtx := startHelpLogger.WithField("command", "/help").WithField("sender_id", c.Sender().ID)
		logCtx.Info("Processing /help command")

		var helpText strings.Builder
		helpText.WriteString("Available commands:\n\n")
		helpText.WriteString("`/set_birthday <day> <month> [year] [utc_offset]`\n - Save your birthday. Reply to someone's message to save theirs. The offset is your timezone in hours from UTC.\n\n")
		helpText.WriteString("`/get_birthday`\n - Show a saved birthday (yours, or the replied-to user's).\n\n")
		helpText.WriteString("`/next_birthday`\n - Days until the next occurrence of a birthday.\n\n")
		helpText.WriteString("`/days_left`\n - A cheeky life-expectancy countdown. Needs a birth year.\n\n")
		helpText.WriteString("`/set_channel [chat_id]`\n - Choose where birthday announcements for this group are posted. Defaults to the current chat.\n\n")
		helpText.WriteString("`/help`\n - Show this help message.")
		return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})
}
