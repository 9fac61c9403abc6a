package telegram

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/storenow/backoffice/internal/config"
)

// Message is one channel announcement. When PhotoURL is set the message
// is sent as a photo with a caption, otherwise as plain text. A button
// is attached when both ButtonText and ButtonURL are set.
type Message struct {
	Text       string
	PhotoURL   string
	ButtonText string
	ButtonURL  string
}

// Sender delivers a message to the configured channel.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type client struct {
	bot       *bot.Bot
	channelID string
}

// NewSender builds the channel sender. When notifications are disabled
// it returns a sink that drops messages, so the dispatcher wiring stays
// uniform.
func NewSender(cfg config.Config) (Sender, error) {
	if !cfg.Telegram.Enabled {
		return noopSender{}, nil
	}
	b, err := bot.New(cfg.Telegram.BotToken)
	if err != nil {
		return nil, err
	}
	return &client{bot: b, channelID: cfg.Telegram.ChannelID}, nil
}

func (c *client) Send(ctx context.Context, msg Message) error {
	markup := replyMarkup(msg)

	if msg.PhotoURL != "" {
		_, err := c.bot.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:      c.channelID,
			Photo:       &models.InputFileString{Data: msg.PhotoURL},
			Caption:     msg.Text,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: markup,
		})
		return err
	}

	_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      c.channelID,
		Text:        msg.Text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: markup,
	})
	return err
}

func replyMarkup(msg Message) models.ReplyMarkup {
	if msg.ButtonText == "" || msg.ButtonURL == "" {
		return nil
	}
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: msg.ButtonText, URL: msg.ButtonURL}},
		},
	}
}

type noopSender struct{}

func (noopSender) Send(context.Context, Message) error { return nil }
