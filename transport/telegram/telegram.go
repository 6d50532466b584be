////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package telegram adapts the Telegram Bot API to the transport
// contracts. It is the only package that imports the Bot API client; the
// relay core sees transport.Event, transport.Sender, and
// transport.APIError exclusively.
package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	jww "github.com/spf13/jwalterweatherman"

	"gitlab.com/orchid-im/supportbot/transport"
)

// Long-poll wait in seconds. Telegram holds the request open for up to
// this long before returning an empty batch.
const pollTimeout = 30

// Bot implements transport.Sender and transport.Poller against the
// Telegram Bot API.
type Bot struct {
	api *tgbotapi.BotAPI
}

// New authenticates the bot token against the API.
func New(token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, wrapErr(err)
	}
	jww.INFO.Printf("Authorized as @%s (id %d)", api.Self.UserName, api.Self.ID)
	return &Bot{api: api}, nil
}

// SelfID returns the bot account's own user id.
func (b *Bot) SelfID() int64 {
	return b.api.Self.ID
}

// Poll long-polls for updates and hands each message event to handle, in
// update order, on the calling goroutine. Returns nil once quit closes,
// or the transport error that interrupted polling.
func (b *Bot) Poll(handle func(*transport.Event), quit <-chan struct{}) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeout

	for {
		select {
		case <-quit:
			return nil
		default:
		}

		updates, err := b.api.GetUpdates(cfg)
		if err != nil {
			return wrapErr(err)
		}

		for _, up := range updates {
			if up.UpdateID >= cfg.Offset {
				cfg.Offset = up.UpdateID + 1
			}
			if up.Message == nil {
				continue
			}
			handle(convertMessage(up.Message))
		}
	}
}

func (b *Bot) send(c tgbotapi.Chattable) (int64, error) {
	msg, err := b.api.Send(c)
	if err != nil {
		return 0, wrapErr(err)
	}
	return int64(msg.MessageID), nil
}

func (b *Bot) SendText(chatID int64, text string, html bool) (int64, error) {
	cfg := tgbotapi.NewMessage(chatID, text)
	if html {
		cfg.ParseMode = tgbotapi.ModeHTML
	}
	return b.send(cfg)
}

func (b *Bot) SendPhoto(chatID int64, photo *transport.Photo) (int64, error) {
	cfg := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(photo.FileID))
	cfg.Caption = photo.Caption
	return b.send(cfg)
}

func (b *Bot) SendAudio(chatID int64, audio *transport.Audio) (int64, error) {
	cfg := tgbotapi.NewAudio(chatID, tgbotapi.FileID(audio.FileID))
	cfg.Caption = audio.Caption
	cfg.Performer = audio.Performer
	cfg.Title = audio.Title
	return b.send(cfg)
}

func (b *Bot) SendDocument(chatID int64, doc *transport.Document) (int64, error) {
	cfg := tgbotapi.NewDocument(chatID, tgbotapi.FileID(doc.FileID))
	cfg.Caption = doc.Caption
	return b.send(cfg)
}

func (b *Bot) SendVideo(chatID int64, video *transport.Video) (int64, error) {
	cfg := tgbotapi.NewVideo(chatID, tgbotapi.FileID(video.FileID))
	cfg.Caption = video.Caption
	return b.send(cfg)
}

func (b *Bot) SendVoice(chatID int64, voice *transport.Voice) (int64, error) {
	cfg := tgbotapi.NewVoice(chatID, tgbotapi.FileID(voice.FileID))
	cfg.Caption = voice.Caption
	return b.send(cfg)
}

func (b *Bot) SendVideoNote(chatID int64, note *transport.VideoNote) (int64, error) {
	return b.send(tgbotapi.NewVideoNote(chatID, 0, tgbotapi.FileID(note.FileID)))
}

func (b *Bot) SendAnimation(chatID int64, anim *transport.Animation) (int64, error) {
	cfg := tgbotapi.NewAnimation(chatID, tgbotapi.FileID(anim.FileID))
	cfg.Caption = anim.Caption
	return b.send(cfg)
}

func (b *Bot) SendSticker(chatID int64, sticker *transport.Sticker) (int64, error) {
	return b.send(tgbotapi.NewSticker(chatID, tgbotapi.FileID(sticker.FileID)))
}

func (b *Bot) SendLocation(chatID int64, loc *transport.Location) (int64, error) {
	return b.send(tgbotapi.NewLocation(chatID, loc.Latitude, loc.Longitude))
}

func (b *Bot) SendVenue(chatID int64, venue *transport.Venue) (int64, error) {
	cfg := tgbotapi.NewVenue(chatID, venue.Title, venue.Address,
		venue.Latitude, venue.Longitude)
	cfg.FoursquareID = venue.FoursquareID
	return b.send(cfg)
}

func (b *Bot) SendContact(chatID int64, contact *transport.Contact) (int64, error) {
	cfg := tgbotapi.NewContact(chatID, contact.PhoneNumber, contact.FirstName)
	cfg.LastName = contact.LastName
	return b.send(cfg)
}
