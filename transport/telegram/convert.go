////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package telegram

import (
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gitlab.com/orchid-im/supportbot/transport"
)

// convertMessage maps an API message onto the transport event model.
func convertMessage(m *tgbotapi.Message) *transport.Event {
	ev := &transport.Event{
		ChatID:    m.Chat.ID,
		Kind:      chatKind(m.Chat.Type),
		MessageID: int64(m.MessageID),
		Forwarded: m.ForwardFrom != nil || m.ForwardFromChat != nil ||
			m.ForwardSenderName != "",
		Content: convertContent(m),
	}

	if m.From != nil {
		ev.From = transport.UserInfo{
			ID:        m.From.ID,
			Username:  m.From.UserName,
			FirstName: m.From.FirstName,
			LastName:  m.From.LastName,
		}
	}

	if r := m.ReplyToMessage; r != nil {
		reply := &transport.ReplyInfo{MessageID: int64(r.MessageID)}
		if r.From != nil {
			reply.SenderID = r.From.ID
		}
		ev.ReplyTo = reply
	}

	return ev
}

func chatKind(t string) transport.ChatKind {
	switch t {
	case "private":
		return transport.KindPrivate
	case "group":
		return transport.KindGroup
	case "supergroup":
		return transport.KindSupergroup
	default:
		return transport.KindOther
	}
}

// convertContent picks the message's payload variant. The venue check
// precedes the location check because venue messages carry both fields.
// Returns nil for payload kinds the relay does not handle.
func convertContent(m *tgbotapi.Message) transport.Content {
	switch {
	case m.Text != "":
		return &transport.Text{Body: m.Text}
	case len(m.Photo) > 0:
		return convertPhoto(m)
	case m.Audio != nil:
		return &transport.Audio{
			FileID:    m.Audio.FileID,
			Caption:   m.Caption,
			Performer: m.Audio.Performer,
			Title:     m.Audio.Title,
		}
	case m.Document != nil:
		return &transport.Document{FileID: m.Document.FileID, Caption: m.Caption}
	case m.Video != nil:
		return &transport.Video{FileID: m.Video.FileID, Caption: m.Caption}
	case m.Voice != nil:
		return &transport.Voice{FileID: m.Voice.FileID, Caption: m.Caption}
	case m.VideoNote != nil:
		return &transport.VideoNote{FileID: m.VideoNote.FileID}
	case m.Animation != nil:
		return &transport.Animation{FileID: m.Animation.FileID, Caption: m.Caption}
	case m.Sticker != nil:
		return &transport.Sticker{FileID: m.Sticker.FileID}
	case m.Venue != nil:
		return &transport.Venue{
			Latitude:        m.Venue.Location.Latitude,
			Longitude:       m.Venue.Location.Longitude,
			Title:           m.Venue.Title,
			Address:         m.Venue.Address,
			FoursquareID:    m.Venue.FoursquareID,
			FoursquareType:  m.Venue.FoursquareType,
			GooglePlaceID:   m.Venue.GooglePlaceID,
			GooglePlaceType: m.Venue.GooglePlaceType,
		}
	case m.Location != nil:
		return &transport.Location{
			Latitude:  m.Location.Latitude,
			Longitude: m.Location.Longitude,
		}
	case m.Contact != nil:
		return &transport.Contact{
			PhoneNumber: m.Contact.PhoneNumber,
			FirstName:   m.Contact.FirstName,
			LastName:    m.Contact.LastName,
		}
	}
	return nil
}

// convertPhoto keeps only the largest size of the photo's size set.
func convertPhoto(m *tgbotapi.Message) *transport.Photo {
	best := m.Photo[0]
	for _, p := range m.Photo[1:] {
		if p.Width*p.Height > best.Width*best.Height {
			best = p
		}
	}
	return &transport.Photo{
		FileID:  best.FileID,
		Caption: m.Caption,
		Width:   best.Width,
		Height:  best.Height,
	}
}

// wrapErr converts API rejections into transport.APIError so the relay
// core can classify them without importing this package's client.
// Transport-level failures (timeouts, resets) pass through untouched.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return &transport.APIError{
			Code:        apiErr.Code,
			Description: apiErr.Message,
			RetryAfter:  time.Duration(apiErr.RetryAfter) * time.Second,
		}
	}
	return err
}
