////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package relay

import (
	"github.com/pkg/errors"

	"gitlab.com/orchid-im/supportbot/transport"
)

// resend duplicates the event's content into chatID, dispatching
// exhaustively over the content variants. The recipient sees a fresh
// message, not a forward. Returns the id of the new message.
func resend(s transport.Sender, chatID int64, ev *transport.Event) (int64, error) {
	switch c := ev.Content.(type) {
	case *transport.Text:
		return s.SendText(chatID, c.Body, false)
	case *transport.Photo:
		return s.SendPhoto(chatID, c)
	case *transport.Audio:
		return s.SendAudio(chatID, c)
	case *transport.Document:
		return s.SendDocument(chatID, c)
	case *transport.Video:
		return s.SendVideo(chatID, c)
	case *transport.Voice:
		return s.SendVoice(chatID, c)
	case *transport.VideoNote:
		return s.SendVideoNote(chatID, c)
	case *transport.Animation:
		return s.SendAnimation(chatID, c)
	case *transport.Sticker:
		return s.SendSticker(chatID, c)
	case *transport.Location:
		return s.SendLocation(chatID, c)
	case *transport.Venue:
		return s.SendVenue(chatID, c)
	case *transport.Contact:
		return s.SendContact(chatID, c)
	case nil:
		return 0, errors.New("cannot resend event with no content")
	default:
		return 0, errors.Errorf("unsupported content type %q", c.Type())
	}
}
