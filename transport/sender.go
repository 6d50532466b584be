////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package transport

// Sender is the outbound half of the chat service: one send primitive per
// content variant. Every method returns the id assigned to the delivered
// message, or an error that is an *APIError when the service rejected the
// call.
type Sender interface {
	// SelfID is the account id the bot is running as, used to recognize
	// replies to its own messages.
	SelfID() int64

	SendText(chatID int64, text string, html bool) (int64, error)
	SendPhoto(chatID int64, photo *Photo) (int64, error)
	SendAudio(chatID int64, audio *Audio) (int64, error)
	SendDocument(chatID int64, doc *Document) (int64, error)
	SendVideo(chatID int64, video *Video) (int64, error)
	SendVoice(chatID int64, voice *Voice) (int64, error)
	SendVideoNote(chatID int64, note *VideoNote) (int64, error)
	SendAnimation(chatID int64, anim *Animation) (int64, error)
	SendSticker(chatID int64, sticker *Sticker) (int64, error)
	SendLocation(chatID int64, loc *Location) (int64, error)
	SendVenue(chatID int64, venue *Venue) (int64, error)
	SendContact(chatID int64, contact *Contact) (int64, error)
}

// Poller is the inbound half: a blocking long-poll pump that calls handle
// for each event, in order, on the calling goroutine. Poll returns nil
// after quit closes and an error when the transport fails; the caller is
// expected to restart it.
type Poller interface {
	Poll(handle func(*Event), quit <-chan struct{}) error
}
