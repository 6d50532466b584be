////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package transport defines the contracts between the relay core and the
// chat service it runs against: the inbound event stream, the outbound
// send primitives, and the structured error the delivery gateway
// classifies. The core only ever sees these types; concrete adapters live
// in subpackages.
package transport

// ChatKind classifies the chat an event originated from.
type ChatKind string

const (
	KindPrivate    ChatKind = "private"
	KindGroup      ChatKind = "group"
	KindSupergroup ChatKind = "supergroup"
	KindOther      ChatKind = "other"
)

// IsGroup returns true for both flavors of group chat.
func (k ChatKind) IsGroup() bool {
	return k == KindGroup || k == KindSupergroup
}

// UserInfo identifies the sender of an event. Username may be empty;
// LastName may be empty.
type UserInfo struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// ReplyInfo describes the message an event is a reply to. SenderID is the
// id of the account that sent the replied-to message, used to recognize
// replies to the bot's own relayed messages.
type ReplyInfo struct {
	MessageID int64
	SenderID  int64
}

// Event is a single inbound message as yielded by a Poller. Content is
// nil when the service delivered a payload kind the adapter does not
// recognize.
type Event struct {
	ChatID    int64
	Kind      ChatKind
	MessageID int64
	From      UserInfo
	ReplyTo   *ReplyInfo
	Forwarded bool
	Content   Content
}

// Text returns the text body of the event, or false when the event does
// not carry text content.
func (e *Event) Text() (string, bool) {
	t, ok := e.Content.(*Text)
	if !ok {
		return "", false
	}
	return t.Body, true
}
