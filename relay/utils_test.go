////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package relay

import (
	"gitlab.com/elixxir/ekv"

	"gitlab.com/orchid-im/supportbot/delivery"
	"gitlab.com/orchid-im/supportbot/storage"
	"gitlab.com/orchid-im/supportbot/transport"
)

const (
	testSelfID = 999
	testGroup  = -100500
)

// sentMsg records one outbound call made against the fake sender. For
// text sends Text and HTML are set; for media sends Content is set.
type sentMsg struct {
	ChatID  int64
	Text    string
	HTML    bool
	Content transport.Content
}

// fakeSender implements transport.Sender in memory, assigning sequential
// message ids. Setting fail makes sends return that error; when failChat
// is non-zero only sends to that chat fail, so one unreachable user does
// not take the staff group down with them.
type fakeSender struct {
	nextID   int64
	sent     []sentMsg
	fail     error
	failChat int64
}

func (f *fakeSender) SelfID() int64 { return testSelfID }

func (f *fakeSender) record(m sentMsg) (int64, error) {
	if f.fail != nil && (f.failChat == 0 || f.failChat == m.ChatID) {
		return 0, f.fail
	}
	f.nextID++
	f.sent = append(f.sent, m)
	return f.nextID, nil
}

func (f *fakeSender) SendText(chatID int64, text string, html bool) (int64, error) {
	return f.record(sentMsg{ChatID: chatID, Text: text, HTML: html})
}

func (f *fakeSender) SendPhoto(chatID int64, photo *transport.Photo) (int64, error) {
	return f.record(sentMsg{ChatID: chatID, Content: photo})
}

func (f *fakeSender) SendAudio(chatID int64, audio *transport.Audio) (int64, error) {
	return f.record(sentMsg{ChatID: chatID, Content: audio})
}

func (f *fakeSender) SendDocument(chatID int64, doc *transport.Document) (int64, error) {
	return f.record(sentMsg{ChatID: chatID, Content: doc})
}

func (f *fakeSender) SendVideo(chatID int64, video *transport.Video) (int64, error) {
	return f.record(sentMsg{ChatID: chatID, Content: video})
}

func (f *fakeSender) SendVoice(chatID int64, voice *transport.Voice) (int64, error) {
	return f.record(sentMsg{ChatID: chatID, Content: voice})
}

func (f *fakeSender) SendVideoNote(chatID int64, note *transport.VideoNote) (int64, error) {
	return f.record(sentMsg{ChatID: chatID, Content: note})
}

func (f *fakeSender) SendAnimation(chatID int64, anim *transport.Animation) (int64, error) {
	return f.record(sentMsg{ChatID: chatID, Content: anim})
}

func (f *fakeSender) SendSticker(chatID int64, sticker *transport.Sticker) (int64, error) {
	return f.record(sentMsg{ChatID: chatID, Content: sticker})
}

func (f *fakeSender) SendLocation(chatID int64, loc *transport.Location) (int64, error) {
	return f.record(sentMsg{ChatID: chatID, Content: loc})
}

func (f *fakeSender) SendVenue(chatID int64, venue *transport.Venue) (int64, error) {
	return f.record(sentMsg{ChatID: chatID, Content: venue})
}

func (f *fakeSender) SendContact(chatID int64, contact *transport.Contact) (int64, error) {
	return f.record(sentMsg{ChatID: chatID, Content: contact})
}

// newTestEngine wires an Engine to a fake sender, a memory store, and a
// gateway that never sleeps.
func newTestEngine() (*Engine, *fakeSender) {
	sender := &fakeSender{}
	e := New(Config{
		TargetGroup: testGroup,
		WelcomeText: "welcome!",
		ReplyText:   "thanks, we got it",
	}, sender, delivery.NewGateway(), storage.NewKV(ekv.MakeMemstore()))
	return e, sender
}

// privateText builds a private text event from the given user.
func privateText(userID int64, text string) *transport.Event {
	return &transport.Event{
		ChatID:    userID,
		Kind:      transport.KindPrivate,
		MessageID: 1,
		From: transport.UserInfo{
			ID:        userID,
			Username:  "tester",
			FirstName: "Test",
			LastName:  "User",
		},
		Content: &transport.Text{Body: text},
	}
}

// groupReply builds a staff-group text event replying to a message the
// bot previously sent.
func groupReply(repliedMsgID int64, text string) *transport.Event {
	return &transport.Event{
		ChatID:    testGroup,
		Kind:      transport.KindSupergroup,
		MessageID: 50,
		From:      transport.UserInfo{ID: 1, FirstName: "Staff"},
		ReplyTo: &transport.ReplyInfo{
			MessageID: repliedMsgID,
			SenderID:  testSelfID,
		},
		Content: &transport.Text{Body: text},
	}
}
