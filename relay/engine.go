////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package relay implements the dispatch core of the support bot: inbound
// events are classified by chat kind and routed to the private-side or
// staff-group-side flow, with ban checks, forward-restriction checks, and
// periodic re-identification announcements along the way.
package relay

import (
	"strings"
	"time"

	jww "github.com/spf13/jwalterweatherman"
	"gitlab.com/xx_network/primitives/netTime"

	"gitlab.com/orchid-im/supportbot/delivery"
	"gitlab.com/orchid-im/supportbot/storage"
	"gitlab.com/orchid-im/supportbot/transport"
)

const (
	// A correspondent silent for this long gets re-announced to the
	// staff group before their next message is relayed.
	idRemindAfter = 48 * time.Hour

	// A staff reply to a banned user is still delivered if the user
	// messaged within this window; they plausibly still have the chat
	// open.
	banWarnWindow = 10 * time.Minute
)

// Canned texts sent to correspondents and staff.
const (
	textPermBanned   = "You cannot message the support bot."
	textTempBanned   = "You cannot message the support bot now, try again later."
	textNoForwarding = "It is not possible to forward messages here."
	textBotBlocked   = "Bot was blocked by user."
	textTargetBanned = "Recipient is banned, not delivering the reply."
	idRemindDivider  = "---------------------------------------\n"
)

// Config holds the relay target and canned texts, loaded at startup.
type Config struct {
	// TargetGroup is the staff group chat id; zero means no group is
	// configured and private handling fails closed.
	TargetGroup int64
	// WelcomeText is sent in response to /start.
	WelcomeText string
	// ReplyText, when non-empty, is auto-sent back after every relayed
	// message.
	ReplyText string
}

// Engine dispatches inbound events. It is driven by a single sequential
// worker; nothing in it is safe for concurrent use.
type Engine struct {
	cfg    Config
	sender transport.Sender
	gw     *delivery.Gateway
	kv     *storage.KV
	users  *storage.UserStore
	links  *storage.LinkTable
}

// New builds an Engine on the given transport, gateway, and store.
func New(cfg Config, sender transport.Sender, gw *delivery.Gateway,
	kv *storage.KV) *Engine {
	return &Engine{
		cfg:    cfg,
		sender: sender,
		gw:     gw,
		kv:     kv,
		users:  storage.NewUserStore(kv),
		links:  storage.NewLinkTable(kv),
	}
}

// HandleEvent processes one inbound event. Failures are isolated per
// event: a panic while handling is logged and does not reach the caller.
func (e *Engine) HandleEvent(ev *transport.Event) {
	defer func() {
		if r := recover(); r != nil {
			jww.ERROR.Printf("Panic while handling event from chat %d: %+v",
				ev.ChatID, r)
		}
	}()

	e.kv.MaybeSync()

	switch {
	case ev.Kind.IsGroup():
		if e.cfg.TargetGroup != 0 && ev.ChatID == e.cfg.TargetGroup {
			e.handleGroup(ev)
			return
		}
		jww.WARN.Printf("Got message from group %d which we're not "+
			"supposed to be in", ev.ChatID)
	case ev.Kind == transport.KindPrivate:
		e.handlePrivate(ev)
	}
}

// handleGroup processes a message seen in the staff group. Only replies
// to messages the bot itself relayed are meaningful; everything else is
// staff chatter and is ignored.
func (e *Engine) handleGroup(ev *transport.Event) {
	if ev.ReplyTo == nil {
		return
	}
	if ev.ReplyTo.SenderID != e.sender.SelfID() {
		return
	}

	userID, err := e.links.Get(ev.ReplyTo.MessageID)
	if err != nil {
		jww.WARN.Printf("Couldn't find replied-to message %d in target "+
			"group: %+v", ev.ReplyTo.MessageID, err)
		return
	}
	jww.DEBUG.Printf("Reply to message %d resolves to user %d",
		ev.ReplyTo.MessageID, userID)

	if text, ok := ev.Text(); ok && strings.HasPrefix(text, "/") {
		name, arg := splitCommand(text)
		e.handleGroupCommand(userID, name, arg)
		return
	}

	e.deliverToUser(userID, ev)
}

// deliverToUser duplicates a staff reply into the target user's private
// chat, so the user sees it as a direct message rather than a forward.
func (e *Engine) deliverToUser(userID int64, ev *transport.Event) {
	user, err := e.users.Get(userID)
	if err != nil {
		jww.WARN.Printf("No record for user %d: %+v", userID, err)
		return
	}

	now := netTime.Now()
	if user.BanState(now) != storage.NotBanned &&
		now.Sub(user.LastMessaged) >= banWarnWindow {
		e.notifyGroup(textTargetBanned)
		return
	}

	res := e.gw.Execute(func() error {
		_, err := resend(e.sender, userID, ev)
		return err
	})
	if res == delivery.Blocked {
		e.notifyGroup(textBotBlocked)
	}
}

// handlePrivate runs the private-side flow of spec'd steps: record
// upsert, ban check, command handling, forward restriction, periodic
// re-identification, relay, auto-reply, and the last-messaged update.
func (e *Engine) handlePrivate(ev *transport.Event) {
	if e.cfg.TargetGroup == 0 {
		jww.ERROR.Printf("Target group not set, dropping message from "+
			"user %d", ev.ChatID)
		return
	}

	now := netTime.Now()
	user, err := e.users.Modify(ev.ChatID, true, func(u *storage.UserRecord) error {
		u.Username = ev.From.Username
		u.RealName = ev.From.FirstName
		if ev.From.LastName != "" {
			u.RealName += " " + ev.From.LastName
		}
		return nil
	})
	if err != nil {
		jww.ERROR.Printf("Failed to refresh record for user %d: %+v",
			ev.ChatID, err)
		return
	}

	switch user.BanState(now) {
	case storage.PermBanned:
		e.sendText(ev.ChatID, textPermBanned, false)
		return
	case storage.TempBanned:
		e.sendText(ev.ChatID, textTempBanned, false)
		return
	}

	if text, ok := ev.Text(); ok && strings.HasPrefix(text, "/") {
		name, _ := splitCommand(text)
		if e.handlePrivateCommand(ev.ChatID, name) {
			return
		}
	}

	if ev.Forwarded {
		e.sendText(ev.ChatID, textNoForwarding, false)
		return
	}

	if now.Sub(user.LastMessaged) >= idRemindAfter {
		e.sendText(e.cfg.TargetGroup, idRemindDivider+FormatUserInfo(user), true)
	}

	e.gw.Execute(func() error {
		relayedID, err := resend(e.sender, e.cfg.TargetGroup, ev)
		if err != nil {
			return err
		}
		e.links.Put(relayedID, user.ID)
		jww.DEBUG.Printf("Delivered message from %s -> group message %d",
			user, relayedID)
		return nil
	})

	if e.cfg.ReplyText != "" {
		e.sendText(ev.ChatID, e.cfg.ReplyText, true)
	}

	// The attempt itself counts as contact, whether or not the relay
	// delivered.
	if _, err = e.users.Modify(user.ID, false, func(u *storage.UserRecord) error {
		u.LastMessaged = now
		return nil
	}); err != nil {
		jww.ERROR.Printf("Failed to update last-messaged time for user "+
			"%d: %+v", user.ID, err)
	}
}

// handlePrivateCommand reports whether the command was consumed; any
// unrecognized command falls through to normal relay.
func (e *Engine) handlePrivateCommand(chatID int64, name string) bool {
	switch name {
	case "start":
		e.sendText(chatID, e.cfg.WelcomeText, true)
		return true
	case "stop":
		return true
	}
	return false
}

// sendText pushes a text message through the gateway, dropping any
// failure outcome (the gateway already logged it).
func (e *Engine) sendText(chatID int64, text string, html bool) {
	e.gw.Execute(func() error {
		_, err := e.sender.SendText(chatID, text, html)
		return err
	})
}

func (e *Engine) notifyGroup(text string) {
	e.sendText(e.cfg.TargetGroup, text, false)
}

// splitCommand parses "/<name> <rest-of-line>".
func splitCommand(text string) (name, arg string) {
	name, arg, _ = strings.Cut(strings.TrimPrefix(text, "/"), " ")
	return name, arg
}
