////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package relay

import (
	"fmt"
	"time"

	jww "github.com/spf13/jwalterweatherman"
	"gitlab.com/xx_network/primitives/netTime"

	"gitlab.com/orchid-im/supportbot/storage"
)

// handleGroupCommand interprets a staff command issued as a reply to a
// relayed message. Unrecognized commands are ignored without a reply.
func (e *Engine) handleGroupCommand(userID int64, name, arg string) {
	switch name {
	case "info":
		e.commandInfo(userID)
	case "ban":
		e.commandBan(userID, arg)
	case "unban":
		e.commandUnban(userID)
	}
}

func (e *Engine) commandInfo(userID int64) {
	user, err := e.users.Get(userID)
	if err != nil {
		jww.WARN.Printf("No record for user %d: %+v", userID, err)
		return
	}
	e.sendText(e.cfg.TargetGroup, FormatUserInfo(user), true)
}

// commandBan bans the user for the parsed duration, or permanently when
// the duration is empty or unparsable.
func (e *Engine) commandBan(userID int64, arg string) {
	var until time.Time
	var msg string
	if d, ok := ParseBanDuration(arg); ok {
		until = netTime.Now().Add(d)
		msg = fmt.Sprintf("User banned until %s.", formatTimestamp(until))
	} else {
		until = storage.PermanentBan
		msg = "User banned permanently."
	}

	_, err := e.users.Modify(userID, false, func(u *storage.UserRecord) error {
		u.BannedUntil = &until
		return nil
	})
	if err != nil {
		jww.WARN.Printf("Failed to ban user %d: %+v", userID, err)
		return
	}

	e.notifyGroup(msg)
}

// commandUnban clears the ban; unbanning a user who is not banned is a
// no-op that reports so.
func (e *Engine) commandUnban(userID int64) {
	var msg string
	_, err := e.users.Modify(userID, false, func(u *storage.UserRecord) error {
		if u.BanState(netTime.Now()) == storage.NotBanned {
			msg = "User was not banned or ban expired already."
		} else {
			u.BannedUntil = nil
			msg = "User was unbanned."
		}
		return nil
	})
	if err != nil {
		jww.WARN.Printf("Failed to unban user %d: %+v", userID, err)
		return
	}

	e.notifyGroup(msg)
}
