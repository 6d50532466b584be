////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package relay

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"gitlab.com/orchid-im/supportbot/storage"
)

const emptyNamePlaceholder = "<empty name>"

// Codepoints that render as blank space; names made only of these (or of
// unprintable characters) are treated as empty.
var blankRunes = map[rune]bool{
	0x0020: true,
	0x115f: true,
	0x1160: true,
	0x3164: true,
	0xffa0: true,
}

// FormatUserInfo renders the staff-facing identity card for a user as
// HTML: a tg://user deep link on the display name, the username when
// known, and the numeric id.
func FormatUserInfo(u *storage.UserRecord) string {
	name := u.RealName
	if !hasPrintable(name) {
		name = emptyNamePlaceholder
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User: <a href=\"tg://user?id=%d\">%s</a>",
		u.ID, escapeHTML(name))
	if u.Username != "" {
		fmt.Fprintf(&b, " (@%s)", escapeHTML(u.Username))
	}
	fmt.Fprintf(&b, "\nID: <code>%d</code>", u.ID)
	return b.String()
}

// hasPrintable reports whether s contains at least one character that
// actually renders as something visible.
func hasPrintable(s string) bool {
	for _, r := range s {
		if unicode.IsPrint(r) && !blankRunes[r] {
			return true
		}
	}
	return false
}

// escapeHTML replaces the three HTML metacharacters with numeric
// entities, which is all the chat service's HTML parse mode requires.
func escapeHTML(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '<', '>', '&':
			fmt.Fprintf(&b, "&#%d;", r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
