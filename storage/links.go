////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package storage

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// LinkTable maps the id a message was assigned when it was relayed into
// the staff group back to the originating user id. Entries are written
// when a private message is successfully relayed and read when staff
// reply to it. They are never evicted; values are a handful of bytes and
// staff may reply to arbitrarily old messages.
type LinkTable struct {
	kv *KV
}

// NewLinkTable creates a LinkTable on the given KV.
func NewLinkTable(kv *KV) *LinkTable {
	return &LinkTable{kv: kv}
}

func linkKey(relayedMsgID int64) string {
	return fmt.Sprintf("m%d", relayedMsgID)
}

// Put records that the relayed message originated from userID.
func (t *LinkTable) Put(relayedMsgID, userID int64) {
	t.kv.SetBytes(linkKey(relayedMsgID), strconv.AppendInt(nil, userID, 10))
}

// Get resolves a relayed message id to the originating user id, or
// ErrNotFound.
func (t *LinkTable) Get(relayedMsgID int64) (int64, error) {
	data, err := t.kv.GetBytes(linkKey(relayedMsgID))
	if err != nil {
		return 0, err
	}

	userID, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, errors.WithMessagef(err,
			"corrupt link entry for message %d", relayedMsgID)
	}
	return userID, nil
}
