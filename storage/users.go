////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// PermanentBan is the sentinel ban expiry encoding "permanent". Any
// BannedUntil at or past it renders the permanent message variant.
var PermanentBan = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)

// BanState classifies a user's ban at a point in time.
type BanState int

const (
	NotBanned BanState = iota
	TempBanned
	PermBanned
)

// UserRecord is the persisted state of one private correspondent. ID is
// the private chat id and is immutable once set; the display fields are
// refreshed on every inbound message.
type UserRecord struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username,omitempty"`
	RealName     string     `json:"realname"`
	LastMessaged time.Time  `json:"lastMessaged"`
	BannedUntil  *time.Time `json:"bannedUntil,omitempty"`
}

// newUserRecord builds a defaulted record for a previously unseen id.
// LastMessaged starts at the epoch so the first message always triggers a
// re-identification announcement.
func newUserRecord(id int64) *UserRecord {
	return &UserRecord{
		ID:           id,
		LastMessaged: time.Unix(0, 0).UTC(),
	}
}

// BanState evaluates the record's ban classification at the given time.
func (u *UserRecord) BanState(now time.Time) BanState {
	if u.BannedUntil == nil || !now.Before(*u.BannedUntil) {
		return NotBanned
	}
	if !u.BannedUntil.Before(PermanentBan) {
		return PermBanned
	}
	return TempBanned
}

func (u *UserRecord) String() string {
	return fmt.Sprintf("<User id=%d>", u.ID)
}

// UserStore owns all UserRecord instances. Callers never mutate a stored
// record directly; they go through Modify, which commits all-or-nothing.
type UserStore struct {
	kv *KV
}

// NewUserStore creates a UserStore on the given KV.
func NewUserStore(kv *KV) *UserStore {
	return &UserStore{kv: kv}
}

func userKey(id int64) string {
	return fmt.Sprintf("u%d", id)
}

// Get returns the record for id, or ErrNotFound.
func (s *UserStore) Get(id int64) (*UserRecord, error) {
	data, err := s.kv.GetBytes(userKey(id))
	if err != nil {
		return nil, err
	}

	u := &UserRecord{}
	if err = json.Unmarshal(data, u); err != nil {
		return nil, errors.WithMessagef(err, "failed to decode user %d", id)
	}
	return u, nil
}

// Modify runs fn against a local copy of the record for id and commits
// the result only when fn returns nil; on error nothing is written. When
// the record is absent a defaulted one is supplied if allowCreate is set,
// and ErrNotFound is returned otherwise. The committed record is
// returned for further inspection.
func (s *UserStore) Modify(id int64, allowCreate bool,
	fn func(*UserRecord) error) (*UserRecord, error) {

	u, err := s.Get(id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) || !allowCreate {
			return nil, err
		}
		u = newUserRecord(id)
	}

	if err = fn(u); err != nil {
		return nil, err
	}

	data, err := json.Marshal(u)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to encode user %d", id)
	}
	s.kv.SetBytes(userKey(id), data)

	return u, nil
}
