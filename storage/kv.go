////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package storage persists the relay's state: one record per
// correspondent and the mapping from relayed staff-group messages back to
// their originators. Everything lives in a single string-keyed store
// under two key namespaces, "u<id>" and "m<id>".
package storage

import (
	"time"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"gitlab.com/elixxir/ekv"
	"gitlab.com/xx_network/primitives/netTime"
)

// ErrNotFound is returned by lookups when the key is absent. It is a
// distinct condition from a store failure; callers test for it with
// errors.Is.
var ErrNotFound = errors.New("object not found in store")

// Writes are batched: flushing the backing store more than once per
// syncInterval is skipped, bounding flush frequency independent of
// message volume at the cost of a bounded loss window on crash.
const syncInterval = 15 * time.Second

// KV is a write-back layer over a persistent ekv store. Writes land in
// memory immediately and reach the backing store on the next Sync. It is
// written for the single sequential event worker and does no locking of
// its own.
type KV struct {
	backing ekv.KeyValue
	dirty   map[string][]byte

	// Zero value means "never flushed", so the first MaybeSync always
	// flushes.
	lastSync time.Time
}

// NewKV creates a write-back layer over the given backing store.
func NewKV(backing ekv.KeyValue) *KV {
	return &KV{
		backing: backing,
		dirty:   make(map[string][]byte),
	}
}

// GetBytes returns the newest value for key, preferring unflushed writes
// over the backing store. Returns ErrNotFound when the key is absent.
func (k *KV) GetBytes(key string) ([]byte, error) {
	if data, ok := k.dirty[key]; ok {
		return data, nil
	}

	data, err := k.backing.GetBytes(key)
	if err != nil {
		if ekv.Exists(err) {
			return nil, errors.WithMessagef(err, "failed to read key %q", key)
		}
		return nil, ErrNotFound
	}
	return data, nil
}

// SetBytes upserts the value for key. The write is durable only after the
// next Sync.
func (k *KV) SetBytes(key string, data []byte) {
	k.dirty[key] = data
}

// Delete removes key from both the write-back layer and the backing
// store. Deleting an absent key is not an error.
func (k *KV) Delete(key string) error {
	delete(k.dirty, key)

	err := k.backing.Delete(key)
	if err != nil && ekv.Exists(err) {
		return errors.WithMessagef(err, "failed to delete key %q", key)
	}
	return nil
}

// Sync flushes every unflushed write to the backing store.
func (k *KV) Sync() error {
	for key, data := range k.dirty {
		if err := k.backing.SetBytes(key, data); err != nil {
			return errors.WithMessagef(err, "failed to flush key %q", key)
		}
		delete(k.dirty, key)
	}
	return nil
}

// MaybeSync flushes if at least syncInterval has elapsed since the last
// flush, and otherwise does nothing. Flush failures are logged, not
// returned; the unflushed writes stay dirty and are retried on the next
// flush.
func (k *KV) MaybeSync() {
	now := netTime.Now()
	if now.Sub(k.lastSync) < syncInterval {
		return
	}
	k.lastSync = now

	if err := k.Sync(); err != nil {
		jww.ERROR.Printf("Failed to sync store: %+v", err)
	}
}
