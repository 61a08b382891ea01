/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// Package state persists per-device download state between runs: the
// fingerprint of the newest downloaded dive keyed by device serial, and the
// serial of the last device seen. The fingerprint bounds the next download
// to dives not fetched before.
package state

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/oceanlab/go-divelog/pkg/config"
	"github.com/oceanlab/go-divelog/pkg/log"
)

const (
	FingerprintBucket = "fingerprint"
	MetaBucket        = "meta"
	LastSerialKey     = "last_serial"
)

type State struct {
	context.Context
	DB *bbolt.DB
}

func NewState(ctx context.Context, cfg *config.Config) (*State, error) {
	db, err := bbolt.Open(cfg.DBPath, 0600, nil)
	if err != nil {
		return nil, err
	}
	if err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{FingerprintBucket, MetaBucket} {
			_, err := tx.CreateBucketIfNotExists([]byte(name))
			if err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return &State{
		Context: ctx,
		DB:      db,
	}, nil
}

func uint32ToByte(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

// Close ...
func (s *State) Close() {
	s.DB.Close()
}

// SetFingerprint stores the fingerprint of the newest downloaded dive for
// the given device serial.
func (s *State) SetFingerprint(serial uint32, fingerprint []byte) error {
	log.Debug("Storing fingerprint for serial %d: %x", serial, fingerprint)
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(FingerprintBucket))
		if b == nil {
			return fmt.Errorf("Bucket not found: %s", FingerprintBucket)
		}
		return b.Put(uint32ToByte(serial), fingerprint)
	})
}

// GetFingerprint returns the stored fingerprint for the given device
// serial, or nil if none is stored.
func (s *State) GetFingerprint(serial uint32) ([]byte, error) {
	var fingerprint []byte
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(FingerprintBucket))
		if b == nil {
			return fmt.Errorf("Bucket not found: %s", FingerprintBucket)
		}
		value := b.Get(uint32ToByte(serial))
		if value != nil {
			fingerprint = append([]byte{}, value...)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return fingerprint, nil
}

// ClearFingerprint removes the stored fingerprint so the next download
// fetches the whole log memory.
func (s *State) ClearFingerprint(serial uint32) error {
	log.Debug("Clearing fingerprint for serial %d", serial)
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(FingerprintBucket))
		if b == nil {
			return fmt.Errorf("Bucket not found: %s", FingerprintBucket)
		}
		return b.Delete(uint32ToByte(serial))
	})
}

// SetLastSerial remembers the serial of the device seen by the last
// download.
func (s *State) SetLastSerial(serial uint32) error {
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(MetaBucket))
		if b == nil {
			return fmt.Errorf("Bucket not found: %s", MetaBucket)
		}
		return b.Put([]byte(LastSerialKey), uint32ToByte(serial))
	})
}

// GetLastSerial returns the serial of the device seen by the last download.
// The second return value is false when no download has run yet.
func (s *State) GetLastSerial() (uint32, bool, error) {
	var serial uint32
	var ok bool
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(MetaBucket))
		if b == nil {
			return fmt.Errorf("Bucket not found: %s", MetaBucket)
		}
		value := b.Get([]byte(LastSerialKey))
		if value != nil {
			serial = binary.BigEndian.Uint32(value)
			ok = true
		}
		return nil
	}); err != nil {
		return 0, false, err
	}
	return serial, ok, nil
}
