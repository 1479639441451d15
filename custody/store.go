// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package custody

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/luxfi/geth/common"
)

var ErrStoreClosed = errors.New("custody store is closed")

const tokenKeyPrefix byte = 0x01

// Store persists collection state in a pebble database. Values are the
// token owner followed by the URI bytes; keys are a prefix byte followed by
// the 32-byte token ID.
type Store struct {
	mu     sync.Mutex
	db     *pebble.DB
	closed bool
}

// OpenStore opens (or creates) a custody store at path.
func OpenStore(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open custody store: %w", err)
	}
	return &Store{db: db}, nil
}

// Put writes one token record.
func (s *Store) Put(tokenID [32]byte, token Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	value := make([]byte, common.AddressLength+len(token.URI))
	copy(value, token.Owner[:])
	copy(value[common.AddressLength:], token.URI)
	return s.db.Set(tokenKey(tokenID), value, pebble.Sync)
}

// Delete removes one token record. Deleting an absent record is not an
// error.
func (s *Store) Delete(tokenID [32]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.db.Delete(tokenKey(tokenID), pebble.Sync)
}

// Load reads all persisted token records.
func (s *Store) Load() (map[[32]byte]Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{tokenKeyPrefix},
		UpperBound: []byte{tokenKeyPrefix + 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate custody store: %w", err)
	}
	defer iter.Close()

	tokens := make(map[[32]byte]Token)
	for iter.First(); iter.Valid(); iter.Next() {
		key := iter.Key()
		if len(key) != 1+32 {
			return nil, fmt.Errorf("malformed token key of length %d", len(key))
		}
		value := iter.Value()
		if len(value) < common.AddressLength {
			return nil, fmt.Errorf("malformed token record of length %d", len(value))
		}

		var tokenID [32]byte
		copy(tokenID[:], key[1:])
		tokens[tokenID] = Token{
			Owner: common.BytesToAddress(value[:common.AddressLength]),
			URI:   string(value[common.AddressLength:]),
		}
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to read custody store: %w", err)
	}
	return tokens, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func tokenKey(tokenID [32]byte) []byte {
	key := make([]byte, 1+32)
	key[0] = tokenKeyPrefix
	copy(key[1:], tokenID[:])
	return key
}
