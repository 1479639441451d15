// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package custody provides concrete token-custody strategies for bridge
// routers: burn/mint over an in-memory collection, lock/unlock through an
// escrow account, and pebble-backed persistence for collection state.
package custody

import (
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExists   = errors.New("token already exists")
	ErrNotTokenOwner = errors.New("not the token owner")
)

// Token is one collection entry.
type Token struct {
	Owner common.Address
	URI   string
}

// Collection is a thread-safe registry of non-fungible tokens, keyed by
// 256-bit token ID. When constructed with a Store, every mutation is written
// through before the in-memory state changes.
type Collection struct {
	mu     sync.RWMutex
	tokens map[[32]byte]Token
	store  *Store
}

// NewCollection creates an empty in-memory collection.
func NewCollection() *Collection {
	return &Collection{tokens: make(map[[32]byte]Token)}
}

// NewPersistentCollection creates a collection backed by the given store,
// loading any previously persisted tokens.
func NewPersistentCollection(store *Store) (*Collection, error) {
	tokens, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load collection state: %w", err)
	}
	return &Collection{tokens: tokens, store: store}, nil
}

// Mint creates a token owned by owner. Fails if the token already exists.
func (c *Collection) Mint(owner common.Address, tokenID *uint256.Int, uri string) error {
	key := tokenID.Bytes32()

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tokens[key]; ok {
		return fmt.Errorf("%w: %s", ErrTokenExists, tokenID)
	}
	token := Token{Owner: owner, URI: uri}
	if c.store != nil {
		if err := c.store.Put(key, token); err != nil {
			return fmt.Errorf("failed to persist token %s: %w", tokenID, err)
		}
	}
	c.tokens[key] = token
	return nil
}

// Burn destroys a token. Fails if the token does not exist.
func (c *Collection) Burn(tokenID *uint256.Int) error {
	key := tokenID.Bytes32()

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tokens[key]; !ok {
		return fmt.Errorf("%w: %s", ErrTokenNotFound, tokenID)
	}
	if c.store != nil {
		if err := c.store.Delete(key); err != nil {
			return fmt.Errorf("failed to delete token %s: %w", tokenID, err)
		}
	}
	delete(c.tokens, key)
	return nil
}

// BurnFrom destroys a token after verifying from owns it. The ownership
// check and the deletion happen under one lock, so a concurrent transfer
// cannot slip in between them.
func (c *Collection) BurnFrom(from common.Address, tokenID *uint256.Int) error {
	key := tokenID.Bytes32()

	c.mu.Lock()
	defer c.mu.Unlock()
	token, ok := c.tokens[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTokenNotFound, tokenID)
	}
	if token.Owner != from {
		return fmt.Errorf("%w: token %s is owned by %s", ErrNotTokenOwner, tokenID, token.Owner)
	}
	if c.store != nil {
		if err := c.store.Delete(key); err != nil {
			return fmt.Errorf("failed to delete token %s: %w", tokenID, err)
		}
	}
	delete(c.tokens, key)
	return nil
}

// Transfer moves a token between owners. Fails if the token does not exist
// or from is not its owner.
func (c *Collection) Transfer(from, to common.Address, tokenID *uint256.Int) error {
	key := tokenID.Bytes32()

	c.mu.Lock()
	defer c.mu.Unlock()
	token, ok := c.tokens[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTokenNotFound, tokenID)
	}
	if token.Owner != from {
		return fmt.Errorf("%w: token %s is owned by %s", ErrNotTokenOwner, tokenID, token.Owner)
	}
	token.Owner = to
	if c.store != nil {
		if err := c.store.Put(key, token); err != nil {
			return fmt.Errorf("failed to persist token %s: %w", tokenID, err)
		}
	}
	c.tokens[key] = token
	return nil
}

// OwnerOf returns the current owner of a token.
func (c *Collection) OwnerOf(tokenID *uint256.Int) (common.Address, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	token, ok := c.tokens[tokenID.Bytes32()]
	if !ok {
		return common.Address{}, fmt.Errorf("%w: %s", ErrTokenNotFound, tokenID)
	}
	return token.Owner, nil
}

// TokenURI returns the URI of a token.
func (c *Collection) TokenURI(tokenID *uint256.Int) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	token, ok := c.tokens[tokenID.Bytes32()]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTokenNotFound, tokenID)
	}
	return token.URI, nil
}

// Len returns the number of tokens in the collection.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tokens)
}
