// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package custody

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/nftbridge"
)

var _ nftbridge.TokenCustody = (*MintBurn)(nil)

// MintBurn is the synthetic-token custody strategy: debit burns the token on
// the origin side, credit mints it on the destination side.
type MintBurn struct {
	collection *Collection
}

// NewMintBurn creates a mint/burn custody over the given collection.
func NewMintBurn(collection *Collection) *MintBurn {
	return &MintBurn{collection: collection}
}

// Collection returns the underlying collection.
func (m *MintBurn) Collection() *Collection {
	return m.collection
}

// Debit burns the sender's token. Fails if the token does not exist or the
// sender does not own it; the collection is untouched on failure.
func (m *MintBurn) Debit(_ context.Context, sender common.Address, tokenID *uint256.Int) error {
	return m.collection.BurnFrom(sender, tokenID)
}

// Credit mints the token to the recipient. Fails if the token already
// exists.
func (m *MintBurn) Credit(_ context.Context, recipient common.Address, tokenID *uint256.Int, tokenURI string) error {
	return m.collection.Mint(recipient, tokenID, tokenURI)
}
