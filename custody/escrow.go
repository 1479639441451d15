// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package custody

import (
	"context"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/nftbridge"
)

var _ nftbridge.TokenCustody = (*Escrow)(nil)

// Escrow is the lock/unlock custody strategy for collateral-backed bridging:
// debit moves the token into the escrow account instead of destroying it,
// credit releases it back out. A token that has never been seen locally is
// minted on credit, so the same strategy works on both sides of a round
// trip.
type Escrow struct {
	collection *Collection
	account    common.Address
}

// NewEscrow creates an escrow custody holding locked tokens under account.
func NewEscrow(collection *Collection, account common.Address) *Escrow {
	return &Escrow{collection: collection, account: account}
}

// Account returns the escrow holding account.
func (e *Escrow) Account() common.Address {
	return e.account
}

// Debit locks the sender's token under the escrow account.
func (e *Escrow) Debit(_ context.Context, sender common.Address, tokenID *uint256.Int) error {
	return e.collection.Transfer(sender, e.account, tokenID)
}

// Credit releases a locked token to the recipient, or mints it if it was
// never locked locally. Fails if the token exists but is not held in escrow.
func (e *Escrow) Credit(_ context.Context, recipient common.Address, tokenID *uint256.Int, tokenURI string) error {
	owner, err := e.collection.OwnerOf(tokenID)
	if errors.Is(err, ErrTokenNotFound) {
		return e.collection.Mint(recipient, tokenID, tokenURI)
	}
	if err != nil {
		return err
	}
	if owner != e.account {
		return fmt.Errorf("%w: token %s is not held in escrow", ErrNotTokenOwner, tokenID)
	}
	return e.collection.Transfer(e.account, recipient, tokenID)
}
