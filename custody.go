// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package nftbridge

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

// TokenCustody is the pluggable token-ownership strategy behind a router.
// Any pair of operations satisfying the atomicity contracts below can back a
// router: burn/mint, lock/unlock, escrow.
type TokenCustody interface {
	// Debit irreversibly removes the sender's claim on the token. It must
	// fail, leaving custody state untouched, if the sender does not own the
	// token.
	Debit(ctx context.Context, sender common.Address, tokenID *uint256.Int) error

	// Credit grants the token to the recipient. It must fail, leaving custody
	// state untouched, if the target state is invalid (for example the token
	// already exists under another owner).
	Credit(ctx context.Context, recipient common.Address, tokenID *uint256.Int, tokenURI string) error
}
