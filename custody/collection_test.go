// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package custody

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b0")
	vault = common.HexToAddress("0x00000000000000000000000000000000000000ee")
)

func TestCollectionMintBurn(t *testing.T) {
	c := NewCollection()
	tokenID := uint256.NewInt(42)

	require.NoError(t, c.Mint(alice, tokenID, "ipfs://Qm123"))
	require.Equal(t, 1, c.Len())

	owner, err := c.OwnerOf(tokenID)
	require.NoError(t, err)
	require.Equal(t, alice, owner)

	uri, err := c.TokenURI(tokenID)
	require.NoError(t, err)
	require.Equal(t, "ipfs://Qm123", uri)

	// Double mint fails.
	require.ErrorIs(t, c.Mint(bob, tokenID, "ipfs://QmOther"), ErrTokenExists)

	require.NoError(t, c.Burn(tokenID))
	require.Zero(t, c.Len())
	require.ErrorIs(t, c.Burn(tokenID), ErrTokenNotFound)

	_, err = c.OwnerOf(tokenID)
	require.ErrorIs(t, err, ErrTokenNotFound)
	_, err = c.TokenURI(tokenID)
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestCollectionBurnFrom(t *testing.T) {
	c := NewCollection()
	tokenID := uint256.NewInt(42)
	require.NoError(t, c.Mint(alice, tokenID, "ipfs://Qm123"))

	// A non-owner cannot burn; the token is untouched.
	require.ErrorIs(t, c.BurnFrom(bob, tokenID), ErrNotTokenOwner)
	owner, err := c.OwnerOf(tokenID)
	require.NoError(t, err)
	require.Equal(t, alice, owner)

	// Ownership moving away after a caller's stale read cannot destroy the
	// token: the owner check and deletion share one lock.
	require.NoError(t, c.Transfer(alice, bob, tokenID))
	require.ErrorIs(t, c.BurnFrom(alice, tokenID), ErrNotTokenOwner)

	require.NoError(t, c.BurnFrom(bob, tokenID))
	require.ErrorIs(t, c.BurnFrom(bob, tokenID), ErrTokenNotFound)
}

func TestCollectionTransfer(t *testing.T) {
	c := NewCollection()
	tokenID := uint256.NewInt(7)
	require.NoError(t, c.Mint(alice, tokenID, ""))

	require.ErrorIs(t, c.Transfer(bob, alice, tokenID), ErrNotTokenOwner)
	require.ErrorIs(t, c.Transfer(alice, bob, uint256.NewInt(8)), ErrTokenNotFound)

	require.NoError(t, c.Transfer(alice, bob, tokenID))
	owner, err := c.OwnerOf(tokenID)
	require.NoError(t, err)
	require.Equal(t, bob, owner)
}
