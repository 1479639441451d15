// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package nftbridge

import (
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/common/hexutil"
)

// Address is a chain-agnostic 32-byte address as carried on the wire.
// Native 20-byte addresses occupy the low-order bytes, left-padded with
// zeroes.
type Address [32]byte

// AddressFromNative widens a native address to its 32-byte wire form.
func AddressFromNative(addr common.Address) Address {
	var out Address
	copy(out[32-common.AddressLength:], addr[:])
	return out
}

// Native narrows the address to its native 20-byte representation. The
// conversion happens only at the point of local custody completion.
func (a Address) Native() common.Address {
	return common.BytesToAddress(a[32-common.AddressLength:])
}

// String returns the 0x-prefixed hex form of the address.
func (a Address) String() string {
	return hexutil.Encode(a[:])
}

// AddressFromHex parses a 0x-prefixed hex string of at most 32 bytes,
// left-padding shorter values.
func AddressFromHex(s string) (Address, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return Address{}, err
	}
	if len(b) > 32 {
		return Address{}, fmt.Errorf("address too long: %d bytes", len(b))
	}
	var out Address
	copy(out[32-len(b):], b)
	return out, nil
}
