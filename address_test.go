// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package nftbridge

import (
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"
)

func TestAddressNativeRoundTrip(t *testing.T) {
	native := common.HexToAddress("0x00000000000000000000000000000000000001ab")
	wide := AddressFromNative(native)

	// Native bytes occupy the low-order 20 bytes, left-padded with zeroes.
	for i := 0; i < 12; i++ {
		require.Zero(t, wide[i])
	}
	require.Equal(t, native, wide.Native())
}

func TestAddressFromHex(t *testing.T) {
	addr, err := AddressFromHex("0x01ab")
	require.NoError(t, err)
	require.Equal(t, byte(0x01), addr[30])
	require.Equal(t, byte(0xAB), addr[31])
	require.Equal(t, "0x00000000000000000000000000000000000000000000000000000000000001ab", addr.String())

	_, err = AddressFromHex("not hex")
	require.Error(t, err)

	zero, err := AddressFromHex("0x")
	require.NoError(t, err)
	require.Equal(t, Address{}, zero)
}
