// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package nftbridge

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Wire layout of a transfer payload:
//
//	bytes[0:32]  recipient, chain-agnostic 32-byte address
//	bytes[32:64] tokenID, big-endian unsigned 256-bit integer
//	bytes[64:]   tokenURI, UTF-8, consumed to end of payload
//
// The format is closed and versionless: producers and consumers must agree
// byte-for-byte. The tokenURI carries no length prefix or version tag, so the
// format cannot grow new trailing fields without breaking peers.
const (
	recipientOffset = 0
	tokenIDOffset   = 32
	tokenURIOffset  = 64

	// PrefixLen is the fixed-width portion of a transfer payload.
	PrefixLen = tokenURIOffset
)

// TransferMessage is the logical record carried by a transfer payload.
type TransferMessage struct {
	Recipient Address
	TokenID   *uint256.Int
	TokenURI  string
}

// Bytes serializes the transfer message into its wire representation.
func (m TransferMessage) Bytes() []byte {
	buf := make([]byte, PrefixLen+len(m.TokenURI))
	copy(buf[recipientOffset:], m.Recipient[:])
	id := m.TokenID.Bytes32()
	copy(buf[tokenIDOffset:], id[:])
	copy(buf[tokenURIOffset:], m.TokenURI)
	return buf
}

// ParseTransferMessage deserializes a transfer payload.
func ParseTransferMessage(payload []byte) (TransferMessage, error) {
	if len(payload) < PrefixLen {
		return TransferMessage{}, fmt.Errorf("%w: %d bytes, need at least %d",
			ErrPayloadTooShort, len(payload), PrefixLen)
	}
	var m TransferMessage
	copy(m.Recipient[:], payload[recipientOffset:tokenIDOffset])
	m.TokenID = new(uint256.Int).SetBytes(payload[tokenIDOffset:tokenURIOffset])
	m.TokenURI = string(payload[tokenURIOffset:])
	return m, nil
}

// PayloadRecipient reads the recipient field out of a raw payload.
func PayloadRecipient(payload []byte) (Address, error) {
	if len(payload) < PrefixLen {
		return Address{}, ErrPayloadTooShort
	}
	var recipient Address
	copy(recipient[:], payload[recipientOffset:tokenIDOffset])
	return recipient, nil
}

// PayloadTokenID reads the tokenID field out of a raw payload.
func PayloadTokenID(payload []byte) (*uint256.Int, error) {
	if len(payload) < PrefixLen {
		return nil, ErrPayloadTooShort
	}
	return new(uint256.Int).SetBytes(payload[tokenIDOffset:tokenURIOffset]), nil
}

// PayloadTokenURI reads the tokenURI field out of a raw payload.
func PayloadTokenURI(payload []byte) (string, error) {
	if len(payload) < PrefixLen {
		return "", ErrPayloadTooShort
	}
	return string(payload[tokenURIOffset:]), nil
}
