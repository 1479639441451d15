// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package nftbridge

import (
	"context"
	"crypto/sha256"
	"encoding/binary"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
)

// Mailbox is the messaging framework boundary. It is trusted to deliver
// dispatched payloads to the named destination domain exactly once, already
// authenticated; how it does that (relay, consensus, signatures) is not this
// package's concern.
type Mailbox interface {
	// Dispatch submits a payload for delivery to the router enrolled at the
	// destination domain. The fee is forwarded opaquely to cover
	// destination-side delivery costs; implementations may ignore it.
	// A non-nil error means nothing was committed for delivery.
	Dispatch(
		ctx context.Context,
		destination uint32,
		recipient Address,
		payload []byte,
		fee *uint256.Int,
	) (Receipt, error)
}

// Handler receives inbound payloads from the mailbox. The mailbox must only
// invoke Handle after it has verified the message's authenticity and origin.
type Handler interface {
	Handle(ctx context.Context, origin uint32, sender Address, payload []byte) error
}

// Receipt identifies a dispatched message.
type Receipt struct {
	ID          ids.ID
	Destination uint32
}

// MessageID computes the identifier of a dispatched message. The nonce is
// assigned by the origin mailbox, monotonically per origin, so repeated
// dispatches of an identical payload still get distinct IDs and delivery
// dedup never conflates separate transfers.
func MessageID(origin uint32, nonce uint64, destination uint32, payload []byte) ids.ID {
	h := sha256.New()
	var header [16]byte
	binary.BigEndian.PutUint32(header[0:4], origin)
	binary.BigEndian.PutUint64(header[4:12], nonce)
	binary.BigEndian.PutUint32(header[12:16], destination)
	h.Write(header[:])
	h.Write(payload)
	var id ids.ID
	copy(id[:], h.Sum(nil))
	return id
}
