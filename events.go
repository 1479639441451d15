// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package nftbridge

import "github.com/holiman/uint256"

// SentTransferRemote is emitted exactly once per successful outbound
// transfer, on the origin side.
type SentTransferRemote struct {
	Destination uint32
	Recipient   Address
	TokenID     *uint256.Int
}

// ReceivedTransferRemote is emitted exactly once per successful inbound
// delivery, on the destination side.
type ReceivedTransferRemote struct {
	Origin    uint32
	Recipient Address
	TokenID   *uint256.Int
}

// Emitter observes the router's audit trail. Implementations must not block
// the calling transfer.
type Emitter interface {
	EmitSent(SentTransferRemote)
	EmitReceived(ReceivedTransferRemote)
}

// NopEmitter discards all events.
type NopEmitter struct{}

func (NopEmitter) EmitSent(SentTransferRemote)         {}
func (NopEmitter) EmitReceived(ReceivedTransferRemote) {}

// ChannelEmitter forwards events to buffered channels, dropping events once
// a channel is full so a slow observer cannot stall transfers.
type ChannelEmitter struct {
	sent     chan SentTransferRemote
	received chan ReceivedTransferRemote
}

// NewChannelEmitter creates a ChannelEmitter with the given buffer size per
// event kind.
func NewChannelEmitter(buffer int) *ChannelEmitter {
	return &ChannelEmitter{
		sent:     make(chan SentTransferRemote, buffer),
		received: make(chan ReceivedTransferRemote, buffer),
	}
}

func (e *ChannelEmitter) EmitSent(ev SentTransferRemote) {
	select {
	case e.sent <- ev:
	default:
	}
}

func (e *ChannelEmitter) EmitReceived(ev ReceivedTransferRemote) {
	select {
	case e.received <- ev:
	default:
	}
}

// Sent returns the channel of outbound transfer events.
func (e *ChannelEmitter) Sent() <-chan SentTransferRemote { return e.sent }

// Received returns the channel of inbound transfer events.
func (e *ChannelEmitter) Received() <-chan ReceivedTransferRemote { return e.received }
