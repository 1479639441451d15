// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package nftbridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/holiman/uint256"
)

// FakeMailbox is an in-memory Mailbox bound to one origin domain. It records
// every dispatch and, when a handler is connected for the destination domain,
// delivers the payload synchronously with this mailbox's sender identity.
// It stands in for the real messaging framework in tests and demos.
type FakeMailbox struct {
	origin uint32
	sender Address

	mu         sync.Mutex
	handlers   map[uint32]Handler
	dispatches []FakeDispatch
	nonce      uint64

	// DispatchErr, when set, makes every Dispatch fail without recording or
	// delivering anything.
	DispatchErr error
}

// FakeDispatch is one recorded outbound message.
type FakeDispatch struct {
	Destination uint32
	Recipient   Address
	Payload     []byte
	Fee         *uint256.Int
}

var _ Mailbox = (*FakeMailbox)(nil)

// NewFakeMailbox creates a mailbox dispatching on behalf of the router with
// the given address on the given origin domain.
func NewFakeMailbox(origin uint32, sender Address) *FakeMailbox {
	return &FakeMailbox{
		origin:   origin,
		sender:   sender,
		handlers: make(map[uint32]Handler),
	}
}

// Connect wires a destination domain to a handler for synchronous loopback
// delivery.
func (m *FakeMailbox) Connect(destination uint32, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[destination] = handler
}

// Dispatch implements Mailbox.
func (m *FakeMailbox) Dispatch(
	ctx context.Context,
	destination uint32,
	recipient Address,
	payload []byte,
	fee *uint256.Int,
) (Receipt, error) {
	if m.DispatchErr != nil {
		return Receipt{}, m.DispatchErr
	}

	m.mu.Lock()
	nonce := m.nonce
	m.nonce++
	m.dispatches = append(m.dispatches, FakeDispatch{
		Destination: destination,
		Recipient:   recipient,
		Payload:     append([]byte(nil), payload...),
		Fee:         fee,
	})
	handler := m.handlers[destination]
	m.mu.Unlock()

	if handler != nil {
		if err := handler.Handle(ctx, m.origin, m.sender, payload); err != nil {
			return Receipt{}, fmt.Errorf("loopback delivery failed: %w", err)
		}
	}

	return Receipt{
		ID:          MessageID(m.origin, nonce, destination, payload),
		Destination: destination,
	}, nil
}

// Dispatches returns the recorded outbound messages.
func (m *FakeMailbox) Dispatches() []FakeDispatch {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]FakeDispatch(nil), m.dispatches...)
}
