// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package relayer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/nftbridge"
	"github.com/luxfi/nftbridge/custody"
)

const (
	originDomain uint32 = 1
	remoteDomain uint32 = 2
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b0")

	originRouterAddr = nftbridge.AddressFromNative(common.HexToAddress("0x0a"))
	remoteRouterAddr = nftbridge.AddressFromNative(common.HexToAddress("0x0b"))
)

// handlerFunc adapts a function to nftbridge.Handler.
type handlerFunc func(ctx context.Context, origin uint32, sender nftbridge.Address, payload []byte) error

func (f handlerFunc) Handle(ctx context.Context, origin uint32, sender nftbridge.Address, payload []byte) error {
	return f(ctx, origin, sender, payload)
}

func TestRelayerTransfer(t *testing.T) {
	ctx := context.Background()
	rel := New(Config{})

	originMailbox, err := rel.Register(originDomain, originRouterAddr)
	require.NoError(t, err)
	remoteMailbox, err := rel.Register(remoteDomain, remoteRouterAddr)
	require.NoError(t, err)

	originCollection := custody.NewCollection()
	originRouter := nftbridge.NewRouter(nftbridge.RouterConfig{
		Domain:  originDomain,
		Mailbox: originMailbox,
		Custody: custody.NewMintBurn(originCollection),
	})
	remoteCollection := custody.NewCollection()
	remoteRouter := nftbridge.NewRouter(nftbridge.RouterConfig{
		Domain:  remoteDomain,
		Mailbox: remoteMailbox,
		Custody: custody.NewMintBurn(remoteCollection),
	})
	originRouter.EnrollRemoteRouter(remoteDomain, remoteRouterAddr)
	remoteRouter.EnrollRemoteRouter(originDomain, originRouterAddr)
	require.NoError(t, rel.AttachHandler(originDomain, originRouter))
	require.NoError(t, rel.AttachHandler(remoteDomain, remoteRouter))

	tokenID := uint256.NewInt(42)
	require.NoError(t, originCollection.Mint(alice, tokenID, "ipfs://Qm123"))

	_, err = originRouter.TransferRemote(
		ctx, remoteDomain, alice, nftbridge.AddressFromNative(bob), tokenID, "ipfs://Qm123", nil)
	require.NoError(t, err)

	// Not delivered until the relayer runs.
	require.Zero(t, remoteCollection.Len())
	rel.DeliverPending(ctx)

	owner, err := remoteCollection.OwnerOf(tokenID)
	require.NoError(t, err)
	require.Equal(t, bob, owner)
}

func TestRelayerUnknownDestination(t *testing.T) {
	rel := New(Config{})
	mailbox, err := rel.Register(originDomain, originRouterAddr)
	require.NoError(t, err)

	_, err = mailbox.Dispatch(context.Background(), remoteDomain, remoteRouterAddr, make([]byte, 64), nil)
	require.ErrorIs(t, err, ErrUnknownDomain)
}

func TestRelayerDuplicateRegistration(t *testing.T) {
	rel := New(Config{})
	_, err := rel.Register(originDomain, originRouterAddr)
	require.NoError(t, err)
	_, err = rel.Register(originDomain, originRouterAddr)
	require.ErrorIs(t, err, ErrDomainRegistered)
}

func TestRelayerAttachHandlerUnknownDomain(t *testing.T) {
	rel := New(Config{})
	err := rel.AttachHandler(remoteDomain, handlerFunc(func(context.Context, uint32, nftbridge.Address, []byte) error {
		return nil
	}))
	require.ErrorIs(t, err, ErrUnknownDomain)
}

func TestRelayerAtMostOnce(t *testing.T) {
	ctx := context.Background()
	rel := New(Config{})

	_, err := rel.Register(originDomain, originRouterAddr)
	require.NoError(t, err)
	_, err = rel.Register(remoteDomain, remoteRouterAddr)
	require.NoError(t, err)

	var delivered atomic.Int64
	require.NoError(t, rel.AttachHandler(remoteDomain, handlerFunc(
		func(context.Context, uint32, nftbridge.Address, []byte) error {
			delivered.Add(1)
			return nil
		})))

	// Redelivery of the same envelope is dropped as a duplicate.
	payload := make([]byte, 64)
	env := Envelope{
		ID:          nftbridge.MessageID(originDomain, 0, remoteDomain, payload),
		Origin:      originDomain,
		Sender:      originRouterAddr,
		Destination: remoteDomain,
		Recipient:   remoteRouterAddr,
		Payload:     payload,
	}
	rel.deliver(ctx, env)
	rel.deliver(ctx, env)
	require.Equal(t, int64(1), delivered.Load())
}

func TestRelayerRepeatedDispatchesAreDistinct(t *testing.T) {
	ctx := context.Background()
	rel := New(Config{})

	originMailbox, err := rel.Register(originDomain, originRouterAddr)
	require.NoError(t, err)
	_, err = rel.Register(remoteDomain, remoteRouterAddr)
	require.NoError(t, err)

	var delivered atomic.Int64
	require.NoError(t, rel.AttachHandler(remoteDomain, handlerFunc(
		func(context.Context, uint32, nftbridge.Address, []byte) error {
			delivered.Add(1)
			return nil
		})))

	// Two dispatches of an identical payload are separate transfers: the
	// per-origin nonce gives them distinct message IDs and both deliver.
	payload := make([]byte, 64)
	first, err := originMailbox.Dispatch(ctx, remoteDomain, remoteRouterAddr, payload, nil)
	require.NoError(t, err)
	second, err := originMailbox.Dispatch(ctx, remoteDomain, remoteRouterAddr, payload, nil)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	rel.DeliverPending(ctx)
	require.Equal(t, int64(2), delivered.Load())
}

// TestRelayerRoundTripThenResend sends the same token out, back, and out
// again with an identical recipient, token ID, and URI. The third leg must
// deliver rather than be mistaken for a replay of the first.
func TestRelayerRoundTripThenResend(t *testing.T) {
	ctx := context.Background()
	rel := New(Config{})

	originMailbox, err := rel.Register(originDomain, originRouterAddr)
	require.NoError(t, err)
	remoteMailbox, err := rel.Register(remoteDomain, remoteRouterAddr)
	require.NoError(t, err)

	originCollection := custody.NewCollection()
	originRouter := nftbridge.NewRouter(nftbridge.RouterConfig{
		Domain:  originDomain,
		Mailbox: originMailbox,
		Custody: custody.NewMintBurn(originCollection),
	})
	remoteCollection := custody.NewCollection()
	remoteRouter := nftbridge.NewRouter(nftbridge.RouterConfig{
		Domain:  remoteDomain,
		Mailbox: remoteMailbox,
		Custody: custody.NewMintBurn(remoteCollection),
	})
	originRouter.EnrollRemoteRouter(remoteDomain, remoteRouterAddr)
	remoteRouter.EnrollRemoteRouter(originDomain, originRouterAddr)
	require.NoError(t, rel.AttachHandler(originDomain, originRouter))
	require.NoError(t, rel.AttachHandler(remoteDomain, remoteRouter))

	tokenID := uint256.NewInt(42)
	tokenURI := "ipfs://Qm123"
	require.NoError(t, originCollection.Mint(alice, tokenID, tokenURI))

	// Leg 1: origin -> remote.
	_, err = originRouter.TransferRemote(
		ctx, remoteDomain, alice, nftbridge.AddressFromNative(bob), tokenID, tokenURI, nil)
	require.NoError(t, err)
	rel.DeliverPending(ctx)

	// Leg 2: remote -> origin.
	_, err = remoteRouter.TransferRemote(
		ctx, originDomain, bob, nftbridge.AddressFromNative(alice), tokenID, tokenURI, nil)
	require.NoError(t, err)
	rel.DeliverPending(ctx)

	// Leg 3: origin -> remote again, byte-identical to leg 1.
	_, err = originRouter.TransferRemote(
		ctx, remoteDomain, alice, nftbridge.AddressFromNative(bob), tokenID, tokenURI, nil)
	require.NoError(t, err)
	rel.DeliverPending(ctx)

	owner, err := remoteCollection.OwnerOf(tokenID)
	require.NoError(t, err)
	require.Equal(t, bob, owner)
	_, err = originCollection.OwnerOf(tokenID)
	require.ErrorIs(t, err, custody.ErrTokenNotFound)
}

func TestRelayerRetriesTransientFailure(t *testing.T) {
	ctx := context.Background()
	rel := New(Config{MaxRetryElapsed: 10 * time.Second})

	originMailbox, err := rel.Register(originDomain, originRouterAddr)
	require.NoError(t, err)
	_, err = rel.Register(remoteDomain, remoteRouterAddr)
	require.NoError(t, err)

	var attempts atomic.Int64
	require.NoError(t, rel.AttachHandler(remoteDomain, handlerFunc(
		func(context.Context, uint32, nftbridge.Address, []byte) error {
			if attempts.Add(1) == 1 {
				return errors.New("transient")
			}
			return nil
		})))

	_, err = originMailbox.Dispatch(ctx, remoteDomain, remoteRouterAddr, make([]byte, 64), nil)
	require.NoError(t, err)
	rel.DeliverPending(ctx)
	require.Equal(t, int64(2), attempts.Load())
}

func TestRelayerDoesNotRetryPermanentFailure(t *testing.T) {
	ctx := context.Background()
	rel := New(Config{MaxRetryElapsed: 10 * time.Second})

	originMailbox, err := rel.Register(originDomain, originRouterAddr)
	require.NoError(t, err)
	_, err = rel.Register(remoteDomain, remoteRouterAddr)
	require.NoError(t, err)

	var attempts atomic.Int64
	require.NoError(t, rel.AttachHandler(remoteDomain, handlerFunc(
		func(context.Context, uint32, nftbridge.Address, []byte) error {
			attempts.Add(1)
			return fmt.Errorf("handler: %w", nftbridge.ErrUntrustedSender)
		})))

	_, err = originMailbox.Dispatch(ctx, remoteDomain, remoteRouterAddr, make([]byte, 64), nil)
	require.NoError(t, err)
	rel.DeliverPending(ctx)
	require.Equal(t, int64(1), attempts.Load())
}

func TestRelayerQueueFull(t *testing.T) {
	rel := New(Config{QueueSize: 1})
	originMailbox, err := rel.Register(originDomain, originRouterAddr)
	require.NoError(t, err)
	_, err = rel.Register(remoteDomain, remoteRouterAddr)
	require.NoError(t, err)

	_, err = originMailbox.Dispatch(context.Background(), remoteDomain, remoteRouterAddr, []byte{1}, nil)
	require.NoError(t, err)
	_, err = originMailbox.Dispatch(context.Background(), remoteDomain, remoteRouterAddr, []byte{2}, nil)
	require.ErrorIs(t, err, ErrQueueFull)
}

func TestRelayerRunStopsOnCancel(t *testing.T) {
	rel := New(Config{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- rel.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("relayer did not stop")
	}

	// Dispatching after stop fails.
	mailboxAfter, err := rel.Register(originDomain, originRouterAddr)
	require.NoError(t, err)
	_, err = rel.Register(remoteDomain, remoteRouterAddr)
	require.NoError(t, err)
	_, err = mailboxAfter.Dispatch(context.Background(), remoteDomain, remoteRouterAddr, []byte{1}, nil)
	require.ErrorIs(t, err, ErrRelayerStopped)
}
