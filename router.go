// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package nftbridge moves non-fungible tokens between chains over an
// authenticated messaging framework. On the origin side a Router takes
// custody of a token and dispatches an encoded transfer payload; on the
// destination side the peer Router decodes the payload and completes custody
// for the named recipient. Message authentication, relay, and delivery are
// the mailbox's job, not this package's.
package nftbridge

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"go.uber.org/zap"
)

// Router orchestrates the two-sided transfer protocol for one local domain.
// It never reads token ownership itself; it mutates it exactly once per call
// through the TokenCustody hooks.
type Router struct {
	domain  uint32
	mailbox Mailbox
	custody TokenCustody

	mu      sync.RWMutex
	routers map[uint32]Address

	log     *zap.Logger
	metrics *RouterMetrics
	emitter Emitter
}

var _ Handler = (*Router)(nil)

// RouterConfig configures a Router.
type RouterConfig struct {
	// Domain is the local chain identifier within the mailbox's namespace.
	Domain uint32
	// Mailbox dispatches outbound payloads and is trusted to authenticate
	// inbound ones.
	Mailbox Mailbox
	// Custody supplies the debit/credit hooks.
	Custody TokenCustody
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// Metrics may be nil to disable counting.
	Metrics *RouterMetrics
	// Emitter defaults to NopEmitter.
	Emitter Emitter
}

// NewRouter creates a router for the given local domain.
func NewRouter(cfg RouterConfig) *Router {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	emitter := cfg.Emitter
	if emitter == nil {
		emitter = NopEmitter{}
	}
	return &Router{
		domain:  cfg.Domain,
		mailbox: cfg.Mailbox,
		custody: cfg.Custody,
		routers: make(map[uint32]Address),
		log:     logger,
		metrics: cfg.Metrics,
		emitter: emitter,
	}
}

// Domain returns the local domain identifier.
func (r *Router) Domain() uint32 {
	return r.domain
}

// EnrollRemoteRouter registers the peer router address for a remote domain.
// Inbound messages from that domain are only accepted if they were sent by
// this address; outbound transfers to that domain are addressed to it.
func (r *Router) EnrollRemoteRouter(domain uint32, router Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routers[domain] = router
}

// RemoteRouter returns the enrolled router for a domain.
func (r *Router) RemoteRouter(domain uint32) (Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	router, ok := r.routers[domain]
	if !ok {
		return Address{}, fmt.Errorf("%w: %d", ErrNoRouterEnrolled, domain)
	}
	return router, nil
}

// Domains returns the remote domains with an enrolled router.
func (r *Router) Domains() []uint32 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]uint32, 0, len(r.routers))
	for domain := range r.routers {
		out = append(out, domain)
	}
	return out
}

// TransferRemote debits the sender's token and dispatches a transfer payload
// to the destination domain. The fee is forwarded to the mailbox to cover
// delivery. On a successful return exactly one message has been committed
// for delivery, matched by exactly one custody debit.
//
// If the debit fails nothing is sent. If the dispatch fails the debit is
// compensated by re-crediting the token to the sender, so a failed call
// leaves custody state unchanged.
func (r *Router) TransferRemote(
	ctx context.Context,
	destination uint32,
	sender common.Address,
	recipient Address,
	tokenID *uint256.Int,
	tokenURI string,
	fee *uint256.Int,
) (Receipt, error) {
	remote, err := r.RemoteRouter(destination)
	if err != nil {
		r.countFailure(destination, "no_router")
		return Receipt{}, err
	}

	if err := r.custody.Debit(ctx, sender, tokenID); err != nil {
		r.countFailure(destination, "debit")
		return Receipt{}, fmt.Errorf("failed to debit token %s: %w", tokenID, err)
	}

	payload := TransferMessage{
		Recipient: recipient,
		TokenID:   tokenID,
		TokenURI:  tokenURI,
	}.Bytes()

	receipt, err := r.mailbox.Dispatch(ctx, destination, remote, payload, fee)
	if err != nil {
		// Restore the sender's claim so the failed call has no net effect.
		if creditErr := r.custody.Credit(ctx, sender, tokenID, tokenURI); creditErr != nil {
			r.log.Error("failed to restore token after dispatch failure",
				zap.Stringer("tokenID", tokenID),
				zap.Error(creditErr),
			)
		}
		r.countFailure(destination, "dispatch")
		return Receipt{}, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	r.emitter.EmitSent(SentTransferRemote{
		Destination: destination,
		Recipient:   recipient,
		TokenID:     tokenID,
	})
	if r.metrics != nil {
		r.metrics.sentTransferCount.WithLabelValues(formatDomain(destination)).Inc()
	}
	r.log.Debug("dispatched remote transfer",
		zap.Uint32("destination", destination),
		zap.Stringer("recipient", recipient),
		zap.Stringer("tokenID", tokenID),
		zap.Stringer("messageID", receipt.ID),
	)
	return receipt, nil
}

// Handle completes an inbound transfer. The mailbox must only call Handle
// after verifying the message's authenticity and origin; Handle additionally
// requires the sender to be the router enrolled for the origin domain, which
// makes the trust boundary explicit rather than inherited.
func (r *Router) Handle(ctx context.Context, origin uint32, sender Address, payload []byte) error {
	remote, err := r.RemoteRouter(origin)
	if err != nil {
		r.countFailure(origin, "no_router")
		return err
	}
	if sender != remote {
		r.countFailure(origin, "untrusted_sender")
		return fmt.Errorf("%w: %s is not the router enrolled for domain %d",
			ErrUntrustedSender, sender, origin)
	}

	msg, err := ParseTransferMessage(payload)
	if err != nil {
		r.countFailure(origin, "malformed_payload")
		return fmt.Errorf("failed to parse transfer payload: %w", err)
	}

	if err := r.custody.Credit(ctx, msg.Recipient.Native(), msg.TokenID, msg.TokenURI); err != nil {
		r.countFailure(origin, "credit")
		return fmt.Errorf("failed to credit token %s: %w", msg.TokenID, err)
	}

	r.emitter.EmitReceived(ReceivedTransferRemote{
		Origin:    origin,
		Recipient: msg.Recipient,
		TokenID:   msg.TokenID,
	})
	if r.metrics != nil {
		r.metrics.receivedTransferCount.WithLabelValues(formatDomain(origin)).Inc()
	}
	r.log.Debug("received remote transfer",
		zap.Uint32("origin", origin),
		zap.Stringer("recipient", msg.Recipient),
		zap.Stringer("tokenID", msg.TokenID),
	)
	return nil
}

func (r *Router) countFailure(domain uint32, reason string) {
	if r.metrics != nil {
		r.metrics.failedTransferCount.WithLabelValues(formatDomain(domain), reason).Inc()
	}
}

func formatDomain(domain uint32) string {
	return strconv.FormatUint(uint64(domain), 10)
}
