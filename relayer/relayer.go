// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package relayer provides an in-process messaging framework for bridge
// routers. Each registered router gets a Mailbox whose dispatches are
// queued and delivered to the router registered for the destination domain,
// with exponential backoff on transient handler failures and at-most-once
// delivery per message ID.
package relayer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/luxfi/math/set"
	"github.com/luxfi/nftbridge"
	"go.uber.org/zap"
)

var (
	ErrUnknownDomain    = errors.New("no router registered for domain")
	ErrDomainRegistered = errors.New("domain already registered")
	ErrQueueFull        = errors.New("relayer queue is full")
	ErrRelayerStopped   = errors.New("relayer is stopped")
)

// Envelope is one queued cross-domain message. The nonce is assigned
// monotonically per origin mailbox and folded into the ID, so two dispatches
// of the same transfer are distinct envelopes.
type Envelope struct {
	ID          ids.ID
	Nonce       uint64
	Origin      uint32
	Sender      nftbridge.Address
	Destination uint32
	Recipient   nftbridge.Address
	Payload     []byte
}

type endpoint struct {
	router  nftbridge.Address
	handler nftbridge.Handler
}

// Relayer queues dispatched messages and delivers them to registered
// handlers.
type Relayer struct {
	cfg Config

	mu        sync.Mutex
	endpoints map[uint32]*endpoint
	domains   set.Set[uint32]
	stopped   bool

	queue chan Envelope
	seen  *seenCache

	log     *zap.Logger
	metrics *Metrics
}

// Config configures a Relayer.
type Config struct {
	// QueueSize bounds the number of undelivered envelopes. Dispatch fails
	// once the queue is full, which surfaces to the sending router as a
	// dispatch failure.
	QueueSize int
	// MaxRetryElapsed bounds how long a failing delivery is retried before
	// the envelope is dropped.
	MaxRetryElapsed time.Duration
	// SeenCacheSize bounds the delivered-message ID cache used for
	// at-most-once delivery.
	SeenCacheSize int
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// Metrics may be nil to disable counting.
	Metrics *Metrics
}

const (
	defaultQueueSize       = 1024
	defaultMaxRetryElapsed = 30 * time.Second
	defaultSeenCacheSize   = 4096
)

// New creates a relayer.
func New(cfg Config) *Relayer {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.MaxRetryElapsed <= 0 {
		cfg.MaxRetryElapsed = defaultMaxRetryElapsed
	}
	if cfg.SeenCacheSize <= 0 {
		cfg.SeenCacheSize = defaultSeenCacheSize
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Relayer{
		cfg:       cfg,
		endpoints: make(map[uint32]*endpoint),
		domains:   set.NewSet[uint32](4),
		queue:     make(chan Envelope, cfg.QueueSize),
		seen:      newSeenCache(cfg.SeenCacheSize),
		log:       cfg.Logger,
		metrics:   cfg.Metrics,
	}
}

// Register reserves a domain for the router with the given address and
// returns the Mailbox that router should dispatch through. The inbound
// handler is attached separately with AttachHandler once the router exists.
func (r *Relayer) Register(domain uint32, router nftbridge.Address) (nftbridge.Mailbox, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.domains.Contains(domain) {
		return nil, fmt.Errorf("%w: %d", ErrDomainRegistered, domain)
	}
	r.endpoints[domain] = &endpoint{router: router}
	r.domains.Add(domain)
	return &mailbox{relayer: r, origin: domain, sender: router}, nil
}

// AttachHandler wires inbound delivery for a registered domain.
func (r *Relayer) AttachHandler(domain uint32, handler nftbridge.Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ep, ok := r.endpoints[domain]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownDomain, domain)
	}
	ep.handler = handler
	return nil
}

// mailbox stamps dispatches with the registering router's identity and a
// monotonic nonce.
type mailbox struct {
	relayer *Relayer
	origin  uint32
	sender  nftbridge.Address
	nonce   atomic.Uint64
}

var _ nftbridge.Mailbox = (*mailbox)(nil)

func (m *mailbox) Dispatch(
	_ context.Context,
	destination uint32,
	recipient nftbridge.Address,
	payload []byte,
	_ *uint256.Int,
) (nftbridge.Receipt, error) {
	nonce := m.nonce.Add(1) - 1
	return m.relayer.enqueue(Envelope{
		ID:          nftbridge.MessageID(m.origin, nonce, destination, payload),
		Nonce:       nonce,
		Origin:      m.origin,
		Sender:      m.sender,
		Destination: destination,
		Recipient:   recipient,
		Payload:     append([]byte(nil), payload...),
	})
}

func (r *Relayer) enqueue(env Envelope) (nftbridge.Receipt, error) {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return nftbridge.Receipt{}, ErrRelayerStopped
	}
	known := r.domains.Contains(env.Destination)
	r.mu.Unlock()

	if !known {
		return nftbridge.Receipt{}, fmt.Errorf("%w: %d", ErrUnknownDomain, env.Destination)
	}

	select {
	case r.queue <- env:
	default:
		return nftbridge.Receipt{}, ErrQueueFull
	}

	r.log.Debug("queued envelope",
		zap.Uint32("origin", env.Origin),
		zap.Uint32("destination", env.Destination),
		zap.Stringer("messageID", env.ID),
	)
	return nftbridge.Receipt{ID: env.ID, Destination: env.Destination}, nil
}

// Run delivers queued envelopes until ctx is cancelled.
func (r *Relayer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			r.mu.Lock()
			r.stopped = true
			r.mu.Unlock()
			return ctx.Err()
		case env := <-r.queue:
			r.deliver(ctx, env)
		}
	}
}

// DeliverPending synchronously drains the queue. Intended for tests and
// single-shot tools.
func (r *Relayer) DeliverPending(ctx context.Context) {
	for {
		select {
		case env := <-r.queue:
			r.deliver(ctx, env)
		default:
			return
		}
	}
}

func (r *Relayer) deliver(ctx context.Context, env Envelope) {
	if r.seen.Contains(env.ID) {
		r.log.Debug("dropping duplicate envelope", zap.Stringer("messageID", env.ID))
		return
	}

	r.mu.Lock()
	ep, ok := r.endpoints[env.Destination]
	r.mu.Unlock()
	if !ok || ep.handler == nil {
		r.countFailure(env, "no_handler")
		r.log.Error("no handler for envelope destination",
			zap.Uint32("destination", env.Destination),
			zap.Stringer("messageID", env.ID),
		)
		return
	}

	operation := func() error {
		err := ep.handler.Handle(ctx, env.Origin, env.Sender, env.Payload)
		if isPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	expBackOff := backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(r.cfg.MaxRetryElapsed),
	)
	notify := func(err error, _ time.Duration) {
		r.log.Warn("delivery failed, retrying",
			zap.Stringer("messageID", env.ID),
			zap.Error(err),
		)
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(expBackOff, ctx), notify)
	if err != nil {
		r.countFailure(env, "handler")
		r.log.Error("giving up on envelope",
			zap.Uint32("origin", env.Origin),
			zap.Uint32("destination", env.Destination),
			zap.Stringer("messageID", env.ID),
			zap.Error(err),
		)
		return
	}

	r.seen.Add(env.ID)
	if r.metrics != nil {
		r.metrics.deliveredMessageCount.WithLabelValues(formatDomain(env.Destination)).Inc()
	}
	r.log.Debug("delivered envelope",
		zap.Uint32("origin", env.Origin),
		zap.Uint32("destination", env.Destination),
		zap.Stringer("messageID", env.ID),
	)
}

func (r *Relayer) countFailure(env Envelope, reason string) {
	if r.metrics != nil {
		r.metrics.failedDeliveryCount.WithLabelValues(formatDomain(env.Destination), reason).Inc()
	}
}

// isPermanent reports whether a handler error can never succeed on retry.
func isPermanent(err error) bool {
	return errors.Is(err, nftbridge.ErrUntrustedSender) ||
		errors.Is(err, nftbridge.ErrNoRouterEnrolled) ||
		errors.Is(err, nftbridge.ErrPayloadTooShort)
}

func formatDomain(domain uint32) string {
	return strconv.FormatUint(uint64(domain), 10)
}
