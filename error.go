// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package nftbridge

import "errors"

var (
	// ErrPayloadTooShort is returned when a transfer payload is shorter than
	// the fixed-width prefix.
	ErrPayloadTooShort = errors.New("payload too short")

	// ErrNoRouterEnrolled is returned when no remote router is enrolled for
	// the requested domain.
	ErrNoRouterEnrolled = errors.New("no router enrolled for domain")

	// ErrUntrustedSender is returned when an inbound message claims a sender
	// other than the router enrolled for its origin domain.
	ErrUntrustedSender = errors.New("untrusted sender")

	// ErrDispatchFailed wraps mailbox rejections of an outbound message.
	ErrDispatchFailed = errors.New("dispatch failed")
)
