// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package nftbridge

import "github.com/prometheus/client_golang/prometheus"

// RouterMetrics counts transfer outcomes per remote domain.
type RouterMetrics struct {
	sentTransferCount     *prometheus.CounterVec
	receivedTransferCount *prometheus.CounterVec
	failedTransferCount   *prometheus.CounterVec
}

func NewRouterMetrics(registerer prometheus.Registerer) *RouterMetrics {
	m := &RouterMetrics{
		sentTransferCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sent_transfer_count",
				Help: "Number of tokens transferred out, per destination domain",
			},
			[]string{"destination_domain"},
		),
		receivedTransferCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "received_transfer_count",
				Help: "Number of tokens received, per origin domain",
			},
			[]string{"origin_domain"},
		),
		failedTransferCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "failed_transfer_count",
				Help: "Number of transfers that failed, per remote domain and reason",
			},
			[]string{"remote_domain", "failure_reason"},
		),
	}
	if registerer != nil {
		registerer.MustRegister(
			m.sentTransferCount,
			m.receivedTransferCount,
			m.failedTransferCount,
		)
	}
	return m
}
