// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package relayer

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts delivery outcomes.
type Metrics struct {
	deliveredMessageCount *prometheus.CounterVec
	failedDeliveryCount   *prometheus.CounterVec
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		deliveredMessageCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "delivered_message_count",
				Help: "Number of envelopes delivered successfully, per destination domain",
			},
			[]string{"destination_domain"},
		),
		failedDeliveryCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "failed_delivery_count",
				Help: "Number of envelopes that could not be delivered, per destination domain and reason",
			},
			[]string{"destination_domain", "failure_reason"},
		),
	}
	if registerer != nil {
		registerer.MustRegister(m.deliveredMessageCount, m.failedDeliveryCount)
	}
	return m
}
