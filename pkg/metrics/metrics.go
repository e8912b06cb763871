// Copyright (C) 2025 SAGE-X Project
//
// This file is part of sage-pay-go.
//
// sage-pay-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// sage-pay-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with sage-pay-go.  If not, see <https://www.gnu.org/licenses/>.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sagepay"

// Metrics collects signing, verification, certificate and transport metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	signatures        *prometheus.CounterVec
	verifications     *prometheus.CounterVec
	decryptions       *prometheus.CounterVec
	refreshes         *prometheus.CounterVec
	cachedCerts       prometheus.Gauge
	requestDuration   *prometheus.HistogramVec
	requestsTotal     *prometheus.CounterVec
	notificationsSeen *prometheus.CounterVec
}

// New registers the collectors with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		signatures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "signer",
				Name:      "signatures_total",
				Help:      "Total number of signatures produced",
			},
			[]string{"kind", "result"},
		),
		verifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "verifier",
				Name:      "verifications_total",
				Help:      "Total number of signature verifications by outcome",
			},
			[]string{"result"},
		),
		decryptions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "aead",
				Name:      "decryptions_total",
				Help:      "Total number of AEAD decryptions by outcome",
			},
			[]string{"result"},
		),
		refreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "certificate",
				Name:      "refreshes_total",
				Help:      "Total number of platform certificate refreshes by outcome",
			},
			[]string{"result"},
		),
		cachedCerts: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "certificate",
				Name:      "cached",
				Help:      "Number of platform certificates in the cache",
			},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "transport",
				Name:      "request_duration_seconds",
				Help:      "Platform API request duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "transport",
				Name:      "requests_total",
				Help:      "Total number of platform API requests",
			},
			[]string{"method", "status"},
		),
		notificationsSeen: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "server",
				Name:      "notifications_total",
				Help:      "Total number of inbound notifications by outcome",
			},
			[]string{"result"},
		),
	}
}

// ObserveSignature records one signing operation
func (m *Metrics) ObserveSignature(kind string, err error) {
	if m == nil {
		return
	}
	m.signatures.WithLabelValues(kind, result(err)).Inc()
}

// ObserveVerification records a verification outcome: "valid", "invalid" or "error"
func (m *Metrics) ObserveVerification(outcome string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(outcome).Inc()
}

// ObserveDecryption records one AEAD decryption
func (m *Metrics) ObserveDecryption(err error) {
	if m == nil {
		return
	}
	m.decryptions.WithLabelValues(result(err)).Inc()
}

// ObserveRefresh records one certificate refresh and the resulting cache size
func (m *Metrics) ObserveRefresh(err error, cached int) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(result(err)).Inc()
	m.cachedCerts.Set(float64(cached))
}

// ObserveRequest records one platform API request
func (m *Metrics) ObserveRequest(method, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, status).Inc()
	m.requestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// ObserveNotification records an inbound notification outcome
func (m *Metrics) ObserveNotification(outcome string) {
	if m == nil {
		return
	}
	m.notificationsSeen.WithLabelValues(outcome).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
