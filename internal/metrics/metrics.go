package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingTransitions counts committed ledger transitions by event type.
	BookingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rentmarket",
		Name:      "booking_transitions_total",
		Help:      "Committed booking state transitions.",
	}, []string{"event"})

	// RejectedOperations counts operations refused before any state change.
	RejectedOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rentmarket",
		Name:      "rejected_operations_total",
		Help:      "Operations refused by authorization or guard checks.",
	}, []string{"op", "reason"})

	// EscrowDeposits counts deposits matched by the chain indexer.
	EscrowDeposits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rentmarket",
		Name:      "escrow_deposits_total",
		Help:      "On-chain deposits matched to an awaiting escrow row.",
	})

	// EscrowSettlements counts payouts released by the settlement worker.
	EscrowSettlements = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rentmarket",
		Name:      "escrow_settlements_total",
		Help:      "Funded escrow rows released to owners after the stay ended.",
	})
)
