package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SalesCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_sales_completed_total",
			Help: "Completed course purchases",
		},
		[]string{"currency"},
	)

	SalesRevenueTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_sales_revenue_total",
			Help: "Revenue of completed purchases in minor currency units",
		},
		[]string{"currency"},
	)

	CouponRedemptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_coupon_redemptions_total",
			Help: "Coupon pipeline outcomes by result",
		},
		[]string{"result"},
	)

	PayoutsRequestedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_payouts_requested_total",
			Help: "Payout requests created",
		},
	)

	LedgerFlushFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_ledger_flush_failures_total",
			Help: "Failed collection writes to the persistence backend",
		},
		[]string{"collection"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_notifications_total",
			Help: "Notification deliveries by sink and status",
		},
		[]string{"sink", "status"},
	)
)
