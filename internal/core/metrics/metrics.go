package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CouponValidations counts coupon validations by result (applied, rejected, error).
	CouponValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_coupon_validations_total",
			Help: "Coupon validations by result.",
		},
		[]string{"result"},
	)

	// OrdersSubmitted counts order submissions by payment method and outcome.
	OrdersSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_orders_submitted_total",
			Help: "Order submissions by payment method and outcome.",
		},
		[]string{"payment_method", "outcome"},
	)

	// PaymentChecks counts payment status checks by trigger and result.
	PaymentChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_payment_checks_total",
			Help: "Payment status checks by trigger (poll, manual) and result.",
		},
		[]string{"trigger", "result"},
	)

	// ActiveTrackers is the number of payment trackers currently polling.
	ActiveTrackers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "delivery_payment_trackers_active",
			Help: "Payment trackers currently polling.",
		},
	)
)

// Handler serves the Prometheus exposition format on a fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
