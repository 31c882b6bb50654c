package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gramly_redis_errors_total",
	Help: "Total number of Redis errors by command",
}, []string{"command"})

// MailDeliveries counts one-time-code mail attempts by outcome. Delivery
// failures are swallowed, so this counter is the only place they surface.
var MailDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gramly_mail_deliveries_total",
	Help: "Total number of OTP mail delivery attempts by outcome",
}, []string{"outcome"})

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request-instrumentation handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
