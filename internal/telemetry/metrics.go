package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMeterProvider installs a MeterProvider backed by the Prometheus exporter and returns the
// /metrics handler along with its shutdown.
func InitMeterProvider(serviceVersion string) (http.Handler, func(context.Context) error, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(newResource(serviceVersion)),
	)
	otel.SetMeterProvider(mp)

	return promhttp.Handler(), mp.Shutdown, nil
}

// Instruments records the outcomes of the storefront's state-changing flows.
// A nil *Instruments records nothing.
type Instruments struct {
	checkouts        metric.Int64Counter
	checkoutDuration metric.Float64Histogram
	cancellations    metric.Int64Counter
	cartChanges      metric.Int64Counter
}

// NewInstruments creates the storefront instruments on meter.
func NewInstruments(meter metric.Meter) (*Instruments, error) {
	checkouts, err := meter.Int64Counter("storefront.checkout.attempts",
		metric.WithDescription("Checkout attempts by outcome"))
	if err != nil {
		return nil, err
	}
	checkoutDuration, err := meter.Float64Histogram("storefront.checkout.duration",
		metric.WithDescription("Time spent placing an order"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	cancellations, err := meter.Int64Counter("storefront.order.cancellations",
		metric.WithDescription("Order cancellation attempts by outcome"))
	if err != nil {
		return nil, err
	}
	cartChanges, err := meter.Int64Counter("storefront.cart.changes",
		metric.WithDescription("Cart mutations by operation"))
	if err != nil {
		return nil, err
	}
	return &Instruments{
		checkouts:        checkouts,
		checkoutDuration: checkoutDuration,
		cancellations:    cancellations,
		cartChanges:      cartChanges,
	}, nil
}

// Default creates the instruments on the global MeterProvider.
func Default() (*Instruments, error) {
	return NewInstruments(otel.Meter(ServiceName))
}

func (i *Instruments) CheckoutOutcome(ctx context.Context, outcome string, elapsed time.Duration) {
	if i == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	i.checkouts.Add(ctx, 1, attrs)
	i.checkoutDuration.Record(ctx, elapsed.Seconds(), attrs)
}

func (i *Instruments) CancelOutcome(ctx context.Context, outcome string) {
	if i == nil {
		return
	}
	i.cancellations.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (i *Instruments) CartChanged(ctx context.Context, op string) {
	if i == nil {
		return
	}
	i.cartChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}
