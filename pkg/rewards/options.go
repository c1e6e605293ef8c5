package rewards

import (
	"log/slog"
	"time"

	"github.com/chris/onecard-rewards/pkg/metrics"
	"go.opentelemetry.io/otel"
)

const tracerName = "github.com/chris/onecard-rewards/pkg/rewards"

var tracer = otel.Tracer(tracerName)

// Options configures the Allocator and Ledger.
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// RejectDuplicates records every transaction id and refuses replays.
	// When false a replayed transaction is credited again.
	RejectDuplicates bool
	// MaxConflictRetries bounds how often a plan is rebuilt after a version conflict.
	MaxConflictRetries int
	Now                func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.MaxConflictRetries < 0 {
		o.MaxConflictRetries = 0
	}
	return o
}
