package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/somramnani/hibachi-orders/internal/enum"
	"github.com/somramnani/hibachi-orders/internal/metrics"
)

// Writer stores one row and reports the range it landed in.
// Satisfied by *Sheets.
type Writer interface {
	WriteRow(ctx context.Context, row Row) (string, error)
}

// Outcome describes a single ledger attempt. It is telemetry only: callers
// never fail a request because of it.
type Outcome struct {
	Status   string // enum.LedgerStatusOK, Skipped or Failed
	Reason   string // set when Status is failed
	Range    string // set when Status is ok
	Duration time.Duration
}

// Skipped is the outcome when no ledger is configured.
func Skipped() Outcome { return Outcome{Status: enum.LedgerStatusSkipped} }

// RecorderConfig tunes the failure isolation around the writer.
type RecorderConfig struct {
	Timeout          time.Duration // per attempt, including rate-limit wait
	WritesPerMinute  int
	Burst            int
	FailureThreshold uint32        // consecutive failures that open the breaker
	OpenTimeout      time.Duration // how long the breaker stays open
}

func (c RecorderConfig) withDefaults() RecorderConfig {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.WritesPerMinute <= 0 {
		c.WritesPerMinute = 60
	}
	if c.Burst <= 0 {
		c.Burst = 5
	}
	if c.FailureThreshold == 0 {
		c.FailureThreshold = 5
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = 30 * time.Second
	}
	return c
}

// Recorder makes one best-effort write per order behind a timeout, a rate
// limiter and a circuit breaker. A nil Recorder, or one without a Writer,
// skips every write.
type Recorder struct {
	writer  Writer
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	timeout time.Duration
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewRecorder wraps w. Pass a nil w to build a recorder that always skips.
func NewRecorder(w Writer, cfg RecorderConfig, m *metrics.Metrics, log zerolog.Logger) *Recorder {
	cfg = cfg.withDefaults()
	r := &Recorder{
		writer:  w,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.WritesPerMinute)), cfg.Burst),
		timeout: cfg.Timeout,
		metrics: m,
		log:     log.With().Str("component", "ledger").Logger(),
	}
	r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "ledger",
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			r.log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("ledger circuit breaker state change")
			m.SetBreakerState(int(to))
		},
	})
	return r
}

// Enabled reports whether writes are attempted at all.
func (r *Recorder) Enabled() bool {
	return r != nil && r.writer != nil
}

// Record attempts the write and always returns within the recorder's timeout;
// failures are logged and reported in the Outcome. The attempt outlives ctx
// cancellation.
func (r *Recorder) Record(ctx context.Context, row Row) Outcome {
	if !r.Enabled() {
		if r != nil {
			r.metrics.ObserveLedger(enum.LedgerStatusSkipped, 0)
		}
		return Skipped()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	start := time.Now()
	written, err := r.writeWithin(ctx, row)
	out := Outcome{Duration: time.Since(start)}

	if err != nil {
		out.Status = enum.LedgerStatusFailed
		out.Reason = r.reason(ctx, err)
		r.log.Error().Err(err).Str("reason", out.Reason).Dur("duration", out.Duration).Msg("ledger write failed")
	} else {
		out.Status = enum.LedgerStatusOK
		out.Range = written
		r.log.Info().Str("range", written).Dur("duration", out.Duration).Msg("ledger row written")
	}
	r.metrics.ObserveLedger(out.Status, out.Duration)
	return out
}

type writeResult struct {
	written string
	err     error
}

// writeWithin returns when ctx expires even if the writer is still blocked
// somewhere that ignores ctx, such as a token refresh. The abandoned write
// finishes in the background and still counts toward the breaker.
func (r *Recorder) writeWithin(ctx context.Context, row Row) (string, error) {
	done := make(chan writeResult, 1)
	go func() {
		written, err := r.write(ctx, row)
		done <- writeResult{written, err}
	}()

	select {
	case res := <-done:
		return res.written, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (r *Recorder) write(ctx context.Context, row Row) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}
	res, err := r.breaker.Execute(func() (interface{}, error) {
		return r.writer.WriteRow(ctx, row)
	})
	if err != nil {
		return "", err
	}
	written, _ := res.(string)
	return written, nil
}

func (r *Recorder) reason(ctx context.Context, err error) string {
	var apiErr *APIError
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit open"
	case errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil:
		return fmt.Sprintf("timeout after %s", r.timeout)
	case errors.As(err, &apiErr):
		return apiErr.Error()
	default:
		return err.Error()
	}
}

// BreakerState exposes the breaker state for health reporting.
func (r *Recorder) BreakerState() string {
	if !r.Enabled() {
		return "disabled"
	}
	return r.breaker.State().String()
}
