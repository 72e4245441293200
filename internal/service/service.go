// Package service is the host boundary around the dispatcher. It validates
// call data, memoizes results, records metrics and traces, and turns an
// engine fault into an error value.
package service

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/detmath/internal/abi"
	"github.com/agbru/detmath/internal/config"
	"github.com/agbru/detmath/internal/dispatch"
	apperrors "github.com/agbru/detmath/internal/errors"
	"github.com/agbru/detmath/internal/logging"
)

var (
	callsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "detmath_calls_total",
			Help: "Invocations by operation and outcome",
		},
		[]string{"op", "status"},
	)
	callDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "detmath_call_duration_seconds",
			Help:    "Dispatch latency, cache hits excluded",
			Buckets: prometheus.ExponentialBuckets(1e-7, 4, 12),
		},
		[]string{"op"},
	)
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "detmath_cache_hits_total",
		Help: "Invocations answered from the result cache",
	})
)

// Outcome labels.
const (
	statusOK       = "ok"
	statusCached   = "cached"
	statusFault    = "fault"
	statusRejected = "rejected"
	statusCanceled = "canceled"
)

// Service executes encoded calls.
type Service interface {
	// Execute runs raw call data and returns the encoded result.
	Execute(ctx context.Context, calldata []byte) ([]byte, error)
	// ExecuteOp encodes textual arguments for the named operation and runs it.
	ExecuteOp(ctx context.Context, name string, args []string) ([]byte, error)
}

// Options configures an ExecutionService.
type Options struct {
	// CacheSize is the number of memoized results; 0 disables the cache.
	CacheSize int
	// MaxCalldata bounds the accepted input length in bytes.
	MaxCalldata int
	// Strict rejects non-canonical argument words, missing arguments and
	// curve moduli equal to the infinity sentinel.
	Strict bool
	Logger logging.Logger
}

// Stats is a snapshot of service counters.
type Stats struct {
	Calls     uint64
	CacheHits uint64
	Faults    uint64
	Rejected  uint64
	Cached    int
}

// ExecutionService implements Service on top of dispatch.Call.
type ExecutionService struct {
	opts   Options
	cache  *lru.Cache[string, []byte]
	logger logging.Logger
	tracer trace.Tracer

	call func([]byte) []byte

	calls, hits, faults, rejected atomic.Uint64
}

var _ Service = (*ExecutionService)(nil)

// NewExecutionService builds a service from opts.
func NewExecutionService(opts Options) (*ExecutionService, error) {
	if opts.MaxCalldata <= 0 {
		opts.MaxCalldata = config.DefaultMaxCalldata
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	s := &ExecutionService{
		opts:   opts,
		logger: opts.Logger,
		tracer: otel.Tracer("detmath/service"),
		call:   dispatch.Call,
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, []byte](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating result cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// NewFromConfig builds a service from the application configuration.
func NewFromConfig(cfg config.AppConfig, logger logging.Logger) (*ExecutionService, error) {
	return NewExecutionService(Options{
		CacheSize:   cfg.CacheSize,
		MaxCalldata: cfg.MaxCalldata,
		Strict:      cfg.Strict,
		Logger:      logger,
	})
}

// Stats returns the current counters.
func (s *ExecutionService) Stats() Stats {
	st := Stats{
		Calls:     s.calls.Load(),
		CacheHits: s.hits.Load(),
		Faults:    s.faults.Load(),
		Rejected:  s.rejected.Load(),
	}
	if s.cache != nil {
		st.Cached = s.cache.Len()
	}
	return st
}

func opName(sel dispatch.Selector) string {
	if op, ok := dispatch.Lookup(sel); ok {
		return op.Name
	}
	return "unknown"
}

// Execute validates calldata, consults the cache and dispatches the call.
// A dispatcher fault comes back as apperrors.FaultError with a nil result.
func (s *ExecutionService) Execute(ctx context.Context, calldata []byte) ([]byte, error) {
	s.calls.Add(1)
	cd := abi.Calldata(calldata)
	sel := dispatch.Selector(cd.Selector())
	name := opName(sel)

	if len(calldata) > s.opts.MaxCalldata {
		return nil, s.reject(name, apperrors.NewValidationError("calldata",
			fmt.Sprintf("%d bytes exceeds the %d byte limit", len(calldata), s.opts.MaxCalldata), len(calldata)))
	}
	if err := ctx.Err(); err != nil {
		callsTotal.WithLabelValues(name, statusCanceled).Inc()
		return nil, apperrors.NewExecutionError(name, err)
	}
	if s.opts.Strict {
		if err := checkStrict(cd); err != nil {
			return nil, s.reject(name, err)
		}
	}

	key := string(calldata)
	if s.cache != nil {
		if out, ok := s.cache.Get(key); ok {
			s.hits.Add(1)
			cacheHits.Inc()
			callsTotal.WithLabelValues(name, statusCached).Inc()
			return append([]byte(nil), out...), nil
		}
	}

	_, span := s.tracer.Start(ctx, "dispatch.Call", trace.WithAttributes(
		attribute.String("op", name),
		attribute.Int64("selector", int64(sel)),
		attribute.Int("calldata.bytes", len(calldata)),
	))
	defer span.End()

	start := time.Now()
	out, err := s.invoke(sel, calldata)
	elapsed := time.Since(start)
	callDuration.WithLabelValues(name).Observe(elapsed.Seconds())

	if err != nil {
		s.faults.Add(1)
		callsTotal.WithLabelValues(name, statusFault).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "fault")
		s.logger.Error("invocation fault", err, logging.Selector(uint32(sel)), logging.String("op", name))
		return nil, err
	}

	callsTotal.WithLabelValues(name, statusOK).Inc()
	span.SetAttributes(attribute.Int("result.bytes", len(out)))
	s.logger.Debug("call complete",
		logging.String("op", name),
		logging.Selector(uint32(sel)),
		logging.Int("bytes", len(out)),
		logging.String("elapsed", elapsed.String()),
	)
	if s.cache != nil {
		s.cache.Add(key, append([]byte(nil), out...))
	}
	return out, nil
}

// invoke runs the dispatcher and converts a *dispatch.Fault panic into a
// FaultError. Other panics propagate.
func (s *ExecutionService) invoke(sel dispatch.Selector, calldata []byte) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(*dispatch.Fault)
			if !ok {
				panic(r)
			}
			out, err = nil, apperrors.FaultError{Selector: uint32(f.Selector), Reason: f.Reason}
		}
	}()
	return s.call(calldata), nil
}

func (s *ExecutionService) reject(name string, err error) error {
	s.rejected.Add(1)
	callsTotal.WithLabelValues(name, statusRejected).Inc()
	s.logger.Debug("call rejected", logging.String("op", name), logging.Err(err))
	return err
}

// ExecuteOp encodes args for the named operation and runs it.
func (s *ExecutionService) ExecuteOp(ctx context.Context, name string, args []string) ([]byte, error) {
	cd, err := dispatch.EncodeCall(name, args)
	if err != nil {
		return nil, apperrors.NewValidationError("args", err.Error(), args)
	}
	return s.Execute(ctx, cd)
}

// checkStrict enforces canonical encoding for known operations: exactly one
// word per parameter, zero padding for the parameter kind, and no curve
// modulus that collides with the infinity sentinel.
func checkStrict(cd abi.Calldata) error {
	op, ok := dispatch.Lookup(dispatch.Selector(cd.Selector()))
	if !ok {
		return nil
	}
	if want := abi.SelectorSize + len(op.Params)*abi.WordSize; len(cd) != want {
		return apperrors.NewValidationError("calldata",
			fmt.Sprintf("%s expects %d bytes, got %d", op.Name, want, len(cd)), len(cd))
	}
	for i, p := range op.Params {
		if !cd.Arg(i).IsCanonical(p.Kind) {
			return apperrors.NewValidationError(p.Name, "non-zero padding bytes", cd.Arg(i).Hex())
		}
	}
	switch op.Selector {
	case dispatch.PointAdd, dispatch.PointDouble:
		m := cd.Arg(len(op.Params) - 1).U64()
		if m == math.MaxUint64 {
			return apperrors.NewValidationError("m", "modulus equals the infinity sentinel", m)
		}
	}
	return nil
}
