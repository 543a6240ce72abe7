package rolling

import (
	"context"

	"go.uber.org/zap"
)

// DefaultConcurrency is the worker count RollAllContext uses for large
// batches when no WithConcurrency option is given.
const DefaultConcurrency = 4

// Batches smaller than concurrentThreshold are rolled sequentially.
const concurrentThreshold = 256

// Roller binds a Calendar so callers can roll dates with just a convention.
// A Roller is immutable and safe for concurrent use if its Calendar is.
type Roller struct {
	cal         Calendar
	scanLimit   int
	concurrency int
	log         *zap.Logger
}

// Option configures a Roller.
type Option func(*Roller)

// WithScanLimit caps how many calendar days a single scan inspects.
func WithScanLimit(days int) Option {
	return func(r *Roller) {
		if days > 0 {
			r.scanLimit = days
		}
	}
}

// WithConcurrency sets the worker count for RollAllContext.
func WithConcurrency(n int) Option {
	return func(r *Roller) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithLogger logs every roll that moves a date at debug level.
func WithLogger(log *zap.Logger) Option {
	return func(r *Roller) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRoller returns a Roller over cal.
func NewRoller(cal Calendar, opts ...Option) *Roller {
	r := &Roller{
		cal:         cal,
		scanLimit:   DefaultScanLimit,
		concurrency: DefaultConcurrency,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Calendar returns the calendar the roller is bound to.
func (r *Roller) Calendar() Calendar { return r.cal }

// ScanLimit returns the per-scan day limit in effect.
func (r *Roller) ScanLimit() int { return r.scanLimit }

// Roll adjusts d according to c.
func (r *Roller) Roll(d Date, c Convention) (Date, error) {
	rolled, err := roll(d, c, r.cal, r.scanLimit)
	if err != nil {
		r.log.Warn("roll failed",
			zap.Stringer("date", d),
			zap.Stringer("convention", c),
			zap.Error(err))
		return Date{}, err
	}
	if rolled != d {
		r.log.Debug("rolled date",
			zap.Stringer("date", d),
			zap.Stringer("convention", c),
			zap.Stringer("rolled", rolled))
	}
	return rolled, nil
}

// RollAll adjusts every date in ds according to c, preserving order.
func (r *Roller) RollAll(ds []Date, c Convention) ([]Date, error) {
	rolled, err := rollAll(ds, c, r.cal, r.scanLimit)
	r.logBatch(ds, rolled, c, err)
	return rolled, err
}

// RollAllContext is RollAll that fans out across workers for large batches.
// The result is identical to RollAll.
func (r *Roller) RollAllContext(ctx context.Context, ds []Date, c Convention) ([]Date, error) {
	if len(ds) < concurrentThreshold || r.concurrency == 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return r.RollAll(ds, c)
	}
	r.log.Debug("rolling batch concurrently",
		zap.Int("dates", len(ds)),
		zap.Int("workers", r.concurrency),
		zap.Stringer("convention", c))
	rolled, err := rollAllConcurrent(ctx, ds, c, r.cal, r.concurrency, r.scanLimit)
	r.logBatch(ds, rolled, c, err)
	return rolled, err
}

// logBatch logs one entry per batch: a warning on failure, or at debug level
// the number of dates the batch moved.
func (r *Roller) logBatch(ds, rolled []Date, c Convention, err error) {
	if err != nil {
		r.log.Warn("batch roll failed",
			zap.Int("dates", len(ds)),
			zap.Stringer("convention", c),
			zap.Error(err))
		return
	}
	ce := r.log.Check(zap.DebugLevel, "rolled batch")
	if ce == nil {
		return
	}
	moved := 0
	for i, d := range ds {
		if rolled[i] != d {
			moved++
		}
	}
	if moved == 0 {
		return
	}
	ce.Write(
		zap.Int("dates", len(ds)),
		zap.Int("moved", moved),
		zap.Stringer("convention", c))
}
