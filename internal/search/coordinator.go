package search

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bashhack/gitvain/internal/commit"
	vainErrors "github.com/bashhack/gitvain/internal/errors"
)

// flushEvery is how many trials a worker counts locally before publishing
// them to the shared progress counters.
const flushEvery = 1 << 12

// Options tunes a search.
type Options struct {
	// Workers is the number of goroutines racing. Zero means DefaultWorkers().
	Workers int

	// Bound is the spiral radius. Zero means DefaultBound.
	Bound int64

	// ProgressInterval is how often OnProgress is called. Zero disables it.
	ProgressInterval time.Duration

	// OnProgress receives running statistics from the coordinating goroutine.
	OnProgress func(Stats)
}

// Stats describes the work done by a search so far.
type Stats struct {
	// Hashed counts candidates whose digest was computed.
	Hashed uint64

	// Skipped counts candidates dropped because a shifted timestamp would
	// change its digit width.
	Skipped uint64

	Elapsed time.Duration
}

// Rate returns hashes per second.
func (s Stats) Rate() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Hashed) / s.Elapsed.Seconds()
}

// Result is the outcome of a search. Found is false when the whole spiral was
// walked without a match.
type Result struct {
	Found  bool
	Offset commit.Offset
	Digest Digest

	// Index is the spiral index of the winning pair and Worker the
	// goroutine (1-based) that found it.
	Index  int64
	Worker int

	Stats Stats
}

// Coordinator races a fixed pool of workers over disjoint residue classes of
// the spiral and publishes exactly one winner.
type Coordinator struct {
	hasher  *Hasher
	pattern *Pattern
	spiral  Spiral
	workers int
	opts    Options
}

// NewCoordinator creates a coordinator, filling in defaults for zero options.
func NewCoordinator(h *Hasher, p *Pattern, opts Options) *Coordinator {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers()
	}
	if opts.Bound <= 0 {
		opts.Bound = DefaultBound
	}
	opts.Bound = min(opts.Bound, MaxBound)
	return &Coordinator{
		hasher:  h,
		pattern: p,
		spiral:  Spiral{Bound: opts.Bound},
		workers: opts.Workers,
		opts:    opts,
	}
}

// Workers returns the number of workers a search will start.
func (c *Coordinator) Workers() int { return c.workers }

// Spiral returns the enumeration walked by a search.
func (c *Coordinator) Spiral() Spiral { return c.spiral }

// WidthSafe reports whether every offset within the bound keeps both
// timestamps at their original width, i.e. no candidate will be skipped.
func (c *Coordinator) WidthSafe() bool {
	t := c.hasher.Template()
	b := c.spiral.Bound
	return t.Author.Fits(-b) && t.Author.Fits(b) && t.Committer.Fits(-b) && t.Committer.Fits(b)
}

// race is the state shared by one search's workers: a found flag that only
// flips once, the result slot written by the goroutine that flipped it, and
// the progress counters.
type race struct {
	found     atomic.Bool
	cancelled atomic.Bool
	won       chan struct{}
	result    Result

	hashed  atomic.Uint64
	skipped atomic.Uint64
	start   time.Time
}

// stopped is the cancellation token checked before each candidate.
func (r *race) stopped() bool {
	return r.found.Load() || r.cancelled.Load()
}

// publish stores res if no other worker has won yet.
func (r *race) publish(res Result) bool {
	if !r.found.CompareAndSwap(false, true) {
		return false
	}
	r.result = res
	close(r.won)
	return true
}

func (r *race) stats() Stats {
	return Stats{
		Hashed:  r.hashed.Load(),
		Skipped: r.skipped.Load(),
		Elapsed: time.Since(r.start),
	}
}

// Search runs the workers until one matches, all of them exhaust their share
// of the spiral, or ctx is cancelled. Exhaustion is reported as a Result with
// Found false and a nil error.
func (c *Coordinator) Search(ctx context.Context) (Result, error) {
	r := &race{won: make(chan struct{}), start: time.Now()}

	g, gctx := errgroup.WithContext(ctx)
	stop := context.AfterFunc(gctx, func() { r.cancelled.Store(true) })
	defer stop()

	for i := 1; i <= c.workers; i++ {
		worker := i
		g.Go(func() error {
			return c.work(r, worker)
		})
	}

	var werr error
	exhausted := make(chan struct{})
	go func() {
		werr = g.Wait()
		close(exhausted)
	}()

	var tick <-chan time.Time
	if c.opts.ProgressInterval > 0 && c.opts.OnProgress != nil {
		ticker := time.NewTicker(c.opts.ProgressInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

wait:
	for {
		select {
		case <-r.won:
			break wait
		case <-exhausted:
			break wait
		case <-tick:
			c.opts.OnProgress(r.stats())
		}
	}

	// Workers notice the flag on their next iteration; wait for them so no
	// goroutine outlives the search.
	<-exhausted

	stats := r.stats()
	if r.found.Load() {
		res := r.result
		res.Stats = stats
		return res, nil
	}
	if werr != nil {
		return Result{Stats: stats}, werr
	}
	if err := ctx.Err(); err != nil {
		return Result{Stats: stats}, err
	}
	return Result{Stats: stats}, nil
}

// work walks n = worker, worker+T, worker+2T, ... up to the spiral maximum.
func (c *Coordinator) work(r *race, worker int) error {
	probe := c.hasher.NewProbe()
	last := c.spiral.Max()
	step := int64(c.workers)

	var (
		d                Digest
		hashed, skipped uint64
	)
	defer func() {
		r.hashed.Add(hashed % flushEvery)
		r.skipped.Add(skipped)
	}()

	for n := int64(worker); n <= last; n += step {
		if r.stopped() {
			return nil
		}

		off := c.spiral.At(n)
		if err := probe.Digest(off, &d); err != nil {
			if vainErrors.Is(err, vainErrors.ErrTimestampWidth) {
				skipped++
				continue
			}
			return err
		}

		hashed++
		if hashed%flushEvery == 0 {
			r.hashed.Add(flushEvery)
		}

		if c.pattern.Match(&d) {
			r.publish(Result{
				Found:  true,
				Offset: off,
				Digest: d,
				Index:  n,
				Worker: worker,
			})
			return nil
		}
	}
	return nil
}
