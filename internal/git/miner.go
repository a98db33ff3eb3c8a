package git

import (
	"context"
	"fmt"
	"time"

	"github.com/bashhack/gitvain/internal/commit"
	vainErrors "github.com/bashhack/gitvain/internal/errors"
	"github.com/bashhack/gitvain/internal/logger"
	"github.com/bashhack/gitvain/internal/search"
)

// MinerConfig contains configuration for a single mining run.
type MinerConfig struct {
	// RepoPath specifies the filesystem path to the Git repository.
	RepoPath string

	// Pattern is the hex prefix the rewritten commit id must start with.
	Pattern string

	// DryRun searches and verifies but leaves HEAD untouched.
	DryRun bool

	// Workers is the number of hashing goroutines. Zero picks one per
	// performance core.
	Workers int

	// Bound limits both timestamp offsets to [-Bound, Bound] seconds.
	// Zero means search.DefaultBound.
	Bound int64

	// ProgressInterval is how often the hash count is reported. Zero
	// disables progress output.
	ProgressInterval time.Duration

	// Verbose enables the progress line and extra status output.
	Verbose bool
}

// Validate sanity-checks the config and returns an error if something is wrong.
// The pattern itself is compiled, and therefore checked, by Run.
func (c *MinerConfig) Validate() error {
	if c.RepoPath == "" {
		return fmt.Errorf("RepoPath must not be empty")
	}
	if c.Workers < 0 {
		return fmt.Errorf("Workers cannot be negative (got %d)", c.Workers)
	}
	if c.Bound < 0 {
		return fmt.Errorf("Bound cannot be negative (got %d)", c.Bound)
	}
	if c.Bound > search.MaxBound {
		return fmt.Errorf("Bound cannot exceed %d (got %d)", int64(search.MaxBound), c.Bound)
	}
	if c.ProgressInterval < 0 {
		return fmt.Errorf("ProgressInterval cannot be negative (got %v)", c.ProgressInterval)
	}
	return nil
}

// Miner rewrites HEAD so that its object id starts with a pattern, by
// searching over small shifts of the author and committer timestamps.
type Miner struct {
	config MinerConfig
	logger logger.Logger
	store  CommitStore

	startTime time.Time
	headID    string
	newID     string
	workers   int
	result    search.Result
	unchanged bool
}

// NewMiner creates a miner that drives the git binary in config.RepoPath.
func NewMiner(config MinerConfig, logger logger.Logger) (*Miner, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid miner configuration: %w", err)
	}
	return NewMinerWithDeps(config, logger, NewCLIStore(config.RepoPath, NewExecExecutor()))
}

// NewMinerWithDeps creates a miner with a custom CommitStore
func NewMinerWithDeps(config MinerConfig, logger logger.Logger, store CommitStore) (*Miner, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid miner configuration: %w", err)
	}
	return &Miner{
		config:    config,
		logger:    logger,
		store:     store,
		startTime: time.Now(),
	}, nil
}

// Result returns the outcome of the last Run.
func (m *Miner) Result() search.Result {
	return m.result
}

// NewID returns the id HEAD was (or, in a dry run, would be) moved to.
func (m *Miner) NewID() string {
	return m.newID
}

// Run searches for a matching commit and, unless DryRun is set, replaces
// HEAD with it. Not finding a match within the bound is not an error; check
// Result().Found.
func (m *Miner) Run(ctx context.Context) error {
	m.startTime = time.Now()

	pattern, err := search.CompilePattern(m.config.Pattern)
	if err != nil {
		return err
	}

	raw, id, err := m.store.ReadCurrent(ctx)
	if err != nil {
		m.logger.Error("Failed to read HEAD: %v", err)
		return vainErrors.Wrap(err, "failed to read HEAD")
	}
	m.headID = id
	m.logger.Info("HEAD %s (%d bytes)", id, len(raw))

	tmpl, err := commit.Parse(raw)
	if err != nil {
		return err
	}
	if tmpl.Signed() {
		m.logger.WarningToUser("HEAD is signed; the rewritten commit keeps the signature header but it will no longer verify")
	}

	hasher, err := search.NewHasher(tmpl)
	if err != nil {
		return err
	}

	// Hashing the unshifted template must reproduce HEAD, or every candidate
	// would be wrong.
	origin, err := hasher.Sum(commit.Offset{})
	if err != nil {
		return err
	}
	if err := checkExpected(origin.String(), id); err != nil {
		return err
	}

	if pattern.Match(&origin) {
		m.unchanged = true
		m.newID = id
		m.result = search.Result{Found: true, Digest: origin}
		m.logger.Success("HEAD %s already starts with %s", id, pattern)
		return nil
	}

	coordinator := search.NewCoordinator(hasher, pattern, search.Options{
		Workers:          m.config.Workers,
		Bound:            m.config.Bound,
		ProgressInterval: m.config.ProgressInterval,
		OnProgress:       m.reportProgress,
	})
	m.workers = coordinator.Workers()
	if !coordinator.WidthSafe() {
		m.logger.Warning("Some offsets within ±%d change a timestamp's digit count and will be skipped", coordinator.Spiral().Bound)
	}

	m.logger.StatusMessage("🔍 searching for: %s", pattern)
	m.logger.Info("Searching %d candidates with %d workers on %s, expecting ~%.0f trials",
		coordinator.Spiral().Max(), m.workers, search.CPUDescription(), pattern.Expected())

	res, err := coordinator.Search(ctx)
	m.result = res
	if err != nil {
		m.logger.Error("Search stopped: %v", err)
		return vainErrors.Wrap(err, "search stopped")
	}
	m.logger.Info("Search finished: hashed=%d skipped=%d elapsed=%v", res.Stats.Hashed, res.Stats.Skipped, res.Stats.Elapsed)

	if !res.Found {
		m.logger.WarningToUser("No commit id starting with %s within ±%d seconds", pattern, coordinator.Spiral().Bound)
		return nil
	}

	rewritten, err := tmpl.Render(res.Offset)
	if err != nil {
		return err
	}
	gitID, err := m.store.VerifyHash(ctx, rewritten)
	if err != nil {
		return vainErrors.Wrap(err, "failed to verify rewritten commit")
	}
	if err := checkExpected(res.Digest.String(), gitID); err != nil {
		m.logger.Error("Verification failed: %v", err)
		return err
	}
	m.newID = gitID

	m.logger.StatusMessage("∆a: %d, ∆c: %d, khash: %d", res.Offset.Author, res.Offset.Committer, res.Stats.Hashed/1000)
	m.logger.StatusMessage("%s", gitID)

	if m.config.DryRun {
		m.logger.InfoToUser("Dry run: HEAD left at %s", id)
		return nil
	}

	if err := m.store.ReplaceCurrent(ctx, rewritten, gitID); err != nil {
		m.logger.Error("Failed to replace HEAD: %v", err)
		return vainErrors.Wrap(err, "failed to replace HEAD")
	}
	m.logger.Success("HEAD moved from %s to %s", id, gitID)
	return nil
}

// reportProgress is called from the coordinating goroutine only.
func (m *Miner) reportProgress(s search.Stats) {
	if !m.config.Verbose {
		return
	}
	m.logger.Progress("khash: %d (%.2f Mh/s)", s.Hashed/1000, s.Rate()/1e6)
}

// PrintSummary prints a summary of the last run
func (m *Miner) PrintSummary() {
	res := m.result
	duration := time.Since(m.startTime)

	m.logger.StatusMessage("")
	m.logger.StatusMessage("---------------------------------------------")
	m.logger.StatusMessage("📊 gitvain Summary")
	m.logger.StatusMessage("---------------------------------------------")
	m.logger.StatusMessage("🎯 Pattern: %s", m.config.Pattern)

	switch {
	case m.unchanged:
		m.logger.StatusMessage("✅ HEAD already matched: %s", m.newID)
	case res.Found:
		m.logger.StatusMessage("✅ Found: %s", res.Digest)
		m.logger.StatusMessage("🕒 Author offset: %+ds, committer offset: %+ds", res.Offset.Author, res.Offset.Committer)
		if m.config.DryRun {
			m.logger.StatusMessage("🧪 Dry run: HEAD unchanged (%s)", m.headID)
		} else {
			m.logger.StatusMessage("🌿 HEAD: %s -> %s", m.headID, m.newID)
		}
	default:
		m.logger.StatusMessage("❌ No match found")
	}

	if !m.unchanged {
		m.logger.StatusMessage("🔢 Hashes tried: %d k (%d skipped)", res.Stats.Hashed/1000, res.Stats.Skipped)
		m.logger.StatusMessage("⚡ Rate: %.2f Mh/s over %d workers", res.Stats.Rate()/1e6, m.workers)
	}
	m.logger.StatusMessage("⏱️  Duration: %v", duration.Round(time.Millisecond))
	m.logger.StatusMessage("---------------------------------------------")
}
