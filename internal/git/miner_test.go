package git

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/bashhack/gitvain/internal/commit"
	vainErrors "github.com/bashhack/gitvain/internal/errors"
	"github.com/bashhack/gitvain/internal/logger"
	"github.com/bashhack/gitvain/internal/search"
)

// fakeStore is an in-memory CommitStore that hashes with go-git.
type fakeStore struct {
	mu sync.Mutex

	raw []byte
	id  string

	readErr    error
	replaceErr error

	// corruptVerify makes VerifyHash disagree with the search.
	corruptVerify bool

	reads    int
	verified [][]byte
	replaced [][]byte
}

func newFakeStore(raw string) *fakeStore {
	return &fakeStore{
		raw: []byte(raw),
		id:  plumbing.ComputeHash(plumbing.CommitObject, []byte(raw)).String(),
	}
}

func (s *fakeStore) ReadCurrent(_ context.Context) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.readErr != nil {
		return nil, "", s.readErr
	}
	return s.raw, s.id, nil
}

func (s *fakeStore) VerifyHash(_ context.Context, raw []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verified = append(s.verified, raw)
	if s.corruptVerify {
		return strings.Repeat("f", 40), nil
	}
	return plumbing.ComputeHash(plumbing.CommitObject, raw).String(), nil
}

func (s *fakeStore) ReplaceCurrent(_ context.Context, raw []byte, expected string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replaceErr != nil {
		return s.replaceErr
	}
	if got := plumbing.ComputeHash(plumbing.CommitObject, raw).String(); got != expected {
		return vainErrors.NewVerificationError(expected, got)
	}
	s.replaced = append(s.replaced, raw)
	s.raw, s.id = raw, expected
	return nil
}

func newTestMiner(t *testing.T, cfg MinerConfig, store CommitStore) (*Miner, *bytes.Buffer) {
	t.Helper()
	if cfg.RepoPath == "" {
		cfg.RepoPath = "/repo"
	}
	var out bytes.Buffer
	log := logger.NewWithOutput(false, "", true, &out, &out)
	m, err := NewMinerWithDeps(cfg, log, store)
	if err != nil {
		t.Fatalf("NewMinerWithDeps failed: %v", err)
	}
	return m, &out
}

func TestMinerConfigValidate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg     MinerConfig
		wantErr bool
	}{
		"Valid":            {cfg: MinerConfig{RepoPath: "/repo", Pattern: "abc"}},
		"MissingRepo":      {cfg: MinerConfig{Pattern: "abc"}, wantErr: true},
		"NegativeWorkers":  {cfg: MinerConfig{RepoPath: "/repo", Workers: -1}, wantErr: true},
		"NegativeBound":    {cfg: MinerConfig{RepoPath: "/repo", Bound: -1}, wantErr: true},
		"MaxBound":         {cfg: MinerConfig{RepoPath: "/repo", Bound: search.MaxBound}},
		"OverflowBound":    {cfg: MinerConfig{RepoPath: "/repo", Bound: 2_000_000_000}, wantErr: true},
		"NegativeProgress": {cfg: MinerConfig{RepoPath: "/repo", ProgressInterval: -time.Second}, wantErr: true},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("Expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestMinerRun(t *testing.T) {
	t.Parallel()

	store := newFakeStore(sampleCommit)
	m, out := newTestMiner(t, MinerConfig{Pattern: "1a85e279", Workers: 4, Bound: 3}, store)

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	res := m.Result()
	if !res.Found {
		t.Fatal("Expected a match")
	}
	if res.Offset != (commit.Offset{Author: 1}) {
		t.Errorf("Expected offset {1 0}, got %+v", res.Offset)
	}
	if m.NewID() != shiftedID {
		t.Errorf("Expected new id %s, got %s", shiftedID, m.NewID())
	}
	if len(store.replaced) != 1 || string(store.replaced[0]) != shiftedCommit {
		t.Fatalf("Expected HEAD replaced with the shifted commit, got %q", store.replaced)
	}
	if store.id != shiftedID {
		t.Errorf("Store HEAD is %s", store.id)
	}
	if !strings.Contains(out.String(), "∆a: 1, ∆c: 0") {
		t.Errorf("Expected offsets in output, got %q", out.String())
	}

	m.PrintSummary()
	if !strings.Contains(out.String(), shiftedID) {
		t.Errorf("Summary should mention the new id, got %q", out.String())
	}
}

func TestMinerDryRun(t *testing.T) {
	t.Parallel()

	store := newFakeStore(sampleCommit)
	m, _ := newTestMiner(t, MinerConfig{Pattern: "1a85e279", DryRun: true, Bound: 3}, store)

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !m.Result().Found || m.NewID() != shiftedID {
		t.Fatalf("Expected a verified match, got %+v", m.Result())
	}
	if len(store.verified) != 1 {
		t.Errorf("Dry run should still verify, got %d calls", len(store.verified))
	}
	if len(store.replaced) != 0 {
		t.Error("Dry run must not replace HEAD")
	}
	if store.id != sampleID {
		t.Errorf("HEAD changed to %s", store.id)
	}
}

func TestMinerAlreadyMatching(t *testing.T) {
	t.Parallel()

	store := newFakeStore(sampleCommit)
	m, out := newTestMiner(t, MinerConfig{Pattern: "485F"}, store)

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !m.Result().Found || m.NewID() != sampleID {
		t.Errorf("Expected HEAD reported as matching, got %+v", m.Result())
	}
	if len(store.verified) != 0 || len(store.replaced) != 0 {
		t.Error("Nothing should be verified or written when HEAD already matches")
	}
	if !strings.Contains(out.String(), "already starts with 485f") {
		t.Errorf("Unexpected output %q", out.String())
	}
}

func TestMinerNotFound(t *testing.T) {
	t.Parallel()

	store := newFakeStore(sampleCommit)
	m, out := newTestMiner(t, MinerConfig{Pattern: "0000000000000000", Workers: 2, Bound: 2}, store)

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Exhausting the bound should not be an error, got %v", err)
	}
	if m.Result().Found {
		t.Skipf("Unexpected match %s", m.Result().Digest)
	}
	if m.Result().Stats.Hashed != 24 {
		t.Errorf("Expected all 24 candidates hashed, got %d", m.Result().Stats.Hashed)
	}
	if len(store.replaced) != 0 {
		t.Error("HEAD must not change when nothing matched")
	}
	if !strings.Contains(out.String(), "No commit id starting with 0000000000000000") {
		t.Errorf("Unexpected output %q", out.String())
	}

	m.PrintSummary()
	if !strings.Contains(out.String(), "No match found") {
		t.Errorf("Summary should report no match, got %q", out.String())
	}
}

func TestMinerVerificationMismatch(t *testing.T) {
	t.Parallel()

	store := newFakeStore(sampleCommit)
	store.corruptVerify = true
	m, _ := newTestMiner(t, MinerConfig{Pattern: "1a85e279", Bound: 3}, store)

	err := m.Run(context.Background())
	if !vainErrors.Is(err, vainErrors.ErrHashMismatch) {
		t.Fatalf("Expected ErrHashMismatch, got %v", err)
	}
	var verr *vainErrors.VerificationError
	if !vainErrors.As(err, &verr) || verr.Expected != shiftedID {
		t.Errorf("Expected VerificationError for %s, got %v", shiftedID, err)
	}
	if len(store.replaced) != 0 {
		t.Error("HEAD must not change after a verification mismatch")
	}
}

func TestMinerHeadSanityCheck(t *testing.T) {
	t.Parallel()

	store := newFakeStore(sampleCommit)
	store.id = strings.Repeat("0", 40)
	m, _ := newTestMiner(t, MinerConfig{Pattern: "abc"}, store)

	err := m.Run(context.Background())
	if !vainErrors.Is(err, vainErrors.ErrHashMismatch) {
		t.Fatalf("Expected ErrHashMismatch, got %v", err)
	}
	if len(store.verified) != 0 {
		t.Error("Search must not start when HEAD does not hash to its id")
	}
}

func TestMinerInputErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		pattern   string
		raw       string
		readErr   error
		sentinel  error
		wantReads int
	}{
		"InvalidPattern": {
			pattern:   "xyz",
			raw:       sampleCommit,
			sentinel:  vainErrors.ErrInvalidPattern,
			wantReads: 0,
		},
		"EmptyPattern": {
			pattern:   "",
			raw:       sampleCommit,
			sentinel:  vainErrors.ErrInvalidPattern,
			wantReads: 0,
		},
		"MissingCommitter": {
			pattern:   "abc",
			raw:       "tree abc\nauthor A <a@b> 1700000000 +0000\n\nmsg\n",
			sentinel:  vainErrors.ErrMissingTimestampField,
			wantReads: 1,
		},
		"ReadFailure": {
			pattern:   "abc",
			raw:       sampleCommit,
			readErr:   vainErrors.NewGitError("rev-parse", nil, vainErrors.ErrGitOperationFailed, ""),
			sentinel:  vainErrors.ErrGitOperationFailed,
			wantReads: 1,
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			store := newFakeStore(tc.raw)
			store.readErr = tc.readErr
			m, _ := newTestMiner(t, MinerConfig{Pattern: tc.pattern}, store)

			err := m.Run(context.Background())
			if !vainErrors.Is(err, tc.sentinel) {
				t.Fatalf("Expected %v, got %v", tc.sentinel, err)
			}
			if store.reads != tc.wantReads {
				t.Errorf("Expected %d reads, got %d", tc.wantReads, store.reads)
			}
		})
	}
}

func TestMinerCancelled(t *testing.T) {
	t.Parallel()

	store := newFakeStore(sampleCommit)
	m, _ := newTestMiner(t, MinerConfig{Pattern: "0000000000000000", Workers: 2}, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Run(ctx)
	if !vainErrors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if len(store.replaced) != 0 {
		t.Error("HEAD must not change after cancellation")
	}
}

func TestMinerProgress(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	log := logger.NewWithOutput(false, "", true, &out, &out)
	m, err := NewMinerWithDeps(MinerConfig{RepoPath: "/repo", Verbose: true}, log, newFakeStore(sampleCommit))
	if err != nil {
		t.Fatalf("NewMinerWithDeps failed: %v", err)
	}

	m.reportProgress(search.Stats{Hashed: 12345, Elapsed: time.Second})
	if !strings.Contains(out.String(), "\rkhash: 12") {
		t.Errorf("Expected progress line, got %q", out.String())
	}
}
