package git

import (
	"context"
	"io"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	vainErrors "github.com/bashhack/gitvain/internal/errors"
)

// GoGitStore implements CommitStore and DefaultsReader on top of go-git, so
// no git binary is needed.
type GoGitStore struct {
	repo *gogit.Repository

	// current is the HEAD id returned by the last ReadCurrent.
	current plumbing.Hash
}

// OpenGoGitStore opens the repository containing path.
func OpenGoGitStore(path string) (*GoGitStore, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if vainErrors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, vainErrors.Wrapf(vainErrors.ErrNotGitRepository, "%s", path)
		}
		return nil, vainErrors.NewGitError("open", []string{path}, err, "")
	}
	return NewGoGitStore(repo), nil
}

// NewGoGitStore wraps an already opened repository.
func NewGoGitStore(repo *gogit.Repository) *GoGitStore {
	return &GoGitStore{repo: repo}
}

// ReadCurrent implements CommitStore.ReadCurrent
func (s *GoGitStore) ReadCurrent(_ context.Context) ([]byte, string, error) {
	head, err := s.repo.Head()
	if err != nil {
		return nil, "", vainErrors.NewGitError("head", nil, err, "")
	}

	obj, err := s.repo.Storer.EncodedObject(plumbing.CommitObject, head.Hash())
	if err != nil {
		return nil, "", vainErrors.NewGitError("read-object", []string{head.Hash().String()}, err, "")
	}
	r, err := obj.Reader()
	if err != nil {
		return nil, "", vainErrors.NewGitError("read-object", []string{head.Hash().String()}, err, "")
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, "", vainErrors.NewGitError("read-object", []string{head.Hash().String()}, err, "")
	}

	s.current = head.Hash()
	return raw, head.Hash().String(), nil
}

// VerifyHash implements CommitStore.VerifyHash
func (s *GoGitStore) VerifyHash(_ context.Context, raw []byte) (string, error) {
	return plumbing.ComputeHash(plumbing.CommitObject, raw).String(), nil
}

// ReplaceCurrent implements CommitStore.ReplaceCurrent. The reference HEAD
// resolves to is compare-and-swapped against the id seen by ReadCurrent.
//
// go-git does not write reflogs, so unlike CLIStore no reflog entry records
// the move. The previous id is still printed by the miner and reported in
// its summary; `git fsck --lost-found` also finds the old commit until it is
// pruned.
func (s *GoGitStore) ReplaceCurrent(ctx context.Context, raw []byte, expected string) error {
	actual, err := s.VerifyHash(ctx, raw)
	if err != nil {
		return err
	}
	if err := checkExpected(expected, actual); err != nil {
		return err
	}

	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.CommitObject)
	w, err := obj.Writer()
	if err != nil {
		return vainErrors.NewGitError("write-object", nil, err, "")
	}
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return vainErrors.NewGitError("write-object", nil, err, "")
	}
	if err := w.Close(); err != nil {
		return vainErrors.NewGitError("write-object", nil, err, "")
	}

	id, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return vainErrors.NewGitError("write-object", nil, err, "")
	}
	if err := checkExpected(expected, id.String()); err != nil {
		return err
	}

	name := plumbing.HEAD
	head, err := s.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return vainErrors.NewGitError("update-ref", []string{"HEAD"}, err, "")
	}
	if head.Type() == plumbing.SymbolicReference {
		name = head.Target()
	}

	var old *plumbing.Reference
	if !s.current.IsZero() {
		old = plumbing.NewHashReference(name, s.current)
	}
	if err := s.repo.Storer.CheckAndSetReference(plumbing.NewHashReference(name, id), old); err != nil {
		return vainErrors.NewGitError("update-ref", []string{name.String(), id.String()}, err, "")
	}
	return nil
}

// DefaultPattern implements DefaultsReader. The repository's own setting
// wins over the user's global one, as with git config.
func (s *GoGitStore) DefaultPattern(_ context.Context) (string, error) {
	local, err := s.repo.Config()
	if err != nil {
		return "", vainErrors.Wrap(err, "failed to read vain.default")
	}
	if v := local.Raw.Section("vain").Option("default"); v != "" {
		return v, nil
	}

	// A missing or unreadable global config just means no default.
	global, err := s.repo.ConfigScoped(config.GlobalScope)
	if err != nil {
		return "", nil
	}
	return global.Raw.Section("vain").Option("default"), nil
}
