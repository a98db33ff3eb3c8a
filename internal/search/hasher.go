package search

import (
	"crypto/sha1"
	"encoding"
	"hash"
	"strconv"

	"github.com/bashhack/gitvain/internal/commit"
	vainErrors "github.com/bashhack/gitvain/internal/errors"
)

// Hasher holds SHA-1 state already advanced over the constant head of a
// commit object: the "commit <len>\x00" header and the template prefix. It is
// immutable and shared by all probes.
type Hasher struct {
	tmpl  *commit.Template
	state []byte

	// tail is the variable part of the object with the original digits;
	// probes copy it and overwrite the digits in place.
	tail        []byte
	committerAt int
}

// NewHasher precomputes the hash state for t.
func NewHasher(t *commit.Template) (*Hasher, error) {
	h := sha1.New()
	h.Write([]byte("commit "))
	h.Write([]byte(strconv.Itoa(t.Len())))
	h.Write([]byte{0})
	h.Write(t.Prefix())

	m, ok := h.(encoding.BinaryMarshaler)
	if !ok {
		return nil, vainErrors.New("sha1 state cannot be snapshotted")
	}
	state, err := m.MarshalBinary()
	if err != nil {
		return nil, vainErrors.Wrap(err, "failed to snapshot sha1 state")
	}

	tail := make([]byte, t.Author.Width, t.Len()-len(t.Prefix()))
	if err := t.Author.Put(tail, 0); err != nil {
		return nil, err
	}
	tail = append(tail, t.Middle()...)
	committerAt := len(tail)
	tail = tail[:committerAt+t.Committer.Width]
	if err := t.Committer.Put(tail[committerAt:], 0); err != nil {
		return nil, err
	}
	tail = append(tail, t.Suffix()...)

	return &Hasher{
		tmpl:        t,
		state:       state,
		tail:        tail,
		committerAt: committerAt,
	}, nil
}

// Template returns the template this hasher was built from.
func (h *Hasher) Template() *commit.Template {
	return h.tmpl
}

// Sum hashes a single candidate. Workers use a Probe instead.
func (h *Hasher) Sum(off commit.Offset) (Digest, error) {
	var d Digest
	err := h.NewProbe().Digest(off, &d)
	return d, err
}

// Probe is a single worker's hashing context. It is not safe for concurrent
// use; every worker owns one.
type Probe struct {
	h       *Hasher
	hash    hash.Hash
	restore encoding.BinaryUnmarshaler
	tail    []byte
	sum     []byte
}

// NewProbe returns a probe with its own hash instance and tail buffer.
func (h *Hasher) NewProbe() *Probe {
	s := sha1.New()
	return &Probe{
		h:       h,
		hash:    s,
		restore: s.(encoding.BinaryUnmarshaler),
		tail:    append([]byte(nil), h.tail...),
		sum:     make([]byte, 0, sha1.Size),
	}
}

// Digest computes the object id of the commit shifted by off into out.
// It returns ErrTimestampWidth, leaving out untouched, when either shifted
// timestamp would change its digit width.
func (p *Probe) Digest(off commit.Offset, out *Digest) error {
	t := p.h.tmpl
	if err := t.Author.Put(p.tail, off.Author); err != nil {
		return err
	}
	if err := t.Committer.Put(p.tail[p.h.committerAt:], off.Committer); err != nil {
		return err
	}

	if err := p.restore.UnmarshalBinary(p.h.state); err != nil {
		return vainErrors.Wrap(err, "failed to restore sha1 state")
	}
	p.hash.Write(p.tail)
	p.sum = p.hash.Sum(p.sum[:0])
	copy(out[:], p.sum)
	return nil
}
