package commit

import (
	"bytes"

	vainErrors "github.com/bashhack/gitvain/internal/errors"
)

// Offset is a pair of second offsets applied to the author and committer
// timestamps of a commit.
type Offset struct {
	Author    int64
	Committer int64
}

// Template is an immutable view of a raw commit object split around its two
// timestamps:
//
//	prefix | author digits | middle | committer digits | suffix
//
// prefix, middle and suffix alias the original buffer.
type Template struct {
	raw []byte

	prefix []byte
	middle []byte
	suffix []byte

	Author    Timestamp
	Committer Timestamp
}

// field locates the timestamp digits of one identity header line
type field struct {
	name       string
	start, end int
	value      int64
}

// Parse splits raw commit bytes (the content of `git cat-file commit`, without
// the object header) into a Template.
func Parse(raw []byte) (*Template, error) {
	header := raw
	if i := bytes.Index(raw, []byte("\n\n")); i >= 0 {
		header = raw[:i+1]
	}

	author, err := findTimestamp(raw, header, "author")
	if err != nil {
		return nil, err
	}
	committer, err := findTimestamp(raw, header, "committer")
	if err != nil {
		return nil, err
	}
	if committer.start < author.end {
		return nil, vainErrors.NewParseError("committer",
			vainErrors.Wrap(vainErrors.ErrMalformedTimestamp, "committer line precedes author line"))
	}

	return &Template{
		raw:       raw,
		prefix:    raw[:author.start],
		middle:    raw[author.end:committer.start],
		suffix:    raw[committer.end:],
		Author:    Timestamp{Value: author.value, Width: author.end - author.start},
		Committer: Timestamp{Value: committer.value, Width: committer.end - committer.start},
	}, nil
}

// findTimestamp finds the "<name> " header line and the digits that follow its
// last "> " separator.
func findTimestamp(raw, header []byte, name string) (field, error) {
	marker := []byte(name + " ")

	lineStart := -1
	for pos := 0; pos < len(header); {
		if bytes.HasPrefix(header[pos:], marker) {
			lineStart = pos
			break
		}
		next := bytes.IndexByte(header[pos:], '\n')
		if next < 0 {
			break
		}
		pos += next + 1
	}
	if lineStart < 0 {
		return field{}, vainErrors.NewParseError(name, vainErrors.ErrMissingTimestampField)
	}

	lineEnd := len(header)
	if i := bytes.IndexByte(header[lineStart:], '\n'); i >= 0 {
		lineEnd = lineStart + i
	}

	line := raw[lineStart:lineEnd]
	sep := bytes.LastIndex(line, []byte("> "))
	if sep < 0 {
		return field{}, vainErrors.NewParseError(name,
			vainErrors.Wrap(vainErrors.ErrMalformedTimestamp, "no \"> \" before timestamp"))
	}

	start := lineStart + sep + 2
	end := start
	var value int64
	for end < lineEnd && raw[end] >= '0' && raw[end] <= '9' {
		value = value*10 + int64(raw[end]-'0')
		end++
		if end-start > maxWidth {
			return field{}, vainErrors.NewParseError(name,
				vainErrors.Wrap(vainErrors.ErrMalformedTimestamp, "timestamp too long"))
		}
	}

	switch {
	case end == start:
		return field{}, vainErrors.NewParseError(name,
			vainErrors.Wrap(vainErrors.ErrMalformedTimestamp, "no digits"))
	case end-start > 1 && raw[start] == '0':
		return field{}, vainErrors.NewParseError(name,
			vainErrors.Wrap(vainErrors.ErrMalformedTimestamp, "leading zero"))
	case end < lineEnd && raw[end] != ' ':
		return field{}, vainErrors.NewParseError(name,
			vainErrors.Wrapf(vainErrors.ErrMalformedTimestamp, "unexpected %q after digits", raw[end]))
	}

	return field{name: name, start: start, end: end, value: value}, nil
}

// Prefix returns the bytes before the author timestamp.
func (t *Template) Prefix() []byte { return t.prefix }

// Middle returns the bytes between the two timestamps.
func (t *Template) Middle() []byte { return t.middle }

// Suffix returns the bytes after the committer timestamp, message included.
func (t *Template) Suffix() []byte { return t.suffix }

// Raw returns the original commit bytes.
func (t *Template) Raw() []byte { return t.raw }

// Len is the length of every commit rendered from this template.
func (t *Template) Len() int {
	return len(t.prefix) + t.Author.Width + len(t.middle) + t.Committer.Width + len(t.suffix)
}

// TimestampDigitWidth returns the digit width of the author timestamp.
func (t *Template) TimestampDigitWidth() int {
	return t.Author.Width
}

// Signed reports whether the commit carries a signature header that a rewrite
// would invalidate.
func (t *Template) Signed() bool {
	header := t.raw
	if i := bytes.Index(header, []byte("\n\n")); i >= 0 {
		header = header[:i+1]
	}
	return bytes.Contains(header, []byte("\ngpgsig ")) || bytes.Contains(header, []byte("\ngpgsig-sha256 "))
}

// Render returns a new commit with both timestamps shifted by off.
func (t *Template) Render(off Offset) ([]byte, error) {
	out := make([]byte, 0, t.Len())
	out = append(out, t.prefix...)

	at := len(out)
	out = out[:at+t.Author.Width]
	if err := t.Author.Put(out[at:], off.Author); err != nil {
		return nil, vainErrors.Wrapf(err, "author %d%+d", t.Author.Value, off.Author)
	}
	out = append(out, t.middle...)

	at = len(out)
	out = out[:at+t.Committer.Width]
	if err := t.Committer.Put(out[at:], off.Committer); err != nil {
		return nil, vainErrors.Wrapf(err, "committer %d%+d", t.Committer.Value, off.Committer)
	}
	return append(out, t.suffix...), nil
}
