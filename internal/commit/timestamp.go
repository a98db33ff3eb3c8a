package commit

import (
	"strconv"

	vainErrors "github.com/bashhack/gitvain/internal/errors"
)

// maxWidth keeps every rendered value inside int64.
const maxWidth = 18

// Timestamp is a unix time that must always be rendered with the same number
// of decimal digits it had in the original commit. Changing the width would
// change the object length, so a shifted value that no longer fits is an
// error rather than a different rendering.
type Timestamp struct {
	Value int64
	Width int
}

// NewTimestamp returns the Timestamp for value with its natural decimal width.
func NewTimestamp(value int64) Timestamp {
	return Timestamp{Value: value, Width: len(strconv.FormatInt(value, 10))}
}

// bounds returns the smallest and largest values with exactly t.Width digits.
func (t Timestamp) bounds() (int64, int64) {
	hi := int64(1)
	for i := 0; i < t.Width; i++ {
		hi *= 10
	}
	lo := hi / 10
	if t.Width == 1 {
		lo = 0
	}
	return lo, hi - 1
}

// Fits reports whether Value+delta still renders with exactly Width digits.
func (t Timestamp) Fits(delta int64) bool {
	if t.Width < 1 || t.Width > maxWidth {
		return false
	}
	lo, hi := t.bounds()
	v := t.Value + delta
	return v >= lo && v <= hi
}

// Shift returns the timestamp moved by delta seconds, keeping its width.
func (t Timestamp) Shift(delta int64) (Timestamp, error) {
	if !t.Fits(delta) {
		return t, vainErrors.Wrapf(vainErrors.ErrTimestampWidth, "%d%+d does not fit in %d digits", t.Value, delta, t.Width)
	}
	return Timestamp{Value: t.Value + delta, Width: t.Width}, nil
}

// Put writes Value+delta into dst[:Width] as decimal digits. dst is left
// untouched when the value does not fit.
func (t Timestamp) Put(dst []byte, delta int64) error {
	if !t.Fits(delta) {
		return vainErrors.ErrTimestampWidth
	}
	if len(dst) < t.Width {
		return vainErrors.Errorf("timestamp buffer holds %d bytes, need %d", len(dst), t.Width)
	}
	v := t.Value + delta
	for i := t.Width - 1; i >= 0; i-- {
		dst[i] = byte('0' + v%10)
		v /= 10
	}
	return nil
}

// String renders the timestamp value.
func (t Timestamp) String() string {
	return strconv.FormatInt(t.Value, 10)
}
