// Package buffer provides a bounded string writer over a caller-owned
// byte region.
//
// # Design Rationale
//
// Account lookups hand results back through a fixed-size buffer supplied
// by the caller, following the C library convention where the string
// fields of a result struct point into that buffer. The writer carves
// null-terminated strings out of the region front to back and keeps an
// exact count of the bytes left, so a result either fits completely or
// fails cleanly with ErrCapacity before anything outside the region is
// touched. Space is never returned: the caller discards the whole region
// and retries with a larger one.
package buffer

import (
	"errors"
	"fmt"
)

// ErrCapacity reports that the region has too few free bytes for the
// requested write. The writer state is unchanged; the caller retries the
// whole lookup with a larger region.
var ErrCapacity = errors.New("buffer: insufficient capacity")

// Writer carves null-terminated strings out of a single fixed region.
// Writes are monotonic: space is taken from the free suffix and never
// reclaimed. A Writer is not safe for concurrent use; each lookup
// session owns its own.
type Writer struct {
	region []byte
	used   int
}

// NewWriter wraps region. The writer never grows or reallocates it.
func NewWriter(region []byte) *Writer {
	return &Writer{region: region}
}

// AppendString copies s plus a null terminator into the free suffix and
// returns the slice holding s (terminator excluded). The returned slice
// aliases the region and stays valid for the region's lifetime. If fewer
// than len(s)+1 bytes are free, nothing is written, the free count is
// unchanged, and ErrCapacity is returned.
func (w *Writer) AppendString(s string) ([]byte, error) {
	need := len(s) + 1
	if !w.Fits(need) {
		return nil, fmt.Errorf("%w: need %d bytes, %d free", ErrCapacity, need, w.Free())
	}
	dst := w.Reserve(need)
	copy(dst, s)
	dst[len(s)] = 0
	return dst[:len(s)], nil
}

// Reserve takes n bytes from the free suffix and returns them unwritten.
// Callers must establish that n fits (via Fits or a prior AppendString
// accounting) before reserving: over-reserving is an internal
// consistency fault and panics rather than writing out of bounds.
func (w *Writer) Reserve(n int) []byte {
	if n < 0 || n > w.Free() {
		panic(fmt.Sprintf("buffer: reserve of %d bytes with %d free", n, w.Free()))
	}
	out := w.region[w.used : w.used+n]
	w.used += n
	return out
}

// Reset returns the whole region to the free state so the next record
// can reuse it. Slices handed out by earlier writes still alias the
// region and must not be read after a Reset.
func (w *Writer) Reset() {
	w.used = 0
}

// Fits reports whether n more bytes can be reserved.
func (w *Writer) Fits(n int) bool {
	return n >= 0 && n <= w.Free()
}

// Free returns the exact number of bytes still available.
func (w *Writer) Free() int {
	return len(w.region) - w.used
}

// Used returns the number of bytes reserved so far.
func (w *Writer) Used() int {
	return w.used
}

// Cap returns the total size of the region.
func (w *Writer) Cap() int {
	return len(w.region)
}
