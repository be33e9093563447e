// Package charbuf provides a random-access, length-bounded source of code
// points with a monotone cursor.
//
// It is the input type the match driver scans: a finite, indexable
// sequence of runes rather than a streaming reader, matching the spec's
// requirement that the engine be single-pass in input position without
// needing to be a streaming reader itself.
package charbuf

import (
	"sync"
	"unicode/utf8"
)

// Buffer is a random-access sequence of code points decoded once up front.
//
// A Buffer is immutable after construction and safe for concurrent reads
// from multiple goroutines (the match driver never mutates it).
type Buffer struct {
	runes []rune

	// byteOffsets[i] is the byte offset of runes[i] in the original UTF-8
	// text. byteOffsets[len(runes)] is the total byte length. Populated
	// lazily: only prefilters that need to drive a []byte-oriented
	// library (the Aho-Corasick automaton) ever touch it.
	byteOffsets []int
	offsetsOnce sync.Once
	text        string
}

// New decodes s into a Buffer of code points.
func New(s string) *Buffer {
	return &Buffer{runes: []rune(s), text: s}
}

// FromRunes wraps an already-decoded rune slice without copying.
// Callers MUST NOT mutate runes after passing it to FromRunes.
func FromRunes(runes []rune) *Buffer {
	return &Buffer{runes: runes}
}

// Len returns the number of code points in the buffer.
func (b *Buffer) Len() int {
	return len(b.runes)
}

// At returns the code point at index i. It panics if i is out of range,
// matching slice semantics rather than returning a sentinel the caller
// might confuse with a real code point.
func (b *Buffer) At(i int) rune {
	return b.runes[i]
}

// Slice returns the code points in [start, end) as a string.
func (b *Buffer) Slice(start, end int) string {
	return string(b.runes[start:end])
}

// Runes returns the underlying rune slice. Callers MUST NOT mutate it.
func (b *Buffer) Runes() []rune {
	return b.runes
}

// Bytes returns the UTF-8 encoding of the whole buffer, building it lazily
// from text if the Buffer was constructed with New, or by re-encoding the
// rune slice otherwise.
func (b *Buffer) Bytes() []byte {
	if b.text != "" || len(b.runes) == 0 {
		return []byte(b.text)
	}
	return []byte(string(b.runes))
}

// ensureOffsets builds the rune-index -> byte-offset table on first use.
func (b *Buffer) ensureOffsets() {
	b.offsetsOnce.Do(func() {
		offsets := make([]int, len(b.runes)+1)
		off := 0
		for i, r := range b.runes {
			offsets[i] = off
			off += utf8.RuneLen(r)
		}
		offsets[len(b.runes)] = off
		b.byteOffsets = offsets
	})
}

// ByteOffset returns the byte offset of the rune at index i (or the total
// byte length when i == Len()).
func (b *Buffer) ByteOffset(i int) int {
	b.ensureOffsets()
	return b.byteOffsets[i]
}

// RuneIndex returns the rune index whose ByteOffset is the largest value
// <= byteOff. Used to translate a byte-oriented prefilter's match span
// back into code-point coordinates.
func (b *Buffer) RuneIndex(byteOff int) int {
	b.ensureOffsets()
	// Binary search over the monotone offset table; this only runs once
	// per prefilter candidate, never per input position.
	lo, hi := 0, len(b.byteOffsets)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if b.byteOffsets[mid] <= byteOff {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
