package bitable

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator defines a total order over keys, consistent with the order
// pairs were appended in (§4.3, §9). The precondition is the caller's
// responsibility; a reader never verifies it.
type Comparator func(a, b []byte) int

// BytesComparator orders keys by raw byte value. It is the default
// comparator when OpenOptions.Comparator is nil.
func BytesComparator(a, b []byte) int {
	return bytes.Compare(a, b)
}

// FixedUint32Comparator orders 4-byte little-endian unsigned integer keys,
// matching the small-integer-key scenario in §8.
func FixedUint32Comparator(a, b []byte) int {
	x := binary.LittleEndian.Uint32(a)
	y := binary.LittleEndian.Uint32(b)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// FixedUint64Comparator orders 8-byte little-endian unsigned integer keys.
func FixedUint64Comparator(a, b []byte) int {
	x := binary.LittleEndian.Uint64(a)
	y := binary.LittleEndian.Uint64(b)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// NewCollatingComparator builds a Comparator that orders UTF-8 string keys
// according to lang's collation rules, for tables whose keys are meant to
// read as locale-aware text rather than raw bytes.
func NewCollatingComparator(lang language.Tag) Comparator {
	col := collate.New(lang)
	return func(a, b []byte) int {
		return col.Compare(a, b)
	}
}
