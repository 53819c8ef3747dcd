package bitable

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func createTestOptions() CreateOptions {
	return CreateOptions{PageSize: 4096, KeyAlignment: 4, ValueAlignment: 4}
}

func u32key(k uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, k)
	return b
}

func TestEmptyTable(t *testing.T) {
	base := filepath.Join(t.TempDir(), "empty")

	w, err := Create(base, createTestOptions())
	require.NoError(t, err)
	require.NoError(t, w.Close(CompletionNone))

	r, err := Open(base, OpenOptions{Comparator: FixedUint32Comparator})
	require.NoError(t, err)
	defer r.Close()

	_, err = r.First()
	require.ErrorIs(t, err, ErrEndOfSequence)

	stats := r.Stats()
	require.Equal(t, uint64(0), stats.ItemCount)
	require.Equal(t, uint32(0), stats.Depth)
	require.Equal(t, uint64(1), stats.LeafPages)
}

func TestSmallIntegerKeysRoundTripAndSearch(t *testing.T) {
	base := filepath.Join(t.TempDir(), "ints")

	w, err := Create(base, createTestOptions())
	require.NoError(t, err)

	const count = 4000
	for i := 0; i < count; i++ {
		k := uint32(i * 2)
		kb := u32key(k)
		require.NoError(t, w.Append(kb, kb))
	}
	require.NoError(t, w.Close(CompletionNone))

	r, err := Open(base, OpenOptions{Comparator: FixedUint32Comparator})
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, uint64(count), r.Stats().ItemCount)

	// Sequential scan visits every pair in order.
	cursor, err := r.First()
	require.NoError(t, err)

	seen := 0
	err = r.ForEach(cursor, func(key, value []byte) bool {
		want := uint32(seen * 2)
		require.Equal(t, want, binary.LittleEndian.Uint32(key))
		require.Equal(t, want, binary.LittleEndian.Uint32(value))
		seen++
		return true
	})
	require.NoError(t, err)
	require.Equal(t, count, seen)

	// find(EXACT) for every appended key returns the right indice.
	for i := 0; i < count; i++ {
		k := uint32(i * 2)
		c, err := r.Find(u32key(k), FindExact)
		require.NoError(t, err)
		indice, err := r.Indice(c)
		require.NoError(t, err)
		require.Equal(t, uint64(i), indice)
	}

	// Odd keys are never present; bound searches should straddle them.
	for i := 1; i < count-1; i += 2 {
		q := uint32(i * 2 + 1) // odd value strictly between two even keys
		lower, err := r.Find(u32key(q), FindLower)
		require.NoError(t, err)
		upper, err := r.Find(u32key(q), FindUpper)
		require.NoError(t, err)

		lowerKey, err := r.Key(lower)
		require.NoError(t, err)
		upperKey, err := r.Key(upper)
		require.NoError(t, err)

		require.Equal(t, q+1, binary.LittleEndian.Uint32(lowerKey))
		require.Equal(t, q-1, binary.LittleEndian.Uint32(upperKey))

		_, err = r.Find(u32key(q), FindExact)
		require.ErrorIs(t, err, ErrKeyNotFound)
	}

	// Out of range past the last key.
	_, err = r.Find(u32key(uint32(count*2)), FindLower)
	require.ErrorIs(t, err, ErrEndOfSequence)
}

func TestLargeValuesUseSideStore(t *testing.T) {
	base := filepath.Join(t.TempDir(), "large")

	w, err := Create(base, createTestOptions())
	require.NoError(t, err)

	const n = 300
	values := make([][]byte, n)
	for k := 0; k < n; k++ {
		value := make([]byte, 4*(k+1))
		for i := range value {
			value[i] = byte(i)
		}
		values[k] = value
		require.NoError(t, w.Append(u32key(uint32(k)), value))
	}
	require.NoError(t, w.Close(CompletionNone))

	stats := w.Stats()
	require.Greater(t, stats.LargeValueStoreSize, uint64(0))

	r, err := Open(base, OpenOptions{Comparator: FixedUint32Comparator})
	require.NoError(t, err)
	defer r.Close()

	cursor, err := r.First()
	require.NoError(t, err)

	k := 0
	err = r.ForEach(cursor, func(key, value []byte) bool {
		require.Equal(t, values[k], value)
		k++
		return true
	})
	require.NoError(t, err)
	require.Equal(t, n, k)
}

func TestBranchCascade(t *testing.T) {
	base := filepath.Join(t.TempDir(), "cascade")

	w, err := Create(base, CreateOptions{PageSize: MinPageSize, KeyAlignment: 4, ValueAlignment: 4})
	require.NoError(t, err)

	const count = 50000
	for i := 0; i < count; i++ {
		kb := u32key(uint32(i))
		require.NoError(t, w.Append(kb, kb))
	}
	require.NoError(t, w.Close(CompletionNone))

	stats := w.Stats()
	require.GreaterOrEqual(t, stats.Depth, uint32(2))

	r, err := Open(base, OpenOptions{Comparator: FixedUint32Comparator})
	require.NoError(t, err)
	defer r.Close()

	seenIndices := make(map[uint64]bool, count)
	for i := 0; i < count; i++ {
		c, err := r.Find(u32key(uint32(i)), FindExact)
		require.NoError(t, err)
		indice, err := r.Indice(c)
		require.NoError(t, err)
		require.False(t, seenIndices[indice])
		seenIndices[indice] = true
	}
	require.Len(t, seenIndices, count)
}

func TestDurableCloseOrdering(t *testing.T) {
	base := filepath.Join(t.TempDir(), "durable")

	w, err := Create(base, createTestOptions())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		kb := u32key(uint32(i))
		require.NoError(t, w.Append(kb, kb))
	}
	require.NoError(t, w.Close(CompletionDurable))

	// Truncating away the header must make the file unopenable, never a
	// partial success.
	require.NoError(t, os.Truncate(base, fileHeaderSize-1))
	_, err = Open(base, OpenOptions{})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrFileTooSmall) || errors.Is(err, ErrHeaderCorrupt))
}

func TestInvalidInputs(t *testing.T) {
	base := filepath.Join(t.TempDir(), "invalid")

	_, err := Create(base, CreateOptions{PageSize: 1024, KeyAlignment: 4, ValueAlignment: 4})
	require.ErrorIs(t, err, ErrPageSizeInvalid)

	_, err = Create(base, CreateOptions{PageSize: 4096, KeyAlignment: 3, ValueAlignment: 4})
	require.ErrorIs(t, err, ErrAlignmentInvalid)

	w, err := Create(base, createTestOptions())
	require.NoError(t, err)
	defer w.Close(CompletionDiscard)

	oversizedKey := make([]byte, 800)
	require.ErrorIs(t, w.Append(oversizedKey, []byte("v")), ErrKeyInvalid)

	require.NoError(t, w.Append(u32key(1), u32key(1)))
	require.NoError(t, w.Close(CompletionNone))

	r, err := Open(base, OpenOptions{Comparator: FixedUint32Comparator})
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Key(Cursor{Page: r.Stats().LeafPages, Item: 0})
	require.ErrorIs(t, err, ErrInvalidCursorLocation)
}

func TestNextPreviousAreInverse(t *testing.T) {
	base := filepath.Join(t.TempDir(), "inverse")

	w, err := Create(base, createTestOptions())
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		kb := u32key(uint32(i))
		require.NoError(t, w.Append(kb, kb))
	}
	require.NoError(t, w.Close(CompletionNone))

	r, err := Open(base, OpenOptions{Comparator: FixedUint32Comparator})
	require.NoError(t, err)
	defer r.Close()

	mid, err := r.Find(u32key(250), FindExact)
	require.NoError(t, err)

	next, err := r.Next(mid)
	require.NoError(t, err)
	back, err := r.Previous(next)
	require.NoError(t, err)
	require.Equal(t, mid, back)

	prev, err := r.Previous(mid)
	require.NoError(t, err)
	forward, err := r.Next(prev)
	require.NoError(t, err)
	require.Equal(t, mid, forward)
}
