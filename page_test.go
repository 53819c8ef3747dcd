package bitable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLeafPageBuilderInlineRoundTrip(t *testing.T) {
	const pageSize = 4096
	b := newLeafPageBuilder(pageSize)
	b.reset(1000)

	items := []struct {
		key, value []byte
	}{
		{[]byte("alpha"), []byte("1")},
		{[]byte("bravo"), []byte("22")},
		{[]byte("charlie"), []byte("333")},
	}

	for _, it := range items {
		newLeft, newKeyAlloc, newRight := b.planAppend(uint16(len(it.key)), uint32(len(it.value)), 4, 4)
		require.True(t, b.fits(newLeft, newRight))
		b.appendInline(it.key, it.value, newLeft, newKeyAlloc, newRight)
	}

	page := b.bytes()

	require.Equal(t, uint64(1000), leafBaseIndice(page))
	require.Equal(t, int32(len(items)), leafItemCount(page))

	for i, it := range items {
		dataSize, keySize, itemOffset := leafIndexEntry(page, int32(i))
		require.Equal(t, uint32(len(it.value)), dataSize)
		require.Equal(t, uint16(len(it.key)), keySize)

		gotKey := page[itemOffset : uint32(itemOffset)+uint32(keySize)]
		require.Equal(t, it.key, gotKey)

		dataFromRight := uint32(pageSize) - uint32(itemOffset)
		valueOffset := uint32(pageSize) - align(dataFromRight+dataSize, 4)
		gotValue := page[valueOffset : valueOffset+dataSize]
		require.Equal(t, it.value, gotValue)
	}
}

func TestLeafPageBuilderOutOfLineRoundTrip(t *testing.T) {
	const pageSize = 2048
	b := newLeafPageBuilder(pageSize)
	b.reset(0)

	key := []byte("k")
	const dataSize = 10000
	const lvsOffset = 4096

	newLeft, newKeyAlloc, newRight := b.planAppend(uint16(len(key)), dataSize, 4, 4)
	b.appendOutOfLine(key, dataSize, lvsOffset, newLeft, newKeyAlloc, newRight)

	page := b.bytes()
	gotDataSize, keySize, itemOffset := leafIndexEntry(page, 0)
	require.Equal(t, uint32(dataSize), gotDataSize)

	gotKey := page[itemOffset : uint32(itemOffset)+uint32(keySize)]
	require.Equal(t, key, gotKey)

	dataFromRight := uint32(pageSize) - uint32(itemOffset)
	slotOffset := uint32(pageSize) - align(dataFromRight+largeValueOffsize, largeValueOffsize)
	gotOffset := getUint64(page, slotOffset)
	require.Equal(t, uint64(lvsOffset), gotOffset)
}

func TestBranchPageBuilderRoundTrip(t *testing.T) {
	const pageSize = 2048
	b := newBranchPageBuilder(pageSize)
	b.startLevel([]byte("mango"), 4)

	require.Equal(t, uint64(0), branchFirstChild(b.bytes()))
	require.Equal(t, uint16(2), branchItemCount(b.bytes()))

	newLeft, newRight := b.planSeparator(uint16(len("papaya")), 4)
	b.appendSeparator([]byte("papaya"), newLeft, newRight)

	page := b.bytes()
	require.Equal(t, uint16(3), branchItemCount(page))

	keySize, itemOffset := branchIndexEntry(page, 0)
	require.Equal(t, []byte("mango"), page[itemOffset:uint32(itemOffset)+uint32(keySize)])

	keySize, itemOffset = branchIndexEntry(page, 1)
	require.Equal(t, []byte("papaya"), page[itemOffset:uint32(itemOffset)+uint32(keySize)])
}
