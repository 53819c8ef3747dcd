package bitable

// This file implements the dual-region page codec (C2, §4.1): a leaf or
// branch page's header and fixed-width index array grow from the left of a
// page-sized buffer, while variable-length payload bytes grow from the
// right. The builder types below are the write side, used while a page is
// still being assembled in memory; the accessor functions below them are
// the read side, operating directly on a page-sized window into mapped
// memory with no copying.

// leafPageBuilder assembles one leaf page. It owns a page-sized buffer that
// is reset and reused across pages rather than reallocated, mirroring the
// teacher's per-level persistent buffer (one BufferedFile per level, never
// freed until close).
type leafPageBuilder struct {
	buf        []byte
	pageSize   uint32
	leftSize   uint32
	rightSize  uint32
	itemCount  int32
	baseIndice uint64
}

func newLeafPageBuilder(pageSize uint32) *leafPageBuilder {
	b := &leafPageBuilder{
		buf:      make([]byte, pageSize),
		pageSize: pageSize,
	}
	b.reset(0)
	return b
}

// reset clears the builder back to an empty page starting at baseIndice.
func (b *leafPageBuilder) reset(baseIndice uint64) {
	for i := range b.buf {
		b.buf[i] = 0
	}
	b.leftSize = leafHeaderSize
	b.rightSize = 0
	b.itemCount = 0
	b.baseIndice = baseIndice
}

// planAppend computes the sizes an append of (keySize, valueSize) would
// require, per §4.2 steps 1-3, without mutating the builder.
func (b *leafPageBuilder) planAppend(keySize uint16, valueSize uint32, keyAlignment, valueAlignment uint32) (newLeft, newKeyAlloc, newRight uint32) {
	newLeft = b.leftSize + leafIndexSize
	newKeyAlloc = align(b.rightSize+uint32(keySize), keyAlignment)

	if valueSize <= MaxKeySize {
		newRight = align(newKeyAlloc+valueSize, valueAlignment)
	} else {
		newRight = align(newKeyAlloc+largeValueOffsize, largeValueOffsize)
	}

	return newLeft, newKeyAlloc, newRight
}

// fits reports whether newLeft+newRight bytes stay within the page.
func (b *leafPageBuilder) fits(newLeft, newRight uint32) bool {
	return newLeft+newRight <= b.pageSize
}

// appendInline writes key and an inline value into the allocation planned
// by planAppend, then records the index entry. dataSize is the true value
// size (used for the stored index even though the payload is padded).
func (b *leafPageBuilder) appendInline(key, value []byte, newLeft, newKeyAlloc, newRight uint32) {
	keyOffset := b.pageSize - newKeyAlloc
	copy(b.buf[keyOffset:], key)

	if len(value) > 0 {
		valueOffset := b.pageSize - newRight
		copy(b.buf[valueOffset:], value)
	}

	b.putIndex(uint16(len(key)), uint32(len(value)), uint16(keyOffset))
	b.leftSize = newLeft
	b.rightSize = newRight
}

// appendOutOfLine writes key and an 8-byte large-value-store offset into
// the allocation planned by planAppend.
func (b *leafPageBuilder) appendOutOfLine(key []byte, dataSize uint32, largeValueOffset uint64, newLeft, newKeyAlloc, newRight uint32) {
	keyOffset := b.pageSize - newKeyAlloc
	copy(b.buf[keyOffset:], key)

	slotOffset := b.pageSize - newRight
	putUint64(b.buf, slotOffset, largeValueOffset)

	b.putIndex(uint16(len(key)), dataSize, uint16(keyOffset))
	b.leftSize = newLeft
	b.rightSize = newRight
}

func (b *leafPageBuilder) putIndex(keySize uint16, dataSize uint32, itemOffset uint16) {
	off := leafHeaderSize + uint32(b.itemCount)*leafIndexSize
	putUint32(b.buf, off, dataSize)
	putUint16(b.buf, off+4, keySize)
	putUint16(b.buf, off+6, itemOffset)
	b.itemCount++
}

// bytes finalizes the header fields and returns the page buffer, ready to
// write to disk.
func (b *leafPageBuilder) bytes() []byte {
	putUint64(b.buf, 0, b.baseIndice)
	putUint32(b.buf, 8, uint32(b.itemCount))
	return b.buf
}

// branchPageBuilder assembles one branch page.
type branchPageBuilder struct {
	buf            []byte
	pageSize       uint32
	leftSize       uint32
	rightSize      uint32
	itemCount      uint16
	firstChildPage uint64
}

func newBranchPageBuilder(pageSize uint32) *branchPageBuilder {
	b := &branchPageBuilder{
		buf:      make([]byte, pageSize),
		pageSize: pageSize,
	}
	return b
}

// startLevel resets the builder for a brand-new branch level: two children
// are already implied (the pre-existing first page of the level below, and
// the page that just overflowed and triggered this level's creation), with
// one separator key for the second child.
func (b *branchPageBuilder) startLevel(key []byte, keyAlignment uint32) {
	for i := range b.buf {
		b.buf[i] = 0
	}

	b.firstChildPage = 0
	b.itemCount = 2
	b.leftSize = branchHeaderSize + branchIndexSize
	b.rightSize = align(uint32(len(key)), keyAlignment)

	keyOffset := b.pageSize - b.rightSize
	copy(b.buf[keyOffset:], key)
	putUint16(b.buf, branchHeaderSize, uint16(len(key)))
	putUint16(b.buf, branchHeaderSize+2, uint16(keyOffset))
}

// startGroup resets the builder to continue a level after a flush: one
// child so far (no separator yet), base child page advanced by the
// previous group's child count.
func (b *branchPageBuilder) startGroup(firstChildPage uint64) {
	for i := range b.buf {
		b.buf[i] = 0
	}

	b.firstChildPage = firstChildPage
	b.itemCount = 1
	b.leftSize = branchHeaderSize
	b.rightSize = 0
}

// planSeparator computes the sizes appending one more separator key would
// require.
func (b *branchPageBuilder) planSeparator(keySize uint16, keyAlignment uint32) (newLeft, newRight uint32) {
	newLeft = b.leftSize + branchIndexSize
	newRight = align(b.rightSize+uint32(keySize), keyAlignment)
	return newLeft, newRight
}

func (b *branchPageBuilder) fits(newLeft, newRight uint32) bool {
	return newLeft+newRight <= b.pageSize
}

// appendSeparator writes one more separator key and grows childPageCount's
// companion itemCount by one.
func (b *branchPageBuilder) appendSeparator(key []byte, newLeft, newRight uint32) {
	keyOffset := b.pageSize - newRight
	copy(b.buf[keyOffset:], key)

	idx := branchHeaderSize + uint32(b.itemCount-1)*branchIndexSize
	putUint16(b.buf, idx, uint16(len(key)))
	putUint16(b.buf, idx+2, uint16(keyOffset))

	b.itemCount++
	b.leftSize = newLeft
	b.rightSize = newRight
}

func (b *branchPageBuilder) bytes() []byte {
	putUint64(b.buf, 0, b.firstChildPage)
	putUint16(b.buf, 8, b.itemCount)
	return b.buf
}

// --- read side: pure accessors over a page-sized window into mapped memory ---

func leafBaseIndice(page []byte) uint64 {
	return getUint64(page, 0)
}

func leafItemCount(page []byte) int32 {
	return int32(getUint32(page, 8))
}

func leafIndexEntry(page []byte, item int32) (dataSize uint32, keySize, itemOffset uint16) {
	off := leafHeaderSize + uint32(item)*leafIndexSize
	return getUint32(page, off), getUint16(page, off+4), getUint16(page, off+6)
}

func branchFirstChild(page []byte) uint64 {
	return getUint64(page, 0)
}

func branchItemCount(page []byte) uint16 {
	return getUint16(page, 8)
}

func branchIndexEntry(page []byte, index int) (keySize, itemOffset uint16) {
	off := branchHeaderSize + uint32(index)*branchIndexSize
	return getUint16(page, off), getUint16(page, off+2)
}
