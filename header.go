package bitable

// fileHeader is the file-set header stored at byte 0 of the leaf file,
// overwriting the first leaf page slot (§3, §4.4).
type fileHeader struct {
	marker              uint64
	itemCount           uint64
	checksum            uint64
	largeValueStoreSize uint64
	depth               uint32
	keyAlignment        uint32
	valueAlignment      uint32
	pageSize            uint32
	leafPages           uint64
}

// headerChecksum computes the positional rolling hash over h's fields,
// treating the checksum field itself as zero (§3). The multiplier and
// field order are part of the on-disk format and must not change.
func headerChecksum(h *fileHeader) uint64 {
	sum := h.marker
	sum = sum*37 + h.itemCount
	sum = sum*37 + h.largeValueStoreSize
	sum = sum*37 + uint64(h.depth)
	sum = sum*37 + uint64(h.keyAlignment)
	sum = sum*37 + uint64(h.valueAlignment)
	sum = sum*37 + uint64(h.pageSize)
	sum = sum*37 + h.leafPages
	return sum
}

// encodeHeader writes h into the first fileHeaderSize bytes of buf.
func encodeHeader(buf []byte, h *fileHeader) {
	putUint64(buf, 0, h.marker)
	putUint64(buf, 8, h.itemCount)
	putUint64(buf, 16, h.checksum)
	putUint64(buf, 24, h.largeValueStoreSize)
	putUint32(buf, 32, h.depth)
	putUint32(buf, 36, h.keyAlignment)
	putUint32(buf, 40, h.valueAlignment)
	putUint32(buf, 44, h.pageSize)
	putUint64(buf, 48, h.leafPages)
}

// decodeHeader reads and validates a fileHeader from the start of buf,
// rejecting a short buffer, a wrong marker, or a failed checksum (§4.1,
// §4.3 step 3).
func decodeHeader(buf []byte) (*fileHeader, error) {
	if len(buf) < fileHeaderSize {
		return nil, ErrFileTooSmall
	}

	h := &fileHeader{
		marker:              getUint64(buf, 0),
		itemCount:           getUint64(buf, 8),
		checksum:            getUint64(buf, 16),
		largeValueStoreSize: getUint64(buf, 24),
		depth:               getUint32(buf, 32),
		keyAlignment:        getUint32(buf, 36),
		valueAlignment:      getUint32(buf, 40),
		pageSize:            getUint32(buf, 44),
		leafPages:           getUint64(buf, 48),
	}

	if h.marker != headerMarker {
		return nil, ErrHeaderCorrupt
	}

	want := h.checksum
	h.checksum = 0
	got := headerChecksum(h)
	h.checksum = want

	if got != want {
		return nil, ErrHeaderCorrupt
	}

	return h, nil
}
