package bitable

import (
	"errors"

	"go.uber.org/zap"
)

// errClosedWriter is wrapped together with ErrFileOperationFailed when
// Append is called after Close.
var errClosedWriter = errors.New("writer is closed")

// CreateOptions configures Create, mirroring the teacher's options-struct
// convention (one literal at the call site) rather than a long positional
// argument list.
type CreateOptions struct {
	PageSize       uint32
	KeyAlignment   uint32
	ValueAlignment uint32

	// Logger receives structured build events. Defaults to a no-op logger.
	Logger *zap.Logger

	// BufferPool overrides the pooled zero-buffer source used for
	// large-value-store padding writes. Nil uses a pool sized to PageSize.
	BufferPool *zeroBufferPool
}

// Writer is a single-pass bulk builder (C4, §4.2). Create returns a Writer
// already allocated and created against basePath; append pairs in strictly
// ascending key order, then Close to finalize the file set.
//
// A Writer is single-producer: the caller must serialize all Append/Close
// calls (§5).
type Writer struct {
	basePath       string
	paths          Paths
	pageSize       uint32
	keyAlignment   uint32
	valueAlignment uint32
	logger         *zap.Logger
	bufPool        *zeroBufferPool

	leafFile  WritableFile
	leaf      *leafPageBuilder
	leafPages uint64
	itemCount uint64

	branchFiles [MaxBranchLevels]WritableFile
	branch      [MaxBranchLevels]*branchPageBuilder
	childCount  [MaxBranchLevels]uint64
	depth       uint32

	lvsFile WritableFile
	lvsSize uint64

	closed bool
}

// Create allocates and creates a new table at basePath (§6 allocate+create
// collapsed into one constructor, the idiomatic Go shape for a type with no
// useful zero value).
func Create(basePath string, options CreateOptions) (*Writer, error) {
	if basePath == "" {
		return nil, ErrBadPath
	}
	if !isPowerOfTwo(options.PageSize) || options.PageSize < MinPageSize || options.PageSize > MaxPageSize {
		return nil, ErrPageSizeInvalid
	}
	if !isPowerOfTwo(options.KeyAlignment) || options.KeyAlignment > MaxAlignment {
		return nil, ErrAlignmentInvalid
	}
	if !isPowerOfTwo(options.ValueAlignment) || options.ValueAlignment > MaxAlignment {
		return nil, ErrAlignmentInvalid
	}

	leafFile, err := createWritableFile(basePath)
	if err != nil {
		return nil, err
	}

	w := &Writer{
		basePath:       basePath,
		paths:          BuildPaths(basePath),
		pageSize:       options.PageSize,
		keyAlignment:   options.KeyAlignment,
		valueAlignment: options.ValueAlignment,
		logger:         nopLogger(options.Logger),
		bufPool:        options.BufferPool,
		leafFile:       leafFile,
		leaf:           newLeafPageBuilder(options.PageSize),
	}
	if w.bufPool == nil {
		w.bufPool = newZeroBufferPool(options.PageSize)
	}

	// Reserve the first page-sized slot; the header overwrites its leading
	// fileHeaderSize bytes at Close (§3, §4.4).
	if _, err := leafFile.Write(make([]byte, options.PageSize)); err != nil {
		leafFile.Close()
		return nil, err
	}

	w.logger.Info("table created",
		zap.String("path", basePath),
		zap.Uint32("pageSize", options.PageSize),
		zap.Uint32("keyAlignment", options.KeyAlignment),
		zap.Uint32("valueAlignment", options.ValueAlignment),
	)

	return w, nil
}

// Append adds one key/value pair. Keys must arrive in non-decreasing order
// under the reader's eventual comparator; the writer does not verify this
// (§4.2).
func (w *Writer) Append(key, value []byte) error {
	if w.closed {
		return opError("append", ErrFileOperationFailed, errClosedWriter)
	}
	if len(key) > MaxKeySize {
		return ErrKeyInvalid
	}

	newLeft, newKeyAlloc, newRight := w.leaf.planAppend(uint16(len(key)), uint32(len(value)), w.keyAlignment, w.valueAlignment)

	if !w.leaf.fits(newLeft, newRight) {
		if err := w.flushLeaf(); err != nil {
			return err
		}
		if err := w.addPageToBranch(key, 0); err != nil {
			return err
		}

		w.leaf.reset(w.itemCount)
		newLeft, newKeyAlloc, newRight = w.leaf.planAppend(uint16(len(key)), uint32(len(value)), w.keyAlignment, w.valueAlignment)
	}

	if uint32(len(value)) <= MaxKeySize {
		w.leaf.appendInline(key, value, newLeft, newKeyAlloc, newRight)
	} else {
		offset, err := w.appendLargeValue(value)
		if err != nil {
			return err
		}
		w.leaf.appendOutOfLine(key, uint32(len(value)), offset, newLeft, newKeyAlloc, newRight)
	}

	w.itemCount++
	return nil
}

func (w *Writer) flushLeaf() error {
	if _, err := w.leafFile.Write(w.leaf.bytes()); err != nil {
		return err
	}
	w.logger.Debug("leaf page flushed", zap.Uint64("page", w.leafPages))
	w.leafPages++
	return nil
}

// appendLargeValue writes value to the (lazily created) large-value store,
// padding as needed to avoid straddling a page boundary (§4.2.2), and
// returns the offset at which it was written.
func (w *Writer) appendLargeValue(value []byte) (uint64, error) {
	if w.lvsFile == nil {
		file, err := createWritableFile(w.paths.LargeValue)
		if err != nil {
			return 0, err
		}
		w.lvsFile = file
		w.logger.Info("large value store created", zap.String("path", w.paths.LargeValue))
	}

	s := uint64(len(value))
	pageSize := uint64(w.pageSize)
	paddedOffset := alignUint64(w.lvsSize, uint64(w.valueAlignment))

	switch {
	case paddedOffset%pageSize+s > pageSize:
		target := alignUint64(w.lvsSize, pageSize)
		if pad := target - w.lvsSize; pad > 0 {
			if err := w.writeLVSPadding(pad); err != nil {
				return 0, err
			}
		}
		w.lvsSize = target
	case paddedOffset > w.lvsSize:
		if err := w.writeLVSPadding(paddedOffset - w.lvsSize); err != nil {
			return 0, err
		}
		w.lvsSize = paddedOffset
	}

	offset := w.lvsSize
	if _, err := w.lvsFile.Write(value); err != nil {
		return 0, err
	}
	w.lvsSize += s

	return offset, nil
}

func (w *Writer) writeLVSPadding(n uint64) error {
	for n > 0 {
		chunk := n
		if chunk > uint64(w.pageSize) {
			chunk = uint64(w.pageSize)
		}

		buf := w.bufPool.get(uint32(chunk))
		_, err := w.lvsFile.Write(buf)
		w.bufPool.put(buf)
		if err != nil {
			return err
		}

		n -= chunk
	}

	return nil
}

// Stats reports the table's current structural characteristics.
func (w *Writer) Stats() Stats {
	return Stats{
		Depth:               w.depth,
		ItemCount:           w.itemCount,
		LeafPages:           w.leafPages,
		LargeValueStoreSize: w.lvsSize,
		PageSize:            w.pageSize,
		KeyAlignment:        w.keyAlignment,
		ValueAlignment:      w.valueAlignment,
	}
}

// Close finishes (or discards) the build per option (§4.2.4). Idempotent.
func (w *Writer) Close(option CompletionOption) error {
	if w.closed {
		return nil
	}
	defer func() { w.closed = true }()

	if option == CompletionDiscard {
		w.logger.Info("table build discarded", zap.String("path", w.basePath))
		return w.closeFiles()
	}

	for level := uint32(0); level < w.depth; level++ {
		if err := w.flushBranch(level); err != nil {
			return err
		}
	}

	durable := option == CompletionDurable

	if durable {
		for level := uint32(0); level < w.depth; level++ {
			if err := w.branchFiles[level].Sync(); err != nil {
				return err
			}
		}
	}

	if w.lvsFile != nil && durable {
		if err := w.lvsFile.Sync(); err != nil {
			return err
		}
	}

	// Always leave at least one leaf page behind, even for an empty table,
	// so a freshly opened Reader always has a page 0 to address.
	if w.leaf.itemCount > 0 || w.leafPages == 0 {
		if err := w.flushLeaf(); err != nil {
			return err
		}
	}

	if durable {
		if err := w.leafFile.Sync(); err != nil {
			return err
		}
	}

	h := &fileHeader{
		marker:              headerMarker,
		itemCount:           w.itemCount,
		largeValueStoreSize: w.lvsSize,
		depth:               w.depth,
		keyAlignment:        w.keyAlignment,
		valueAlignment:      w.valueAlignment,
		pageSize:            w.pageSize,
		leafPages:           w.leafPages,
	}
	h.checksum = headerChecksum(h)

	buf := make([]byte, fileHeaderSize)
	encodeHeader(buf, h)

	if err := w.leafFile.Seek(0); err != nil {
		return err
	}
	if _, err := w.leafFile.Write(buf); err != nil {
		return err
	}

	if durable {
		if err := w.leafFile.Sync(); err != nil {
			return err
		}
	}

	w.logger.Info("table closed",
		zap.String("path", w.basePath),
		zap.Uint64("itemCount", w.itemCount),
		zap.Uint32("depth", w.depth),
		zap.Uint64("leafPages", w.leafPages),
	)

	return w.closeFiles()
}

func (w *Writer) closeFiles() error {
	var firstErr error
	closeOne := func(f WritableFile) {
		if f == nil {
			return
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	closeOne(w.leafFile)
	closeOne(w.lvsFile)
	for level := uint32(0); level < MaxBranchLevels; level++ {
		closeOne(w.branchFiles[level])
	}

	return firstErr
}

// Free releases the Writer's in-memory state. It is a no-op beyond making
// the value safe to discard; Go's garbage collector reclaims the rest. A
// freed (or never-created) Writer's zero value is not usable — call Create
// again.
func (w *Writer) Free() {
	*w = Writer{}
}
