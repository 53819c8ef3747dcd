package bitable

import "go.uber.org/zap"

// OpenOptions configures Open.
type OpenOptions struct {
	// Hint advises the OS about the expected access pattern for the leaf
	// and large-value mappings. Branch files are always hinted Random
	// (§4.3).
	Hint OpenHint

	// Comparator orders keys. Defaults to BytesComparator.
	Comparator Comparator

	// Logger receives structured open/validation events. Defaults to a
	// no-op logger.
	Logger *zap.Logger
}

// Reader opens a table's file set and exposes zero-copy cursor-based
// access over the mapped pages (C5, §4.3). A fully opened Reader permits
// unsynchronized concurrent reads from multiple goroutines; Open and Close
// are not concurrency-safe with any other operation on the same instance
// (§5).
type Reader struct {
	basePath   string
	paths      Paths
	header     *fileHeader
	comparator Comparator
	logger     *zap.Logger

	leaf   MappedFile
	lvs    MappedFile
	branch [MaxBranchLevels]MappedFile

	leafBytes   []byte
	lvsBytes    []byte
	branchBytes [MaxBranchLevels][]byte

	closed bool
}

// Open allocates and opens a table at basePath (§6 allocate+open collapsed
// into one constructor). On any failure it unmaps everything it had
// already mapped before returning the error.
func Open(basePath string, options OpenOptions) (*Reader, error) {
	if basePath == "" {
		return nil, ErrBadPath
	}

	comparator := options.Comparator
	if comparator == nil {
		comparator = BytesComparator
	}
	logger := nopLogger(options.Logger)

	leaf, err := openMappedFile(basePath, options.Hint)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		basePath:   basePath,
		paths:      BuildPaths(basePath),
		comparator: comparator,
		logger:     logger,
		leaf:       leaf,
		leafBytes:  leaf.Bytes(),
	}

	header, err := decodeHeader(r.leafBytes)
	if err != nil {
		logger.Warn("header validation failed", zap.String("path", basePath), zap.Error(err))
		r.closeMapped()
		return nil, err
	}
	r.header = header

	if header.largeValueStoreSize > 0 {
		lvs, err := openMappedFile(r.paths.LargeValue, options.Hint)
		if err != nil {
			r.closeMapped()
			return nil, err
		}
		r.lvs = lvs
		r.lvsBytes = lvs.Bytes()
	}

	for level := uint32(0); level < header.depth; level++ {
		bf, err := openMappedFile(r.paths.Branch[level], HintRandom)
		if err != nil {
			r.closeMapped()
			return nil, err
		}
		r.branch[level] = bf
		r.branchBytes[level] = bf.Bytes()
	}

	logger.Info("table opened",
		zap.String("path", basePath),
		zap.Uint64("itemCount", header.itemCount),
		zap.Uint32("depth", header.depth),
	)

	return r, nil
}

func (r *Reader) closeMapped() error {
	var firstErr error
	closeOne := func(f MappedFile) {
		if f == nil {
			return
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	closeOne(r.leaf)
	closeOne(r.lvs)
	for level := range r.branch {
		closeOne(r.branch[level])
	}

	return firstErr
}

// Stats reports the table's structural characteristics.
func (r *Reader) Stats() Stats {
	return Stats{
		Depth:               r.header.depth,
		ItemCount:           r.header.itemCount,
		LeafPages:           r.header.leafPages,
		LargeValueStoreSize: r.header.largeValueStoreSize,
		PageSize:            r.header.pageSize,
		KeyAlignment:        r.header.keyAlignment,
		ValueAlignment:      r.header.valueAlignment,
	}
}

// Close unmaps and closes every file in the set. Idempotent; the Reader
// remains reusable in the sense that Close never panics on a second call.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.closeMapped()
}

// Free releases the Reader's in-memory state. Call Close first if the
// table is still open.
func (r *Reader) Free() {
	*r = Reader{}
}

func (r *Reader) leafPage(page uint64) []byte {
	pageSize := uint64(r.header.pageSize)
	start := (page + 1) * pageSize
	return r.leafBytes[start : start+pageSize]
}

func (r *Reader) branchPage(level uint32, page uint64) []byte {
	pageSize := uint64(r.header.pageSize)
	start := page * pageSize
	return r.branchBytes[level][start : start+pageSize]
}
