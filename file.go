package bitable

import "os"

// WritableFile is the sequential writable file primitive the writer
// consumes (§6). The default implementation wraps *os.File; callers
// embedding bitable in another environment may supply their own.
type WritableFile interface {
	// Write appends bytes at the current file position.
	Write(p []byte) (int, error)
	// Seek moves the file position to an absolute offset from the start.
	Seek(absoluteOffset int64) error
	// Sync flushes any OS buffers for this file to stable storage.
	Sync() error
	// Close releases the file handle. Idempotent.
	Close() error
}

// osWritableFile is the default WritableFile, backed by *os.File.
type osWritableFile struct {
	file *os.File
}

// createWritableFile creates (or truncates) path for sequential writing.
func createWritableFile(path string) (*osWritableFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, opError("create "+path, ErrFileOpenFailed, err)
	}

	return &osWritableFile{file: f}, nil
}

func (w *osWritableFile) Write(p []byte) (int, error) {
	n, err := w.file.Write(p)
	if err != nil {
		return n, opError("write", ErrFileOperationFailed, err)
	}

	return n, nil
}

func (w *osWritableFile) Seek(absoluteOffset int64) error {
	_, err := w.file.Seek(absoluteOffset, 0)
	if err != nil {
		return opError("seek", ErrFileOperationFailed, err)
	}

	return nil
}

func (w *osWritableFile) Sync() error {
	if err := w.file.Sync(); err != nil {
		return opError("sync", ErrFileOperationFailed, err)
	}

	return nil
}

func (w *osWritableFile) Close() error {
	if w.file == nil {
		return nil
	}

	err := w.file.Close()
	w.file = nil

	if err != nil {
		return opError("close", ErrFileOperationFailed, err)
	}

	return nil
}
