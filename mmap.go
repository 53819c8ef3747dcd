package bitable

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// MappedFile is the read-only memory-mapped file primitive the reader
// consumes (§6). The default implementation maps the whole file read-only
// with MAP_SHARED semantics via github.com/edsrzf/mmap-go.
type MappedFile interface {
	// Bytes returns the mapped region. The slice is valid until Close.
	Bytes() []byte
	// Close unmaps and closes the underlying file. Idempotent.
	Close() error
}

// mmapFile is the default MappedFile.
type mmapFile struct {
	file *os.File
	data mmap.MMap
}

// openMappedFile opens path read-only, applies the access hint, and maps
// the entire file. A zero-length file maps to an empty, valid MappedFile.
func openMappedFile(path string, hint OpenHint) (*mmapFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, opError("open "+path, ErrFileOpenFailed, err)
	}

	if adviseErr := applyAccessHint(f, hint); adviseErr != nil {
		f.Close()
		return nil, opError("fadvise "+path, ErrFileOperationFailed, adviseErr)
	}

	info, statErr := f.Stat()
	if statErr != nil {
		f.Close()
		return nil, opError("stat "+path, ErrFileOperationFailed, statErr)
	}

	if info.Size() > int64(^uint(0)>>1) {
		f.Close()
		return nil, ErrFileTooLarge
	}

	if info.Size() == 0 {
		return &mmapFile{file: f, data: mmap.MMap{}}, nil
	}

	data, mapErr := mmap.Map(f, mmap.RDONLY, 0)
	if mapErr != nil {
		f.Close()
		return nil, opError("mmap "+path, ErrFileOperationFailed, mapErr)
	}

	return &mmapFile{file: f, data: data}, nil
}

func (m *mmapFile) Bytes() []byte {
	return m.data
}

func (m *mmapFile) Close() error {
	if m.file == nil {
		return nil
	}

	var unmapErr error
	if len(m.data) > 0 {
		unmapErr = m.data.Unmap()
	}
	m.data = nil

	closeErr := m.file.Close()
	m.file = nil

	if unmapErr != nil {
		return opError("munmap", ErrFileOperationFailed, unmapErr)
	}
	if closeErr != nil {
		return opError("close", ErrFileOperationFailed, closeErr)
	}

	return nil
}
