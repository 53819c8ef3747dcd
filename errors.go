package bitable

import (
	"errors"
	"fmt"
)

// Sentinel errors corresponding to the BitableResult taxonomy (§7). Compare
// against these with errors.Is; END_OF_SEQUENCE and KEY_NOT_FOUND are
// ordinary terminators, not exceptional conditions.
var (
	// ErrEndOfSequence signals a cursor or find operation ran off the end
	// (or start) of the sequence. It is a normal iteration terminator.
	ErrEndOfSequence = errors.New("bitable: end of sequence")

	// ErrFileOpenFailed means the underlying file could not be opened.
	ErrFileOpenFailed = errors.New("bitable: file open failed")

	// ErrFileOperationFailed means an OS-level file operation failed.
	ErrFileOperationFailed = errors.New("bitable: file operation failed")

	// ErrFileTooLarge means a file exceeds the addressable mapping range.
	ErrFileTooLarge = errors.New("bitable: file too large to map")

	// ErrBadPath means a supplied base path is unusable.
	ErrBadPath = errors.New("bitable: bad path")

	// ErrAlreadyOpen means Create/Open was called on a table already open.
	ErrAlreadyOpen = errors.New("bitable: already open")

	// ErrFileTooSmall means the leaf file is smaller than a header.
	ErrFileTooSmall = errors.New("bitable: file too small")

	// ErrHeaderCorrupt means the header marker or checksum did not validate.
	ErrHeaderCorrupt = errors.New("bitable: header corrupt")

	// ErrKeyNotFound means FindExact found no matching key.
	ErrKeyNotFound = errors.New("bitable: key not found")

	// ErrInvalidCursorLocation means a cursor addresses an out-of-range
	// page or item.
	ErrInvalidCursorLocation = errors.New("bitable: invalid cursor location")

	// ErrMaxTableTreeDepth means a cascade would exceed MaxBranchLevels.
	ErrMaxTableTreeDepth = errors.New("bitable: maximum table tree depth exceeded")

	// ErrKeyInvalid means a key is negative-sized or exceeds MaxKeySize.
	ErrKeyInvalid = errors.New("bitable: key invalid")

	// ErrPageSizeInvalid means the requested page size is out of range or
	// not a power of two.
	ErrPageSizeInvalid = errors.New("bitable: page size invalid")

	// ErrAlignmentInvalid means a requested alignment is out of range or
	// not a power of two.
	ErrAlignmentInvalid = errors.New("bitable: alignment invalid")
)

// opError wraps an OS-level failure with the operation name and the
// matching sentinel, so callers can both errors.Is(err, ErrFileOperationFailed)
// and reach the original cause via errors.Is/errors.As. Because two errors
// are wrapped, errors.Unwrap returns nil for the result.
func opError(op string, sentinel, cause error) error {
	return fmt.Errorf("bitable: %s: %w: %w", op, sentinel, cause)
}
