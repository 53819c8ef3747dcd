package bitable

import "errors"

// ForEach walks forward from cursor, calling fn with each key/value pair
// until fn returns false or the sequence ends. It is a read-only
// convenience built on the existing cursor API (§9 original_source
// example.cpp demonstrates the same bulk-sequential-consumption pattern).
func (r *Reader) ForEach(cursor Cursor, fn func(key, value []byte) bool) error {
	for {
		key, value, err := r.KeyValuePair(cursor)
		if err != nil {
			return err
		}

		if !fn(key, value) {
			return nil
		}

		next, err := r.Next(cursor)
		if err != nil {
			if errors.Is(err, ErrEndOfSequence) {
				return nil
			}
			return err
		}

		cursor = next
	}
}
