package bitable

import "errors"

// Range walks forward over every key k with low <= k < high, calling fn
// for each pair. A nil low starts at the first key; a nil high runs to the
// end of the sequence.
func (r *Reader) Range(low, high []byte, fn func(key, value []byte) bool) error {
	var cursor Cursor
	var err error

	if low == nil {
		cursor, err = r.First()
	} else {
		cursor, err = r.Find(low, FindLower)
	}

	if err != nil {
		if errors.Is(err, ErrEndOfSequence) {
			return nil
		}
		return err
	}

	return r.ForEach(cursor, func(key, value []byte) bool {
		if high != nil && r.comparator(key, high) >= 0 {
			return false
		}
		return fn(key, value)
	})
}
