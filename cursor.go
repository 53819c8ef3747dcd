package bitable

// descend performs the branch-level upper-bound-with-equality search from
// the root level down to level 0, returning the leaf page that key would
// fall on (§4.3 "Branch descent").
func (r *Reader) descend(key []byte) uint64 {
	childPage := uint64(0)

	for level := int(r.header.depth) - 1; level >= 0; level-- {
		page := r.branchPage(uint32(level), childPage)
		firstChild := branchFirstChild(page)
		numSeparators := int(branchItemCount(page)) - 1

		low, high, best := 0, numSeparators-1, -1
		for low <= high {
			mid := (low + high) / 2
			keySize, itemOffset := branchIndexEntry(page, mid)
			separator := page[itemOffset : uint32(itemOffset)+uint32(keySize)]

			c := r.comparator(separator, key)
			if c <= 0 {
				best = mid
				low = mid + 1
				if c == 0 {
					break
				}
			} else {
				high = mid - 1
			}
		}

		if best >= 0 {
			childPage = firstChild + uint64(best) + 1
		} else {
			childPage = firstChild
		}
	}

	return childPage
}

// leafSearch performs the leaf-level lower-bound search: the least item
// whose key is >= key, plus whether an exact match was seen.
func (r *Reader) leafSearch(page []byte, key []byte) (best int32, equal bool) {
	itemCount := leafItemCount(page)
	low, high := int32(0), itemCount-1
	best = -1

	for low <= high {
		mid := low + (high-low)/2
		_, keySize, itemOffset := leafIndexEntry(page, mid)
		itemKey := page[itemOffset : uint32(itemOffset)+uint32(keySize)]

		c := r.comparator(itemKey, key)
		if c >= 0 {
			best = mid
			if c == 0 {
				equal = true
			}
			high = mid - 1
		} else {
			low = mid + 1
		}
	}

	return best, equal
}

// Find locates key under the given search semantics (§4.3).
func (r *Reader) Find(key []byte, op FindOp) (Cursor, error) {
	if r.header.itemCount == 0 {
		if op == FindExact {
			return Cursor{}, ErrKeyNotFound
		}
		return Cursor{}, ErrEndOfSequence
	}

	pageIndex := r.descend(key)
	page := r.leafPage(pageIndex)
	itemCount := leafItemCount(page)

	best, equal := r.leafSearch(page, key)

	if best >= 0 {
		cursor := Cursor{Page: pageIndex, Item: best}
		if equal {
			return cursor, nil
		}

		switch op {
		case FindExact:
			return Cursor{}, ErrKeyNotFound
		case FindUpper:
			return r.Previous(cursor)
		default: // FindLower
			return cursor, nil
		}
	}

	cursor := Cursor{Page: pageIndex, Item: itemCount - 1}

	switch op {
	case FindExact:
		return Cursor{}, ErrKeyNotFound
	case FindUpper:
		return cursor, nil
	default: // FindLower
		return r.Next(cursor)
	}
}

// First returns the cursor at the start of the sequence.
func (r *Reader) First() (Cursor, error) {
	if r.header.itemCount == 0 {
		return Cursor{}, ErrEndOfSequence
	}
	return Cursor{Page: 0, Item: 0}, nil
}

// Last returns the cursor at the end of the sequence.
func (r *Reader) Last() (Cursor, error) {
	if r.header.itemCount == 0 {
		return Cursor{}, ErrEndOfSequence
	}

	lastPage := r.header.leafPages - 1
	page := r.leafPage(lastPage)

	return Cursor{Page: lastPage, Item: leafItemCount(page) - 1}, nil
}

// Next advances cursor by one position.
func (r *Reader) Next(cursor Cursor) (Cursor, error) {
	page := r.leafPage(cursor.Page)
	itemCount := leafItemCount(page)

	if cursor.Item+1 < itemCount {
		return Cursor{Page: cursor.Page, Item: cursor.Item + 1}, nil
	}

	if cursor.Page+1 < r.header.leafPages {
		return Cursor{Page: cursor.Page + 1, Item: 0}, nil
	}

	return Cursor{}, ErrEndOfSequence
}

// Previous steps cursor back by one position. Unlike the reference
// implementation, this checks the page==0 && item==0 case before stepping
// back a page, rather than dereferencing leafPages-1 from page 0 (§9).
func (r *Reader) Previous(cursor Cursor) (Cursor, error) {
	if cursor.Item > 0 {
		return Cursor{Page: cursor.Page, Item: cursor.Item - 1}, nil
	}

	if cursor.Page == 0 {
		return Cursor{}, ErrEndOfSequence
	}

	prevPage := cursor.Page - 1
	page := r.leafPage(prevPage)

	return Cursor{Page: prevPage, Item: leafItemCount(page) - 1}, nil
}

// validCursor checks cursor against the invalid-cursor policy (§4.3) and
// returns the leaf page it addresses.
func (r *Reader) validCursor(cursor Cursor) ([]byte, error) {
	if cursor.Page >= r.header.leafPages {
		return nil, ErrInvalidCursorLocation
	}

	page := r.leafPage(cursor.Page)
	itemCount := leafItemCount(page)

	if cursor.Item < 0 || cursor.Item >= itemCount {
		return nil, ErrInvalidCursorLocation
	}

	return page, nil
}

// Key returns a zero-copy view of the key at cursor.
func (r *Reader) Key(cursor Cursor) ([]byte, error) {
	page, err := r.validCursor(cursor)
	if err != nil {
		return nil, err
	}

	_, keySize, itemOffset := leafIndexEntry(page, cursor.Item)
	return page[itemOffset : uint32(itemOffset)+uint32(keySize)], nil
}

// Value returns a zero-copy view of the value at cursor, whether stored
// inline or in the large-value mapping.
func (r *Reader) Value(cursor Cursor) ([]byte, error) {
	page, err := r.validCursor(cursor)
	if err != nil {
		return nil, err
	}

	dataSize, _, itemOffset := leafIndexEntry(page, cursor.Item)
	dataFromRight := r.header.pageSize - uint32(itemOffset)

	if dataSize <= MaxKeySize {
		paddedOffset := r.header.pageSize - align(dataFromRight+dataSize, r.header.valueAlignment)
		return page[paddedOffset : paddedOffset+dataSize], nil
	}

	slotOffset := r.header.pageSize - align(dataFromRight+largeValueOffsize, largeValueOffsize)
	offset, ok := checkedGetUint64(page, slotOffset)
	if !ok {
		return nil, ErrHeaderCorrupt
	}
	if offset+uint64(dataSize) > uint64(len(r.lvsBytes)) {
		return nil, ErrHeaderCorrupt
	}

	return r.lvsBytes[offset : offset+uint64(dataSize)], nil
}

// KeyValuePair returns both the key and value at cursor.
func (r *Reader) KeyValuePair(cursor Cursor) (key, value []byte, err error) {
	key, err = r.Key(cursor)
	if err != nil {
		return nil, nil, err
	}

	value, err = r.Value(cursor)
	if err != nil {
		return nil, nil, err
	}

	return key, value, nil
}

// Indice returns cursor's 0-based global position in the sorted sequence.
func (r *Reader) Indice(cursor Cursor) (uint64, error) {
	page, err := r.validCursor(cursor)
	if err != nil {
		return 0, err
	}

	return leafBaseIndice(page) + uint64(cursor.Item), nil
}
