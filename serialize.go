package bitable

import "encoding/binary"

// Little-endian field helpers, the on-disk byte order mandated by §6. These
// mirror the teacher's serializeUintN/deserializeUintN helpers, generalized
// from node-field serialization to page- and header-field serialization and
// adapted to write in place into a pre-sized buffer rather than allocating a
// fresh slice per field.

func putUint16(buf []byte, offset uint32, v uint16) {
	binary.LittleEndian.PutUint16(buf[offset:offset+2], v)
}

func putUint32(buf []byte, offset uint32, v uint32) {
	binary.LittleEndian.PutUint32(buf[offset:offset+4], v)
}

func putUint64(buf []byte, offset uint32, v uint64) {
	binary.LittleEndian.PutUint64(buf[offset:offset+8], v)
}

func getUint16(buf []byte, offset uint32) uint16 {
	return binary.LittleEndian.Uint16(buf[offset : offset+2])
}

func getUint32(buf []byte, offset uint32) uint32 {
	return binary.LittleEndian.Uint32(buf[offset : offset+4])
}

func getUint64(buf []byte, offset uint32) uint64 {
	return binary.LittleEndian.Uint64(buf[offset : offset+8])
}

// checkedGetUint64 reads a little-endian uint64 at offset, returning false
// if the read would run past len(buf).
func checkedGetUint64(buf []byte, offset uint32) (uint64, bool) {
	if uint64(offset)+8 > uint64(len(buf)) {
		return 0, false
	}
	return getUint64(buf, offset), true
}
