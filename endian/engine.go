// Package endian supplies the two fixed byte orders LNMP's binary codec
// needs, plus the one runtime check that matters to it: whether the host
// can alias a raw byte slice as a []float64 for zero-copy view decode.
//
// LNMP's byte order is never runtime-selectable: binary frame fields
// (v0x04/v0x05, spec §4.6) are little-endian, and the container header
// (spec §4.10) is big-endian, regardless of host architecture. wire and
// container each hold a package-level EndianEngine value rather than
// accepting one as a construction option:
//
//	buf = wire.Endian.AppendUint64(buf, value)
//	buf = container.HeaderEndian.AppendUint32(buf, length)
//
// wire/view.go's zero-copy float-array decode is the one place host
// endianness matters: aliasing the input buffer directly as []float64
// via unsafe.Slice is only safe when the wire format's declared order
// (little-endian) matches the host's native order, which
// CompareNativeEndian decides.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into the single interface wire.Endian and container.HeaderEndian hold.
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// hostByteOrder probes the host's native integer byte order, the only
// input CompareNativeEndian needs to decide whether wire/view.go's raw
// float-slice aliasing is safe.
func hostByteOrder() binary.ByteOrder {
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// CompareNativeEndian reports whether engine matches the host's native
// byte order. wire/view.go's floatSlice calls this to decide whether an
// 8-byte-aligned buffer region can be aliased as []float64 directly
// instead of copied element-by-element.
func CompareNativeEndian(engine EndianEngine) bool {
	return engine == hostByteOrder()
}

// GetLittleEndianEngine returns the engine wire.Endian uses for binary
// frame fields (spec §4.6).
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the engine container.HeaderEndian uses for
// the container header (spec §4.10).
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
