// Package digestcodec holds the fixed-width encodings fed into state digests.
// Every writer is little endian so digests are stable across platforms.
package digestcodec

import (
	"encoding/binary"
	"math"
)

type Writer interface {
	Write(p []byte) (n int, err error)
}

func WriteU64(w Writer, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	w.Write(tmp[:])
}

func WriteI64(w Writer, tmp *[8]byte, v int64) {
	WriteU64(w, tmp, uint64(v))
}

func WriteInt(w Writer, tmp *[8]byte, v int) {
	WriteU64(w, tmp, uint64(int64(v)))
}

// WriteF64 writes the IEEE bits, so -0 and 0 digest differently.
func WriteF64(w Writer, tmp *[8]byte, v float64) {
	WriteU64(w, tmp, math.Float64bits(v))
}

// WriteString is length-prefixed so adjacent strings cannot run together.
func WriteString(w Writer, tmp *[8]byte, s string) {
	WriteU64(w, tmp, uint64(len(s)))
	w.Write([]byte(s))
}

func WriteBool(w Writer, v bool) {
	w.Write([]byte{BoolByte(v)})
}

func BoolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
