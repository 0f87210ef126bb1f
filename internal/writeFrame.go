package internal

import (
	"encoding/binary"
	"math"
)

// HeaderLength returns the size of a header carrying a payload of n bytes.
func HeaderLength(n int, masked bool) int {
	length := 2
	if masked {
		length += 4
	}

	switch {
	case n < 126:
		// no extended length bytes
	case n <= math.MaxUint16:
		length += 2
	default:
		length += 8
	}

	return length
}

// AppendHeader appends the fixed header and extended length for a payload of
// n bytes. The masking key, if any, is appended by the caller.
func AppendHeader(b []byte, fin bool, opcode uint8, masked bool, n int) []byte {
	b0 := opcode
	if fin {
		b0 |= 0x80
	}
	var b1 byte
	if masked {
		b1 |= 0x80
	}

	switch {
	case n < 126:
		b = append(b, b0, b1|byte(n))
	case n <= math.MaxUint16:
		b = append(b, b0, b1|126)
		b = binary.BigEndian.AppendUint16(b, uint16(n))
	default:
		b = append(b, b0, b1|127)
		b = binary.BigEndian.AppendUint64(b, uint64(n))
	}

	return b
}
