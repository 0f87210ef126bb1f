package internal

import (
	"encoding/binary"
	"errors"
	"math"
)

const OpcodeText = 0x1 // Text frame (UTF-8)

var (
	ErrIncompleteHeader = errors.New("incomplete frame header")
	ErrLengthOverflow   = errors.New("payload length overflows int32")
)

// Header is everything in a frame that precedes the payload.
type Header struct {
	IsMasked      bool
	PayloadLength int
	// offsets into the raw frame
	MaskOffset    int
	PayloadOffset int
}

// FrameLength is the number of bytes the whole frame occupies on the wire.
func (h Header) FrameLength() int {
	return h.PayloadOffset + h.PayloadLength
}

// ParseHeader reads the header at the start of raw. The payload itself does
// not have to be present yet.
func ParseHeader(raw []byte) (Header, error) {
	var h Header

	if len(raw) < 2 {
		return h, ErrIncompleteHeader
	}

	h.IsMasked = raw[1]&0b10000000 != 0

	offset := 2
	switch lengthB := raw[1] & 0b01111111; lengthB {
	case 126:
		if len(raw) < offset+2 {
			return h, ErrIncompleteHeader
		}
		h.PayloadLength = int(binary.BigEndian.Uint16(raw[offset : offset+2]))
		offset += 2
	case 127:
		if len(raw) < offset+8 {
			return h, ErrIncompleteHeader
		}
		length64 := binary.BigEndian.Uint64(raw[offset : offset+8])
		if length64 > math.MaxInt32 {
			return h, ErrLengthOverflow
		}
		h.PayloadLength = int(length64)
		offset += 8
	default:
		h.PayloadLength = int(lengthB)
	}

	if h.IsMasked {
		if len(raw) < offset+4 {
			return h, ErrIncompleteHeader
		}
		h.MaskOffset = offset
		offset += 4
	}
	h.PayloadOffset = offset

	return h, nil
}

// IsCompleteFrame reports whether raw holds at least one whole frame.
func IsCompleteFrame(raw []byte) (bool, error) {
	h, err := ParseHeader(raw)
	if errors.Is(err, ErrIncompleteHeader) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	return len(raw) >= h.FrameLength(), nil
}
