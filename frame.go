package snaprelay

import (
	"errors"

	"github.com/Atheer-Ganayem/SnapRelay/internal"
)

const OpcodeText = internal.OpcodeText // Text frame (UTF-8)

// DecodeText returns the payload of the frame at the start of raw, unmasking
// it when the mask bit is set.
//
// The first byte is not interpreted: every frame is assumed to be a final text
// frame. Truncated input fails with ErrIncompleteFrame, and bytes following
// the frame are ignored.
func DecodeText(raw []byte) ([]byte, error) {
	h, err := parseHeader(raw)
	if err != nil {
		return nil, err
	}
	if len(raw) < h.FrameLength() {
		return nil, ErrIncompleteFrame
	}

	payload := make([]byte, h.PayloadLength)
	copy(payload, raw[h.PayloadOffset:h.FrameLength()])

	if h.IsMasked {
		var key [4]byte
		copy(key[:], raw[h.MaskOffset:h.MaskOffset+4])
		maskBytes(payload, key)
	}

	return payload, nil
}

// EncodeText frames payload as a single unmasked final text frame, the way
// a server sends it.
func EncodeText(payload []byte) []byte {
	b := make([]byte, 0, internal.HeaderLength(len(payload), false)+len(payload))
	b = internal.AppendHeader(b, true, OpcodeText, false, len(payload))

	return append(b, payload...)
}

// EncodeMaskedText frames payload the way a client sends it, masked with key.
func EncodeMaskedText(payload []byte, key [4]byte) []byte {
	b := make([]byte, 0, internal.HeaderLength(len(payload), true)+len(payload))
	b = internal.AppendHeader(b, true, OpcodeText, true, len(payload))
	b = append(b, key[:]...)

	start := len(b)
	b = append(b, payload...)
	maskBytes(b[start:], key)

	return b
}

// FrameLength returns the number of bytes the frame at the start of raw
// declares, header included. It fails with ErrIncompleteFrame while the header
// itself is still partial.
func FrameLength(raw []byte) (int, error) {
	h, err := parseHeader(raw)
	if err != nil {
		return 0, err
	}

	return h.FrameLength(), nil
}

// IsCompleteFrame reports whether raw holds at least one whole frame.
func IsCompleteFrame(raw []byte) (bool, error) {
	ok, err := internal.IsCompleteFrame(raw)
	if errors.Is(err, internal.ErrLengthOverflow) {
		return false, ErrTooLargePayload
	}

	return ok, err
}

func parseHeader(raw []byte) (internal.Header, error) {
	h, err := internal.ParseHeader(raw)
	switch {
	case errors.Is(err, internal.ErrIncompleteHeader):
		return h, ErrIncompleteFrame
	case errors.Is(err, internal.ErrLengthOverflow):
		return h, ErrTooLargePayload
	}

	return h, err
}
