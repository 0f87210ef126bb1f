package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name    string
		raw     []byte
		want    Header
		wantErr error
	}{
		{
			name: "short unmasked",
			raw:  []byte{0x81, 0x05},
			want: Header{PayloadLength: 5, PayloadOffset: 2},
		},
		{
			name: "short masked",
			raw:  []byte{0x81, 0x85, 1, 2, 3, 4},
			want: Header{IsMasked: true, PayloadLength: 5, MaskOffset: 2, PayloadOffset: 6},
		},
		{
			name: "16 bit masked",
			raw:  []byte{0x81, 0xfe, 0x01, 0x00, 1, 2, 3, 4},
			want: Header{IsMasked: true, PayloadLength: 256, MaskOffset: 4, PayloadOffset: 8},
		},
		{
			name: "64 bit masked",
			raw:  []byte{0x81, 0xff, 0, 0, 0, 0, 0, 1, 0, 0, 1, 2, 3, 4},
			want: Header{IsMasked: true, PayloadLength: 65536, MaskOffset: 10, PayloadOffset: 14},
		},
		{name: "one byte", raw: []byte{0x81}, wantErr: ErrIncompleteHeader},
		{name: "missing mask", raw: []byte{0x81, 0x85, 1}, wantErr: ErrIncompleteHeader},
		{
			name:    "overflow",
			raw:     []byte{0x81, 0x7f, 0, 0, 0, 0, 0x80, 0, 0, 0},
			wantErr: ErrLengthOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := ParseHeader(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, h)
			assert.Equal(t, tt.want.PayloadOffset+tt.want.PayloadLength, h.FrameLength())
		})
	}
}

func TestAppendHeaderMatchesParse(t *testing.T) {
	for _, n := range []int{0, 125, 126, 65535, 65536} {
		for _, masked := range []bool{false, true} {
			b := AppendHeader(nil, true, OpcodeText, masked, n)
			if masked {
				b = append(b, 1, 2, 3, 4)
			}
			require.Len(t, b, HeaderLength(n, masked))

			h, err := ParseHeader(b)
			require.NoError(t, err)
			assert.Equal(t, masked, h.IsMasked)
			assert.Equal(t, n, h.PayloadLength)
			assert.Equal(t, len(b), h.PayloadOffset)
		}
	}
}
