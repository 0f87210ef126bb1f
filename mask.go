package snaprelay

import "encoding/binary"

// maskBytes XORs b in place with key, key[0] lining up with b[0].
// Masking and unmasking are the same operation.
//
// Word-at-a-time loop adapted from coder/websocket.
func maskBytes(b []byte, key [4]byte) {
	if len(b) >= 8 {
		key32 := binary.LittleEndian.Uint32(key[:])
		key64 := uint64(key32)<<32 | uint64(key32)

		for len(b) >= 32 {
			v := binary.LittleEndian.Uint64(b)
			binary.LittleEndian.PutUint64(b, v^key64)
			v = binary.LittleEndian.Uint64(b[8:16])
			binary.LittleEndian.PutUint64(b[8:16], v^key64)
			v = binary.LittleEndian.Uint64(b[16:24])
			binary.LittleEndian.PutUint64(b[16:24], v^key64)
			v = binary.LittleEndian.Uint64(b[24:32])
			binary.LittleEndian.PutUint64(b[24:32], v^key64)
			b = b[32:]
		}

		for len(b) >= 8 {
			v := binary.LittleEndian.Uint64(b)
			binary.LittleEndian.PutUint64(b, v^key64)
			b = b[8:]
		}
	}

	// consumed a multiple of 8 bytes, so the key is still aligned.
	for i := range b {
		b[i] ^= key[i%4]
	}
}
