package imagecipher

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"
)

// referenceEncode is the plain XTEA loop over little-endian word pairs.
func referenceEncode(k Key, data []byte) {
	const delta = 0x9E3779B9
	for off := 0; off+8 <= len(data); off += 8 {
		v0 := binary.LittleEndian.Uint32(data[off:])
		v1 := binary.LittleEndian.Uint32(data[off+4:])
		var sum uint32
		for i := 0; i < 32; i++ {
			v0 += (((v1 << 4) ^ (v1 >> 5)) + v1) ^ (sum + k[sum&3])
			sum += delta
			v1 += (((v0 << 4) ^ (v0 >> 5)) + v0) ^ (sum + k[(sum>>11)&3])
		}
		binary.LittleEndian.PutUint32(data[off:], v0)
		binary.LittleEndian.PutUint32(data[off+4:], v1)
	}
}

func TestEncodeMatchesReference(t *testing.T) {
	keys := []Key{
		{0x01234567, 0x89ABCDEF, 0xFEDCBA98, 0x76543210},
		{0xFFFFFFFF, 0, 0xFFFFFFFF, 0},
		{1, 2, 3, 4},
	}
	rng := rand.New(rand.NewSource(1))

	for _, k := range keys {
		data := make([]byte, 64)
		rng.Read(data)

		want := append([]byte(nil), data...)
		referenceEncode(k, want)

		Encode(k, data)
		if !bytes.Equal(data, want) {
			t.Errorf("key %08X: Encode = % X, want % X", k, data, want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		length int
	}{
		{name: "single block", length: 8},
		{name: "transfer size", length: 64},
		{name: "erase block", length: 1024},
	}
	rng := rand.New(rand.NewSource(2))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var k Key
			for i := range k {
				k[i] = rng.Uint32()
			}
			plain := make([]byte, tt.length)
			rng.Read(plain)

			data := append([]byte(nil), plain...)
			Encode(k, data)
			if bytes.Equal(data, plain) {
				t.Fatal("Encode left data unchanged")
			}
			Decode(k, data)
			if !bytes.Equal(data, plain) {
				t.Errorf("Decode(Encode(x)) != x")
			}
		})
	}
}

func TestTrailingBytesUntouched(t *testing.T) {
	k := Key{1, 2, 3, 4}
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7, 0xAA, 0xBB, 0xCC}

	Encode(k, data)
	if !bytes.Equal(data[8:], []byte{0xAA, 0xBB, 0xCC}) {
		t.Errorf("trailing bytes modified: % X", data[8:])
	}

	short := []byte{1, 2, 3}
	Decode(k, short)
	if !bytes.Equal(short, []byte{1, 2, 3}) {
		t.Errorf("short buffer modified: % X", short)
	}
}

func TestKeyBytes(t *testing.T) {
	k := Key{0x04030201, 0x08070605, 0x0C0B0A09, 0x100F0E0D}

	b := k.Bytes()
	if b[0] != 0x01 || b[15] != 0x10 {
		t.Errorf("Bytes() = % X", b)
	}

	parsed, err := KeyFromBytes(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != k {
		t.Errorf("KeyFromBytes = %08X, want %08X", parsed, k)
	}

	if _, err := KeyFromBytes(b[:4]); err == nil {
		t.Error("expected error for short key")
	}
	if !(Key{}).IsZero() || k.IsZero() {
		t.Error("IsZero mismatch")
	}
}
