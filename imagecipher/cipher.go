// Package imagecipher obscures firmware images in transit with XTEA.
//
// Images are processed as consecutive 8-byte blocks, each holding two
// little-endian 32-bit words. The round function is standard 32-round XTEA
// (delta 0x9E3779B9) so images encrypted for already-provisioned devices
// remain interchangeable. The cipher gives confidentiality only: there is no
// authentication tag and a foreign ciphertext decodes to garbage.
package imagecipher

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/xtea"
)

// BlockSize is the cipher block size in bytes.
const BlockSize = xtea.BlockSize

// KeySize is the key size in bytes.
const KeySize = 16

// Key is a 128-bit key as four 32-bit words. The zero key means "unset".
type Key [4]uint32

// IsZero reports whether k is the unset sentinel.
func (k Key) IsZero() bool {
	return k == Key{}
}

// Bytes returns the key as four little-endian words, the order it is carried
// in the SET_CRYPTO_KEY payload.
func (k Key) Bytes() []byte {
	b := make([]byte, KeySize)
	for i, w := range k {
		binary.LittleEndian.PutUint32(b[i*4:], w)
	}
	return b
}

// KeyFromBytes parses four little-endian words.
func KeyFromBytes(b []byte) (Key, error) {
	var k Key
	if len(b) != KeySize {
		return k, fmt.Errorf("invalid key length: got %d bytes, expected %d", len(b), KeySize)
	}
	for i := range k {
		k[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return k, nil
}

// newCipher builds an xtea.Cipher for k. The xtea package loads key words
// big-endian, so each word is laid out that way here.
func newCipher(k Key) *xtea.Cipher {
	kb := make([]byte, KeySize)
	for i, w := range k {
		binary.BigEndian.PutUint32(kb[i*4:], w)
	}
	c, err := xtea.NewCipher(kb)
	if err != nil {
		// only possible for a key that is not 16 bytes long
		panic(err)
	}
	return c
}

// swapWords reverses the byte order of both 32-bit words in an 8-byte block.
func swapWords(block []byte) {
	block[0], block[1], block[2], block[3] = block[3], block[2], block[1], block[0]
	block[4], block[5], block[6], block[7] = block[7], block[6], block[5], block[4]
}

// Encode encrypts data in place. Trailing bytes that do not complete a block
// are left unmodified.
func Encode(k Key, data []byte) {
	c := newCipher(k)
	for off := 0; off+BlockSize <= len(data); off += BlockSize {
		block := data[off : off+BlockSize]
		swapWords(block)
		c.Encrypt(block, block)
		swapWords(block)
	}
}

// Decode decrypts data in place. Trailing bytes that do not complete a block
// are left unmodified.
func Decode(k Key, data []byte) {
	c := newCipher(k)
	for off := 0; off+BlockSize <= len(data); off += BlockSize {
		block := data[off : off+BlockSize]
		swapWords(block)
		c.Decrypt(block, block)
		swapWords(block)
	}
}
