package irmaseal

import (
	"crypto/aes"
	"crypto/cipher"
)

// newStreamCipher builds the AES-256-CTR keystream spec.md §6 fixes as the
// symmetric cipher. It is built directly on the standard library rather
// than a third-party package: AES-CTR is a
// primitive operation the Go standard library already implements correctly
// and constant-time on supported platforms, and no library in this module's
// dependency set wraps it any more safely than crypto/cipher.NewCTR does.
func newStreamCipher(key [KeySize]byte, iv [IVSize]byte) (cipher.Stream, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewCTR(block, iv[:]), nil
}
