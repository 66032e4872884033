package irmaseal

import (
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"
)

var (
	skeyInfo   = []byte("irmaseal-go skey v1")
	mackeyInfo = []byte("irmaseal-go mackey v1")
)

// deriveKeys splits the IBE shared secret into an independent symmetric
// encryption key and MAC key via HKDF-SHA3-256 (extract with no salt, then
// expand) with distinct info labels, so
// that knowledge of one key reveals nothing computationally useful about the
// other. Derivation is deterministic in secret.
func deriveKeys(secret [SecretSize]byte) (skey [KeySize]byte, mackey [KeySize]byte, err error) {
	skeyReader := hkdf.New(sha3.New256, secret[:], nil, skeyInfo)
	if _, err = io.ReadFull(skeyReader, skey[:]); err != nil {
		return skey, mackey, err
	}

	mackeyReader := hkdf.New(sha3.New256, secret[:], nil, mackeyInfo)
	if _, err = io.ReadFull(mackeyReader, mackey[:]); err != nil {
		return skey, mackey, err
	}

	return skey, mackey, nil
}

// generateIV draws a fresh 16-byte nonce from rand. It is total except for a
// failure of the RNG itself, which is a fatal condition for the caller.
func generateIV(rand io.Reader) (iv [IVSize]byte, err error) {
	_, err = io.ReadFull(rand, iv[:])
	return iv, err
}
