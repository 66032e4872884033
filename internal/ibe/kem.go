package ibe

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"io"
	"math/big"

	"golang.org/x/crypto/bn256"
)

// ErrMalformedCiphertext indicates the encapsulation bytes do not decode to
// valid curve points, or fail the format-integrity tag. It never depends on
// which UserSecretKey is used to decrypt -- a wrong key simply yields a
// shared secret that later fails the caller's own MAC check, per the
// collapsed failure model described in the irmaseal package.
var ErrMalformedCiphertext = errors.New("ibe: malformed ciphertext")

// Encrypt encapsulates a fresh shared secret for the given identity scalar.
// The returned ciphertext is always exactly CiphertextSize bytes.
func Encrypt(pp *PublicParams, id *big.Int, rand io.Reader) (ciphertext [CiphertextSize]byte, secret [SecretSize]byte, err error) {
	s, err := randomScalar(rand)
	if err != nil {
		return ciphertext, secret, err
	}

	b := new(bn256.G1).ScalarBaseMult(s)

	c1 := new(bn256.G1).ScalarMult(pp.g1, id)
	c1.Add(c1, pp.h)
	c1.ScalarMult(c1, s)

	copy(ciphertext[0:G1Size], b.Marshal())
	copy(ciphertext[G1Size:2*G1Size], c1.Marshal())
	copy(ciphertext[2*G1Size:], formatTag(ciphertext[0:2*G1Size]))

	vs := new(bn256.GT).ScalarMult(pp.v, s)
	secret = hashSecret(vs)

	return ciphertext, secret, nil
}

// Decrypt recovers the shared secret encapsulated in ciphertext using usk.
// It returns ErrMalformedCiphertext only for structurally invalid input
// (bad curve point encodings or a corrupted format tag); it never reports a
// "wrong key" condition, by construction.
func Decrypt(usk *UserSecretKey, ciphertext [CiphertextSize]byte) (secret [SecretSize]byte, err error) {
	gotTag := formatTag(ciphertext[0:2*G1Size])
	if subtle.ConstantTimeCompare(gotTag, ciphertext[2*G1Size:]) != 1 {
		return secret, ErrMalformedCiphertext
	}

	b, ok := openCT(new(bn256.G1).Unmarshal(ciphertext[0:G1Size]))
	if !ok {
		return secret, ErrMalformedCiphertext
	}
	c1, ok := openCT(new(bn256.G1).Unmarshal(ciphertext[G1Size : 2*G1Size]))
	if !ok {
		return secret, ErrMalformedCiphertext
	}

	numerator := bn256.Pair(b, usk.D0)
	denominator := bn256.Pair(c1, usk.D1)
	vs := new(bn256.GT).Add(numerator, new(bn256.GT).Neg(denominator))

	return hashSecret(vs), nil
}

func hashSecret(vs *bn256.GT) [SecretSize]byte {
	h := sha256.New()
	h.Write(kemPrefix[:])
	h.Write(vs.Marshal())
	var out [SecretSize]byte
	copy(out[:], h.Sum(nil))
	return out
}

func formatTag(fields []byte) []byte {
	h := sha256.New()
	h.Write(tagPrefix[:])
	h.Write(fields)
	return h.Sum(nil)[:tagSize]
}
