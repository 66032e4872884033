// Package ibe implements the identity-based key encapsulation mechanism that
// the rest of this module treats as a fixed external primitive: Setup,
// Encrypt, Decrypt, and ExtractUSK. No other package reaches past this one
// into golang.org/x/crypto/bn256 directly.
//
// The construction is a Boneh-Boyen identity-based KEM (the same family as
// Kiltz-Vahlis-1: a pairing-based scheme over a BN curve, producing a fixed-
// width ciphertext and a shared secret recoverable only by the holder of a
// secret key extracted for the matching identity). Unlike a full hybrid
// encryption scheme, this package never touches a caller's plaintext -- it
// only encapsulates a short shared secret, leaving the stream cipher and MAC
// to the irmaseal package.
package ibe
