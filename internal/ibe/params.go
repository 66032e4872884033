package ibe

import (
	cryptorand "crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/bn256"
)

const (
	// G1Size is the marshaled size of a bn256.G1 element.
	G1Size = 64
	// SecretSize is the width of a derived shared secret.
	SecretSize = 32
	// CiphertextSize is the fixed wire width of an encapsulation, matching
	// the 144-byte Kiltz-Vahlis-1 ciphertext this package stands in for.
	CiphertextSize = 2*G1Size + tagSize

	tagSize = 16
)

var (
	idPrefix  = [1]byte{0x00}
	kemPrefix = [1]byte{0x01}
	tagPrefix = [1]byte{0x02}
)

// PublicParams are the system-wide public parameters produced by Setup. They
// play the role of the PKG's public key: anyone holding PublicParams can
// Encrypt to any identity, but only ExtractUSK (which needs the MasterKey)
// can produce a key capable of Decrypt.
type PublicParams struct {
	g, g1, h       *bn256.G1
	gHat, g1Hat, h2Hat *bn256.G2
	v              *bn256.GT
}

// MasterKey is the PKG's secret. It never leaves the PKG process boundary in
// a real deployment; here it is modeled directly since key distribution is
// out of scope for this module.
type MasterKey struct {
	params *PublicParams
	g0Hat  *bn256.G2
}

// UserSecretKey is the per-identity decryption key the PKG issues out of
// band (ExtractUSK performs the issuance locally for this module's purposes).
type UserSecretKey struct {
	D0, D1 *bn256.G2
}

// Setup runs the PKG key generation algorithm, producing fresh public
// parameters and the corresponding master secret.
func Setup(rand io.Reader) (*PublicParams, *MasterKey, error) {
	pp := &PublicParams{
		g:      new(bn256.G1),
		g1:     new(bn256.G1),
		h:      new(bn256.G1),
		gHat:   new(bn256.G2),
		g1Hat:  new(bn256.G2),
		h2Hat:  new(bn256.G2),
		v:      new(bn256.GT),
	}

	pp.g.ScalarBaseMult(big.NewInt(1))
	pp.gHat.ScalarBaseMult(big.NewInt(1))

	alpha, err := randomScalar(rand)
	if err != nil {
		return nil, nil, fmt.Errorf("ibe: sampling alpha: %w", err)
	}
	pp.g1.ScalarBaseMult(alpha)
	pp.g1Hat.ScalarBaseMult(alpha)

	delta, err := randomScalar(rand)
	if err != nil {
		return nil, nil, fmt.Errorf("ibe: sampling delta: %w", err)
	}
	pp.h.ScalarBaseMult(delta)
	pp.h2Hat.ScalarBaseMult(delta)

	beta, err := randomScalar(rand)
	if err != nil {
		return nil, nil, fmt.Errorf("ibe: sampling beta: %w", err)
	}

	g0Hat := new(bn256.G2)
	alphaBeta := new(big.Int).Mul(alpha, beta)
	alphaBeta.Mod(alphaBeta, bn256.Order)
	g0Hat.ScalarBaseMult(alphaBeta)

	pp.v = bn256.Pair(pp.g, g0Hat)

	return pp, &MasterKey{params: pp, g0Hat: g0Hat}, nil
}

// Params returns the public parameters bound to this master key.
func (mk *MasterKey) Params() *PublicParams { return mk.params }

// ExtractUSK issues a UserSecretKey for the given identity scalar. This is
// the PKG-side operation; distributing the result to the right holder is the
// out-of-scope PKG protocol.
func (mk *MasterKey) ExtractUSK(rand io.Reader, id *big.Int) (*UserSecretKey, error) {
	r, err := randomScalar(rand)
	if err != nil {
		return nil, fmt.Errorf("ibe: sampling extraction randomness: %w", err)
	}

	d0 := new(bn256.G2).ScalarMult(mk.params.g1Hat, id)
	d0.Add(d0, mk.params.h2Hat)
	d0.ScalarMult(d0, r)
	d0.Add(d0, mk.g0Hat)

	d1 := new(bn256.G2).ScalarBaseMult(r)

	return &UserSecretKey{D0: d0, D1: d1}, nil
}

// HashToScalar hashes arbitrary domain-separated data into a scalar in
// [1, bn256.Order). It is the sole contract between an Identity's canonical
// encoding and the IBE identity domain (irmaseal.Identity.Derive uses it).
func HashToScalar(prefix byte, data []byte) *big.Int {
	h := sha256.New()
	h.Write([]byte{prefix})
	h.Write(data)
	sum := h.Sum(nil)

	k := new(big.Int).SetBytes(sum)
	k.Mod(k, bn256.Order)
	if k.Sign() == 0 {
		k.SetInt64(1)
	}
	return k
}

func randomScalar(rand io.Reader) (*big.Int, error) {
	for {
		k, err := cryptorand.Int(rand, bn256.Order)
		if err != nil {
			return nil, err
		}
		if k.Sign() > 0 {
			return k, nil
		}
	}
}
