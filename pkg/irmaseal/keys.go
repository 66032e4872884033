package irmaseal

import (
	"io"
	"math/big"

	"github.com/privacybydesign/irmaseal-go/internal/ibe"
)

// PublicKey is the PKG's public parameters: anyone holding one can Seal to
// any Identity, but only the holder of a matching UserSecretKey can Unseal.
type PublicKey struct {
	params *ibe.PublicParams
}

// MasterKey is the PKG's secret. It is the sole input to ExtractUSK; a real
// deployment keeps it inside the PKG process and never serializes it to a
// sealer or opener.
type MasterKey struct {
	inner *ibe.MasterKey
}

// UserSecretKey is the per-identity decryption key a PKG issues out of band.
// Opener.Unseal is the only operation in this module that consumes one.
type UserSecretKey struct {
	inner *ibe.UserSecretKey
}

// Setup runs PKG key generation, producing a PublicKey every sender can seal
// against and the MasterKey the PKG retains to extract UserSecretKeys.
func Setup(rand io.Reader) (PublicKey, MasterKey, error) {
	pp, mk, err := ibe.Setup(rand)
	if err != nil {
		return PublicKey{}, MasterKey{}, errorf("Setup", err)
	}
	return PublicKey{params: pp}, MasterKey{inner: mk}, nil
}

// ExtractUSK issues a UserSecretKey for the given Identity. This models the
// PKG-side half of the out-of-band key-issuance protocol spec.md treats as
// external; distributing the result to the right holder is out of scope.
func (mk MasterKey) ExtractUSK(rand io.Reader, id Identity) (UserSecretKey, error) {
	derived, err := id.Derive()
	if err != nil {
		return UserSecretKey{}, err
	}
	usk, err := mk.inner.ExtractUSK(rand, derived)
	if err != nil {
		return UserSecretKey{}, errorf("ExtractUSK", err)
	}
	return UserSecretKey{inner: usk}, nil
}

// PublicKey returns the public parameters bound to mk, equivalent to the
// value Setup returned alongside it.
func (mk MasterKey) PublicKey() PublicKey {
	return PublicKey{params: mk.inner.Params()}
}

// Marshal encodes pk for storage or transmission.
func (pk PublicKey) Marshal() []byte { return pk.params.Marshal() }

// UnmarshalPublicKey decodes the output of PublicKey.Marshal.
func UnmarshalPublicKey(b []byte) (PublicKey, error) {
	pp, err := ibe.UnmarshalPublicParams(b)
	if err != nil {
		return PublicKey{}, errorf("UnmarshalPublicKey", err)
	}
	return PublicKey{params: pp}, nil
}

// Marshal encodes mk. Callers that persist the result are responsible for
// protecting it at rest -- it is the PKG's entire secret.
func (mk MasterKey) Marshal() []byte { return mk.inner.Marshal() }

// UnmarshalMasterKey decodes the output of MasterKey.Marshal.
func UnmarshalMasterKey(b []byte) (MasterKey, error) {
	inner, err := ibe.UnmarshalMasterKey(b)
	if err != nil {
		return MasterKey{}, errorf("UnmarshalMasterKey", err)
	}
	return MasterKey{inner: inner}, nil
}

// Marshal encodes usk.
func (usk UserSecretKey) Marshal() []byte { return usk.inner.Marshal() }

// UnmarshalUserSecretKey decodes the output of UserSecretKey.Marshal.
func UnmarshalUserSecretKey(b []byte) (UserSecretKey, error) {
	inner, err := ibe.UnmarshalUserSecretKey(b)
	if err != nil {
		return UserSecretKey{}, errorf("UnmarshalUserSecretKey", err)
	}
	return UserSecretKey{inner: inner}, nil
}

func encapsulate(pk PublicKey, id *big.Int, rand io.Reader) (c [CiphertextSize]byte, secret [SecretSize]byte, err error) {
	return ibe.Encrypt(pk.params, id, rand)
}

func decapsulate(usk UserSecretKey, c [CiphertextSize]byte) (secret [SecretSize]byte, err error) {
	secret, err = ibe.Decrypt(usk.inner, c)
	if err != nil {
		return secret, errorf("decapsulate", ErrFormatViolation)
	}
	return secret, nil
}
