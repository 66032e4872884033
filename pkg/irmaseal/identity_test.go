package irmaseal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func referenceIdentity() Identity {
	return NewIdentity(1566722350, "pbdf.pbdf.email.email", "w.geraedts@sarif.nl")
}

func TestIdentityCanonicalEncodingRoundTrip(t *testing.T) {
	id := referenceIdentity()
	encoded := id.CanonicalEncoding()

	decoded, n, err := decodeIdentity(encoded)
	require.NoError(t, err)
	require.Equal(t, len(encoded), n)
	require.True(t, id.Equal(decoded))
}

func TestIdentityWithoutValueRoundTrip(t *testing.T) {
	id := Identity{Timestamp: 42, AttributeType: "pbdf.pbdf.email.email", HasValue: false}
	encoded := id.CanonicalEncoding()

	decoded, n, err := decodeIdentity(encoded)
	require.NoError(t, err)
	require.Equal(t, len(encoded), n)
	require.False(t, decoded.HasValue)
	require.True(t, id.Equal(decoded))
}

func TestIdentityEqualityTracksCanonicalEncoding(t *testing.T) {
	a := referenceIdentity()
	b := referenceIdentity()
	require.True(t, a.Equal(b))

	c := NewIdentity(a.Timestamp, a.AttributeType, a.AttributeValue+"x")
	require.False(t, a.Equal(c))
}

func TestIdentityValidateRejectsOversizedAttributeType(t *testing.T) {
	id := Identity{
		Timestamp:     1,
		AttributeType: strings.Repeat("a", MaxAttributeLength+1),
	}
	err := id.Validate()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrConstraintViolation)
}

func TestIdentityValidateRejectsInvalidUTF8(t *testing.T) {
	id := Identity{
		Timestamp:     1,
		AttributeType: string([]byte{0xff, 0xfe, 0xfd}),
	}
	err := id.Validate()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrConstraintViolation)
}

func TestIdentityDeriveIsDeterministic(t *testing.T) {
	id := referenceIdentity()

	a, err := id.Derive()
	require.NoError(t, err)
	b, err := id.Derive()
	require.NoError(t, err)

	require.Equal(t, 0, a.Cmp(b))
}

func TestIdentityDeriveDiffersAcrossIdentities(t *testing.T) {
	a := referenceIdentity()
	b := NewIdentity(a.Timestamp, a.AttributeType, "someone.else@example.org")

	derivedA, err := a.Derive()
	require.NoError(t, err)
	derivedB, err := b.Derive()
	require.NoError(t, err)

	require.NotEqual(t, 0, derivedA.Cmp(derivedB))
}
