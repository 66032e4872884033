package irmaseal

import (
	"encoding/binary"
	"math/big"
	"unicode/utf8"

	"github.com/privacybydesign/irmaseal-go/internal/ibe"
)

// Identity names the recipient of a sealed stream: a domain-specific
// attribute (such as a verified e-mail address) paired with the timestamp at
// which it must have been valid. Two Identities are equal iff their
// canonical encodings are equal, which is also the property Derive relies on.
type Identity struct {
	Timestamp      uint64
	AttributeType  string
	AttributeValue string
	HasValue       bool
}

// NewIdentity builds an Identity carrying an attribute value.
func NewIdentity(timestamp uint64, attributeType, attributeValue string) Identity {
	return Identity{
		Timestamp:      timestamp,
		AttributeType:  attributeType,
		AttributeValue: attributeValue,
		HasValue:       true,
	}
}

// Validate checks the bounded-length and UTF-8 invariants spec.md §3
// requires of an Identity's string fields.
func (id Identity) Validate() error {
	if !utf8.ValidString(id.AttributeType) {
		return errorf("Identity.Validate", ErrConstraintViolation)
	}
	if len(id.AttributeType) > MaxAttributeLength {
		return errorf("Identity.Validate", ErrConstraintViolation)
	}
	if id.HasValue {
		if !utf8.ValidString(id.AttributeValue) {
			return errorf("Identity.Validate", ErrConstraintViolation)
		}
		if len(id.AttributeValue) > MaxAttributeLength {
			return errorf("Identity.Validate", ErrConstraintViolation)
		}
	}
	return nil
}

// CanonicalEncoding produces the wire encoding spec.md §6 defines:
// timestamp (u64 BE) ‖ len(attribute_type) ‖ attribute_type_bytes ‖
// flag_has_value ‖ [len(value) ‖ value_bytes]. This is both the encoding
// hashed by Derive and the encoding used inside Metadata.
func (id Identity) CanonicalEncoding() []byte {
	atBytes := []byte(id.AttributeType)

	size := 8 + 2 + len(atBytes) + 1
	if id.HasValue {
		size += 2 + len(id.AttributeValue)
	}

	buf := make([]byte, size)
	off := 0
	binary.BigEndian.PutUint64(buf[off:], id.Timestamp)
	off += 8
	binary.BigEndian.PutUint16(buf[off:], uint16(len(atBytes)))
	off += 2
	off += copy(buf[off:], atBytes)

	if id.HasValue {
		buf[off] = 1
		off++
		valBytes := []byte(id.AttributeValue)
		binary.BigEndian.PutUint16(buf[off:], uint16(len(valBytes)))
		off += 2
		off += copy(buf[off:], valBytes)
	} else {
		buf[off] = 0
		off++
	}

	return buf[:off]
}

// Derive is the sole contract between Identity and the IBE primitive: it
// hashes the canonical encoding into the IBE identity domain. Two Identities
// compare equal iff their derived points are equal, since the canonical
// encoding is injective over (timestamp, attribute_type, attribute_value).
func (id Identity) Derive() (*big.Int, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return ibe.HashToScalar(0x00, id.CanonicalEncoding()), nil
}

// Equal reports whether id and other encode identically.
func (id Identity) Equal(other Identity) bool {
	a, b := id.CanonicalEncoding(), other.CanonicalEncoding()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
