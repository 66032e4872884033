package irmaseal

import (
	"encoding/binary"
)

// Version tags the Metadata wire format. The format currently recognizes a
// single variant; IncorrectVersion is reserved for a future skew.
type Version uint8

const (
	// V1_0 is the only Version this module currently encodes or decodes.
	V1_0 Version = 1
)

// Metadata is the self-describing record carried between META_LEN and
// CIPHERTEXT in the sealed stream layout: the IBE encapsulation, the
// symmetric IV, the tagged format version, and the recipient Identity.
// Metadata is born at seal time, encoded once, and never mutated.
type Metadata struct {
	Version  Version
	C        [CiphertextSize]byte
	IV       [IVSize]byte
	Identity Identity
}

// Encode produces the deterministic byte encoding of m: the same Metadata
// value always encodes to the same bytes, which is what makes the header MAC
// reproducible across encode/decode round trips.
func (m Metadata) Encode() ([]byte, error) {
	identityBytes := m.Identity.CanonicalEncoding()

	total := 1 + CiphertextSize + IVSize + len(identityBytes)
	if total >= MaxMetadataSize {
		return nil, errorf("Metadata.Encode", ErrFormatViolation)
	}

	buf := make([]byte, total)
	off := 0
	buf[off] = byte(m.Version)
	off++
	off += copy(buf[off:], m.C[:])
	off += copy(buf[off:], m.IV[:])
	copy(buf[off:], identityBytes)

	return buf, nil
}

// DecodeMetadata parses the encoding Encode produces. It fails with
// ErrFormatViolation if the buffer is too short, too long, carries an
// out-of-range identity field, or has trailing bytes once every field has
// been consumed. An unrecognized version tag fails with ErrIncorrectVersion,
// and identity strings that are not valid UTF-8 fail with
// ErrConstraintViolation.
func DecodeMetadata(b []byte) (Metadata, error) {
	var m Metadata

	if len(b) == 0 || len(b) >= MaxMetadataSize {
		return m, errorf("DecodeMetadata", ErrFormatViolation)
	}

	minLen := 1 + CiphertextSize + IVSize + 8 + 2 + 1
	if len(b) < minLen {
		return m, errorf("DecodeMetadata", ErrFormatViolation)
	}

	off := 0
	version := Version(b[off])
	if version != V1_0 {
		return m, errorf("DecodeMetadata", ErrIncorrectVersion)
	}
	m.Version = version
	off++

	copy(m.C[:], b[off:off+CiphertextSize])
	off += CiphertextSize

	copy(m.IV[:], b[off:off+IVSize])
	off += IVSize

	id, n, err := decodeIdentity(b[off:])
	if err != nil {
		return Metadata{}, err
	}
	off += n

	if off != len(b) {
		return Metadata{}, errorf("DecodeMetadata", ErrFormatViolation)
	}

	m.Identity = id
	return m, nil
}

// decodeIdentity parses the canonical Identity encoding from the front of b
// and reports how many bytes it consumed, so the caller can detect trailing
// garbage after the last field.
func decodeIdentity(b []byte) (Identity, int, error) {
	var id Identity

	if len(b) < 8+2 {
		return id, 0, errorf("decodeIdentity", ErrFormatViolation)
	}
	off := 0
	id.Timestamp = binary.BigEndian.Uint64(b[off:])
	off += 8

	atLen := int(binary.BigEndian.Uint16(b[off:]))
	off += 2
	if atLen > MaxAttributeLength || len(b) < off+atLen+1 {
		return Identity{}, 0, errorf("decodeIdentity", ErrFormatViolation)
	}
	id.AttributeType = string(b[off : off+atLen])
	off += atLen

	flag := b[off]
	off++

	switch flag {
	case 0:
		id.HasValue = false
	case 1:
		if len(b) < off+2 {
			return Identity{}, 0, errorf("decodeIdentity", ErrFormatViolation)
		}
		valLen := int(binary.BigEndian.Uint16(b[off:]))
		off += 2
		if valLen > MaxAttributeLength || len(b) < off+valLen {
			return Identity{}, 0, errorf("decodeIdentity", ErrFormatViolation)
		}
		id.AttributeValue = string(b[off : off+valLen])
		id.HasValue = true
		off += valLen
	default:
		return Identity{}, 0, errorf("decodeIdentity", ErrFormatViolation)
	}

	if err := id.Validate(); err != nil {
		return Identity{}, 0, err
	}

	return id, off, nil
}
