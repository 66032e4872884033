package irmaseal

import "github.com/privacybydesign/irmaseal-go/internal/ibe"

const (
	// BlockSize is the chunk size the Sealer reads plaintext in and the
	// Opener reads ciphertext in (the Opener's buffer is BlockSize+MACSize).
	BlockSize = 512

	// MACSize is the width of the trailing authentication tag.
	MACSize = 32

	// KeySize is the width of the symmetric encryption key and the MAC key.
	KeySize = 32

	// IVSize is the width of the AES-CTR nonce.
	IVSize = 16

	// MaxMetadataSize bounds the encoded Metadata length; a meta_len at or
	// above this value is rejected before any decode is attempted.
	MaxMetadataSize = 8192

	// MaxAttributeLength bounds each Identity string field.
	MaxAttributeLength = 256

	// CiphertextSize is the fixed width of the IBE encapsulation carried in
	// Metadata.
	CiphertextSize = ibe.CiphertextSize

	// SecretSize is the width of the shared secret the IBE KEM encapsulates,
	// before it is split into skey and mackey by deriveKeys.
	SecretSize = ibe.SecretSize
)

// Prelude is the 4-byte magic that prefixes every sealed stream.
var Prelude = [4]byte{0x14, 0x8A, 0x8E, 0xA7}
