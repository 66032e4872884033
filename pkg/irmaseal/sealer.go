package irmaseal

import (
	"context"
	"crypto/cipher"
	"crypto/hmac"
	"encoding/binary"
	"hash"
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/privacybydesign/irmaseal-go/pkg/irmaseal/logging"
)

// Sealer is the write-side state machine: it owns the output writer and the
// symmetric/MAC contexts from construction until Finish, converting a
// plaintext bytestream into a sealed one in a single forward pass.
//
// A Sealer MUST have Finish called on it on every exit path; until Finish
// runs, the bytes already written to the output are not a valid sealed
// stream.
type Sealer struct {
	w       io.Writer
	stream  cipher.Stream
	macH    hash.Hash
	logger  logging.Logger
	tmp     [BlockSize]byte
	skey    [KeySize]byte
	mackey  [KeySize]byte
	secret  [SecretSize]byte
	finished bool
}

// NewSealer runs Sealer construction step-for-step: derive the IBE
// encapsulation for identity, derive the symmetric and MAC keys, sample an
// IV, encode Metadata, and write and authenticate the header
// (PRELUDE ‖ meta_len ‖ metadata) before any plaintext is consumed.
func NewSealer(identity Identity, pk PublicKey, rand io.Reader, w io.Writer, logger logging.Logger) (*Sealer, error) {
	if logger == nil {
		logger = logging.New(nil)
	}

	id, err := identity.Derive()
	if err != nil {
		return nil, err
	}

	c, secret, err := encapsulate(pk, id, rand)
	if err != nil {
		return nil, errorf("NewSealer", err)
	}

	skey, mackey, err := deriveKeys(secret)
	if err != nil {
		return nil, errorf("NewSealer", err)
	}

	iv, err := generateIV(rand)
	if err != nil {
		return nil, errorf("NewSealer", err)
	}

	stream, err := newStreamCipher(skey, iv)
	if err != nil {
		return nil, errorf("NewSealer", err)
	}

	meta := Metadata{Version: V1_0, C: c, IV: iv, Identity: identity}
	metaBytes, err := meta.Encode()
	if err != nil {
		return nil, err
	}

	var metaLen [2]byte
	binary.BigEndian.PutUint16(metaLen[:], uint16(len(metaBytes)))

	mac := hmac.New(sha3.New256, mackey[:])

	if _, err := mac.Write(Prelude[:]); err != nil {
		return nil, errorf("NewSealer", err)
	}
	if _, err := w.Write(Prelude[:]); err != nil {
		return nil, WriteError("NewSealer", err)
	}

	if _, err := mac.Write(metaLen[:]); err != nil {
		return nil, errorf("NewSealer", err)
	}
	if _, err := w.Write(metaLen[:]); err != nil {
		return nil, WriteError("NewSealer", err)
	}

	if _, err := mac.Write(metaBytes); err != nil {
		return nil, errorf("NewSealer", err)
	}
	if _, err := w.Write(metaBytes); err != nil {
		return nil, WriteError("NewSealer", err)
	}

	logger.Debug(context.Background(), "sealer header written",
		logging.Redacted("skey"), logging.Redacted("mackey"),
		"meta_len", len(metaBytes))

	return &Sealer{
		w:      w,
		stream: stream,
		macH:   mac,
		logger: logger,
		skey:   skey,
		mackey: mackey,
		secret: secret,
	}, nil
}

// Seal consumes r in BlockSize chunks, encrypting each in place, feeding the
// ciphertext into the running MAC, and writing it to the output. It returns
// once r signals end-of-stream; it does not write the trailer (see Finish).
func (s *Sealer) Seal(r io.Reader) error {
	for {
		n, err := r.Read(s.tmp[:])
		if n > 0 {
			chunk := s.tmp[:n]
			s.stream.XORKeyStream(chunk, chunk)
			if _, werr := s.macH.Write(chunk); werr != nil {
				return errorf("Seal", werr)
			}
			if _, werr := s.w.Write(chunk); werr != nil {
				return WriteError("Seal", werr)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return ReadError("Seal", err)
		}
	}
}

// Finish emits the trailing 32-byte MAC tag and releases the Sealer's
// sensitive state. It is the terminal, caller-invoked replacement for the
// blocking destructor-based flush of this format's original implementation:
// it MUST be called on every exit path after construction succeeds, and its
// returned error (if any) is the authoritative outcome of the seal operation.
// The trailer is written only by the first call; later calls return nil
// without writing anything.
func (s *Sealer) Finish() error {
	if s.finished {
		return nil
	}
	s.finished = true

	tag := s.macH.Sum(nil)
	defer zeroizeBytes(s.skey[:])
	defer zeroizeBytes(s.mackey[:])
	defer zeroizeBytes(s.secret[:])

	if _, err := s.w.Write(tag); err != nil {
		return WriteError("Finish", err)
	}
	return nil
}
