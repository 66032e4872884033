package irmaseal

import (
	"bytes"
	"context"
	"crypto/hmac"
	"encoding/binary"
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/privacybydesign/irmaseal-go/pkg/irmaseal/logging"
)

// Opener is the read-side state machine. It exists in two phases: header-
// parsed (constructed by NewOpener, exposing Metadata) and draining (Unseal,
// consuming ciphertext into a plaintext writer). It exclusively owns the
// reader and the symmetric/MAC contexts until Unseal returns.
type Opener struct {
	r        io.Reader
	header   []byte
	metadata Metadata
	logger   logging.Logger
}

// NewOpener reads and parses the fixed-position header of a sealed stream:
// the 4-byte prelude, the 2-byte big-endian meta_len, and meta_len bytes of
// encoded Metadata. It returns the decoded Metadata before any plaintext is
// produced, so the caller can look up the matching UserSecretKey.
func NewOpener(r io.Reader, logger logging.Logger) (Metadata, *Opener, error) {
	if logger == nil {
		logger = logging.New(nil)
	}

	var prelude [4]byte
	if _, err := io.ReadFull(r, prelude[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Metadata{}, nil, errorf("NewOpener", ErrNotIRMASEAL)
		}
		return Metadata{}, nil, ReadError("NewOpener", err)
	}
	if !bytes.Equal(prelude[:], Prelude[:]) {
		return Metadata{}, nil, errorf("NewOpener", ErrNotIRMASEAL)
	}

	var metaLenBytes [2]byte
	if _, err := io.ReadFull(r, metaLenBytes[:]); err != nil {
		return Metadata{}, nil, errorf("NewOpener", ErrFormatViolation)
	}
	metaLen := binary.BigEndian.Uint16(metaLenBytes[:])
	if metaLen == 0 || int(metaLen) >= MaxMetadataSize {
		return Metadata{}, nil, errorf("NewOpener", ErrFormatViolation)
	}

	metaBytes := make([]byte, metaLen)
	if _, err := io.ReadFull(r, metaBytes); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Metadata{}, nil, errorf("NewOpener", ErrFormatViolation)
		}
		return Metadata{}, nil, ReadError("NewOpener", err)
	}

	meta, err := DecodeMetadata(metaBytes)
	if err != nil {
		return Metadata{}, nil, err
	}

	header := make([]byte, 0, len(prelude)+len(metaLenBytes)+len(metaBytes))
	header = append(header, prelude[:]...)
	header = append(header, metaLenBytes[:]...)
	header = append(header, metaBytes...)

	logger.Debug(context.Background(), "opener header parsed", "meta_len", metaLen)

	return meta, &Opener{r: r, header: header, metadata: meta, logger: logger}, nil
}

// Unseal drains the remainder of the stream into w, decrypting with the keys
// derived from usk and verifying the trailing MAC via delayed-MAC streaming:
// it always holds back the last MACSize bytes read, since the wire format
// carries no length field distinguishing ciphertext from the tag.
//
// The returned bool is the verification outcome, not an error: a mismatched
// MAC is a normal "false" result. Plaintext already written to w when the
// result is false MUST NOT be trusted by the caller.
func (o *Opener) Unseal(usk UserSecretKey, w io.Writer) (bool, error) {
	secret, err := decapsulate(usk, o.metadata.C)
	if err != nil {
		return false, err
	}
	defer zeroizeBytes(secret[:])

	skey, mackey, err := deriveKeys(secret)
	if err != nil {
		return false, errorf("Unseal", err)
	}
	defer zeroizeBytes(skey[:])
	defer zeroizeBytes(mackey[:])

	stream, err := newStreamCipher(skey, o.metadata.IV)
	if err != nil {
		return false, errorf("Unseal", err)
	}

	mac := hmac.New(sha3.New256, mackey[:])
	if _, err := mac.Write(o.header); err != nil {
		return false, errorf("Unseal", err)
	}

	buf := make([]byte, BlockSize+MACSize)

	tail := 0
	for tail < MACSize {
		n, err := o.r.Read(buf[tail:MACSize])
		tail += n
		if err == io.EOF {
			break
		}
		if err != nil {
			return false, ReadError("Unseal", err)
		}
	}
	if tail < MACSize {
		return false, errorf("Unseal", ErrFormatViolation)
	}

	for {
		n, rerr := o.r.Read(buf[tail:])
		tail += n
		eof := rerr == io.EOF

		if tail >= 2*MACSize || (eof && tail > MACSize) {
			emit := tail - MACSize
			chunk := buf[:emit]

			if _, err := mac.Write(chunk); err != nil {
				return false, errorf("Unseal", err)
			}
			stream.XORKeyStream(chunk, chunk)
			if _, werr := w.Write(chunk); werr != nil {
				return false, WriteError("Unseal", werr)
			}

			copy(buf[0:MACSize], buf[emit:tail])
			tail = MACSize
		}

		if eof {
			break
		}
		if rerr != nil {
			return false, ReadError("Unseal", rerr)
		}
	}

	tag := buf[:MACSize]
	expected := mac.Sum(nil)
	verified := hmac.Equal(expected, tag)

	o.logger.Debug(context.Background(), "unseal complete", "verified", verified)

	return verified, nil
}
