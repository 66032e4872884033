package irmaseal

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"testing"
)

func sealReferencePayload(t *testing.T, ks testKeySet, plaintext []byte) []byte {
	t.Helper()

	var out bytes.Buffer
	sealer, err := NewSealer(ks.id, ks.pk, rand.Reader, &out, nil)
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}
	if err := sealer.Seal(bytes.NewReader(plaintext)); err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if err := sealer.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return out.Bytes()
}

func TestNewOpenerRejectsBadPrelude(t *testing.T) {
	ks := setupTestKeys(t)
	sealed := sealReferencePayload(t, ks, []byte("hello"))

	sealed[0] ^= 0xFF

	if _, _, err := NewOpener(bytes.NewReader(sealed), nil); !errors.Is(err, ErrNotIRMASEAL) {
		t.Fatalf("NewOpener with corrupted prelude = %v, want ErrNotIRMASEAL", err)
	}
}

func TestNewOpenerRejectsNonIRMASEALInput(t *testing.T) {
	if _, _, err := NewOpener(bytes.NewReader([]byte("not a sealed stream at all")), nil); !errors.Is(err, ErrNotIRMASEAL) {
		t.Fatalf("NewOpener on arbitrary bytes = %v, want ErrNotIRMASEAL", err)
	}
}

func TestNewOpenerRejectsOversizedMetaLen(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(Prelude[:])
	var metaLen [2]byte
	binary.BigEndian.PutUint16(metaLen[:], uint16(MaxMetadataSize))
	buf.Write(metaLen[:])

	if _, _, err := NewOpener(&buf, nil); !errors.Is(err, ErrFormatViolation) {
		t.Fatalf("NewOpener with meta_len >= MaxMetadataSize = %v, want ErrFormatViolation", err)
	}
}

func TestNewOpenerRejectsZeroMetaLen(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(Prelude[:])
	buf.Write([]byte{0x00, 0x00})

	if _, _, err := NewOpener(&buf, nil); !errors.Is(err, ErrFormatViolation) {
		t.Fatalf("NewOpener with meta_len == 0 = %v, want ErrFormatViolation", err)
	}
}

func TestUnsealRejectsTruncationBelowMACSize(t *testing.T) {
	ks := setupTestKeys(t)
	sealed := sealReferencePayload(t, ks, []byte("a payload long enough to matter"))

	truncated := sealed[:len(sealed)-MACSize-1]

	_, opener, err := NewOpener(bytes.NewReader(truncated), nil)
	if err != nil {
		t.Fatalf("NewOpener: %v", err)
	}

	var dst bytes.Buffer
	_, err = opener.Unseal(ks.usk, &dst)
	if !errors.Is(err, ErrFormatViolation) {
		t.Fatalf("Unseal with fewer than MACSize trailing bytes = %v, want ErrFormatViolation", err)
	}
}

func TestUnsealToleratesShortReads(t *testing.T) {
	ks := setupTestKeys(t)
	plaintext := bytes.Repeat([]byte{0x99}, 2000)
	sealed := sealReferencePayload(t, ks, plaintext)

	_, opener, err := NewOpener(&shortReader{data: sealed}, nil)
	if err != nil {
		t.Fatalf("NewOpener: %v", err)
	}

	var dst bytes.Buffer
	verified, err := opener.Unseal(ks.usk, &dst)
	if err != nil {
		t.Fatalf("Unseal: %v", err)
	}
	if !verified {
		t.Fatalf("expected verified = true")
	}
	if !bytes.Equal(dst.Bytes(), plaintext) {
		t.Fatalf("round-tripped plaintext mismatch under short reads")
	}
}
