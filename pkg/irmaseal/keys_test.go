package irmaseal

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestPublicKeyAndMasterKeyMarshalRoundTrip(t *testing.T) {
	pk, mk, err := Setup(rand.Reader)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	pkBytes := pk.Marshal()
	pkRT, err := UnmarshalPublicKey(pkBytes)
	if err != nil {
		t.Fatalf("UnmarshalPublicKey: %v", err)
	}
	if !bytes.Equal(pkRT.Marshal(), pkBytes) {
		t.Fatalf("PublicKey did not round-trip")
	}

	mkBytes := mk.Marshal()
	mkRT, err := UnmarshalMasterKey(mkBytes)
	if err != nil {
		t.Fatalf("UnmarshalMasterKey: %v", err)
	}

	id := referenceIdentity()
	usk, err := mkRT.ExtractUSK(rand.Reader, id)
	if err != nil {
		t.Fatalf("ExtractUSK on round-tripped MasterKey: %v", err)
	}

	uskBytes := usk.Marshal()
	uskRT, err := UnmarshalUserSecretKey(uskBytes)
	if err != nil {
		t.Fatalf("UnmarshalUserSecretKey: %v", err)
	}
	if !bytes.Equal(uskRT.Marshal(), uskBytes) {
		t.Fatalf("UserSecretKey did not round-trip")
	}

	var sealed bytes.Buffer
	sealer, err := NewSealer(id, pk, rand.Reader, &sealed, nil)
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}
	plaintext := []byte("marshaled keys still work end to end")
	if err := sealer.Seal(bytes.NewReader(plaintext)); err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if err := sealer.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	_, opener, err := NewOpener(bytes.NewReader(sealed.Bytes()), nil)
	if err != nil {
		t.Fatalf("NewOpener: %v", err)
	}
	var dst bytes.Buffer
	verified, err := opener.Unseal(uskRT, &dst)
	if err != nil {
		t.Fatalf("Unseal: %v", err)
	}
	if !verified {
		t.Fatalf("expected verified = true using a round-tripped usk")
	}
	if !bytes.Equal(dst.Bytes(), plaintext) {
		t.Fatalf("plaintext mismatch using round-tripped keys")
	}
}
