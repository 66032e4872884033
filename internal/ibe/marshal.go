package ibe

import (
	"bytes"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bn256"
)

// magicNumber prefixes every marshaled value this package produces, so a
// misrouted byte string is rejected before the curve-point unmarshal even
// runs.
var magicNumber = []byte{0x1b, 0xe0}

type marshaledType byte

const (
	typePublicParams marshaledType = 0
	typeMasterKey    marshaledType = 1
	typeUserSecret   marshaledType = 2

	headerSize = len(magicNumber) + 1

	g2Size = 4 * 32
	gtSize = 12 * 32

	marshaledPublicParamsSize = 2*G1Size + 3*g2Size + gtSize
)

func writeHeader(typ marshaledType) []byte {
	ret := make([]byte, headerSize)
	copy(ret, magicNumber)
	ret[len(magicNumber)] = byte(typ)
	return ret
}

func readHeader(want marshaledType, b []byte) ([]byte, error) {
	if len(b) < headerSize {
		return nil, fmt.Errorf("ibe: marshaled value too short")
	}
	if !bytes.Equal(b[:len(magicNumber)], magicNumber) {
		return nil, fmt.Errorf("ibe: invalid magic number")
	}
	if marshaledType(b[len(magicNumber)]) != want {
		return nil, fmt.Errorf("ibe: unexpected marshaled type")
	}
	return b[headerSize:], nil
}

// Marshal encodes pp for storage or transmission. The generator g is not
// encoded -- it is fixed by the curve and rebuilt on unmarshal; gHat is
// encoded alongside the key-dependent points g1, h, g1Hat, h2Hat and v.
func (pp *PublicParams) Marshal() []byte {
	out := writeHeader(typePublicParams)
	out = append(out, pp.g1.Marshal()...)
	out = append(out, pp.h.Marshal()...)
	out = append(out, pp.g1Hat.Marshal()...)
	out = append(out, pp.h2Hat.Marshal()...)
	out = append(out, pp.gHat.Marshal()...)
	out = append(out, pp.v.Marshal()...)
	return out
}

// UnmarshalPublicParams decodes the output of PublicParams.Marshal.
func UnmarshalPublicParams(b []byte) (*PublicParams, error) {
	body, err := readHeader(typePublicParams, b)
	if err != nil {
		return nil, err
	}
	if len(body) != marshaledPublicParamsSize {
		return nil, fmt.Errorf("ibe: malformed public params")
	}

	pp := &PublicParams{g: new(bn256.G1)}
	pp.g.ScalarBaseMult(big.NewInt(1))

	off := 0
	var ok bool

	pp.g1, ok = openCT(new(bn256.G1).Unmarshal(body[off : off+G1Size]))
	if !ok {
		return nil, fmt.Errorf("ibe: malformed g1")
	}
	off += G1Size

	pp.h, ok = openCT(new(bn256.G1).Unmarshal(body[off : off+G1Size]))
	if !ok {
		return nil, fmt.Errorf("ibe: malformed h")
	}
	off += G1Size

	pp.g1Hat, ok = openCT(new(bn256.G2).Unmarshal(body[off : off+g2Size]))
	if !ok {
		return nil, fmt.Errorf("ibe: malformed g1Hat")
	}
	off += g2Size

	pp.h2Hat, ok = openCT(new(bn256.G2).Unmarshal(body[off : off+g2Size]))
	if !ok {
		return nil, fmt.Errorf("ibe: malformed h2Hat")
	}
	off += g2Size

	pp.gHat, ok = openCT(new(bn256.G2).Unmarshal(body[off : off+g2Size]))
	if !ok {
		return nil, fmt.Errorf("ibe: malformed gHat")
	}
	off += g2Size

	pp.v, ok = openCT(new(bn256.GT).Unmarshal(body[off : off+gtSize]))
	if !ok {
		return nil, fmt.Errorf("ibe: malformed v")
	}

	return pp, nil
}

// Marshal encodes mk, including the public parameters it was generated
// alongside. A real PKG deployment never serializes this; it exists here for
// command-line demonstration and test fixtures.
func (mk *MasterKey) Marshal() []byte {
	out := writeHeader(typeMasterKey)
	out = append(out, mk.params.Marshal()...)
	out = append(out, mk.g0Hat.Marshal()...)
	return out
}

// UnmarshalMasterKey decodes the output of MasterKey.Marshal.
func UnmarshalMasterKey(b []byte) (*MasterKey, error) {
	body, err := readHeader(typeMasterKey, b)
	if err != nil {
		return nil, err
	}

	ppLen := headerSize + marshaledPublicParamsSize
	if len(body) != ppLen+g2Size {
		return nil, fmt.Errorf("ibe: malformed master key")
	}

	pp, err := UnmarshalPublicParams(body[:ppLen])
	if err != nil {
		return nil, err
	}

	g0Hat, ok := openCT(new(bn256.G2).Unmarshal(body[ppLen:]))
	if !ok {
		return nil, fmt.Errorf("ibe: malformed master secret")
	}

	return &MasterKey{params: pp, g0Hat: g0Hat}, nil
}

// Marshal encodes usk.
func (usk *UserSecretKey) Marshal() []byte {
	out := writeHeader(typeUserSecret)
	out = append(out, usk.D0.Marshal()...)
	out = append(out, usk.D1.Marshal()...)
	return out
}

// UnmarshalUserSecretKey decodes the output of UserSecretKey.Marshal.
func UnmarshalUserSecretKey(b []byte) (*UserSecretKey, error) {
	body, err := readHeader(typeUserSecret, b)
	if err != nil {
		return nil, err
	}
	if len(body) != 2*g2Size {
		return nil, fmt.Errorf("ibe: malformed user secret key")
	}

	d0, ok := openCT(new(bn256.G2).Unmarshal(body[:g2Size]))
	if !ok {
		return nil, fmt.Errorf("ibe: malformed D0")
	}
	d1, ok := openCT(new(bn256.G2).Unmarshal(body[g2Size:]))
	if !ok {
		return nil, fmt.Errorf("ibe: malformed D1")
	}

	return &UserSecretKey{D0: d0, D1: d1}, nil
}
