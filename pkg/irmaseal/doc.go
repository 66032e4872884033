// Package irmaseal implements a streaming, identity-based hybrid encryption
// format: a sender seals an arbitrary bytestream to an Identity (a
// domain-specific attribute such as a verified e-mail address), and any
// holder of a UserSecretKey issued for a matching Identity can open and
// authenticate the stream in a single forward pass.
//
// The identity-based encapsulation lives in the internal/ibe package; this
// package composes it with AES-256-CTR and HMAC-SHA3-256 into a hybrid
// KEM/DEM construction, and drives the Sealer and Opener state machines that
// operate in bounded memory over arbitrarily large payloads.
package irmaseal
