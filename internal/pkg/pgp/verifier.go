// Package pgp treats PGP signature verification as an injectable
// capability (spec.md §9 design note), so middleware tests can swap in a
// fake without touching a real keyring.
package pgp

import "context"

// Signer describes one identity that produced a valid signature.
type Signer struct {
	Email       string
	Fingerprint string
}

// Result is the outcome of a detached-signature verification.
type Result struct {
	Valid   bool
	Signers []Signer
}

// Verifier checks a detached PGP signature over a raw byte payload and
// reports which local key(s) produced it.
type Verifier interface {
	VerifyDetached(ctx context.Context, body, signature []byte) (*Result, error)
}
