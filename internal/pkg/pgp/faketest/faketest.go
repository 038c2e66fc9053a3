// Package faketest provides a pgp.Verifier test double so middleware and
// handler tests never touch a real keyring.
package faketest

import (
	"context"

	"github.com/dn42/autopeerd/internal/pkg/pgp"
)

// Verifier returns a scripted result regardless of its input, optionally
// recording every call for assertions.
type Verifier struct {
	Result *pgp.Result
	Err    error

	Calls [][]byte
}

// New returns a Verifier that reports a single valid signer.
func New(email, fingerprint string) *Verifier {
	return &Verifier{
		Result: &pgp.Result{
			Valid:   true,
			Signers: []pgp.Signer{{Email: email, Fingerprint: fingerprint}},
		},
	}
}

// VerifyDetached implements pgp.Verifier.
func (v *Verifier) VerifyDetached(_ context.Context, body, _ []byte) (*pgp.Result, error) {
	v.Calls = append(v.Calls, body)
	if v.Err != nil {
		return nil, v.Err
	}
	return v.Result, nil
}
