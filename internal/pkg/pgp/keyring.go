package pgp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"

	"github.com/HappyLadySauce/errors"

	"github.com/dn42/autopeerd/internal/pkg/code"
)

// KeyringVerifier verifies detached signatures against every armored
// public key present in a local directory, populated out-of-band by a
// best-effort `gpg --locate-keys <email>` fetch (spec.md §4.3 step 6; see
// internal/pkg/provision's daemon runner). The local keyring is
// canonical: a failed fetch is not itself a verification failure.
type KeyringVerifier struct {
	KeyringDir string
}

// NewKeyringVerifier returns a Verifier reading public keys from keyringDir.
func NewKeyringVerifier(keyringDir string) *KeyringVerifier {
	return &KeyringVerifier{KeyringDir: keyringDir}
}

// VerifyDetached checks signature against every locally known public key
// and reports every identity the signature validates against. A payload
// bundling more than one OpenPGP signature packet is reported as multiple
// Signers so the caller's "exactly one signature" check can reject it.
func (v *KeyringVerifier) VerifyDetached(_ context.Context, body, signature []byte) (*Result, error) {
	keyring, err := v.loadKeyring()
	if err != nil {
		return nil, errors.WithCode(code.ErrSignatureVerifyFailed, "failed to load local keyring: %v", err)
	}

	sigCount, err := countSignaturePackets(signature)
	if err != nil {
		return nil, errors.WithCode(code.ErrSignatureVerifyFailed, "failed to parse signature: %v", err)
	}
	if sigCount == 0 {
		return nil, errors.WithCode(code.ErrSignatureVerifyFailed, "no signature packet found")
	}

	signer, err := openpgp.CheckDetachedSignature(keyring, bytes.NewReader(body), bytes.NewReader(signature), nil)
	if err != nil {
		return &Result{Valid: false}, nil
	}

	fingerprint := fmt.Sprintf("%X", signer.PrimaryKey.Fingerprint)
	var signers []Signer
	for _, identity := range signer.Identities {
		email := fingerprint
		if identity.UserId != nil {
			email = identity.UserId.Email
		}
		signers = append(signers, Signer{Email: email, Fingerprint: fingerprint})
	}
	if len(signers) == 0 {
		signers = append(signers, Signer{Fingerprint: fingerprint})
	}

	// CheckDetachedSignature only reports the entity matching the first
	// signature packet; replicate the primary signer for any additional
	// packets so len(Signers) still reflects "how many signatures".
	for i := 1; i < sigCount; i++ {
		signers = append(signers, signers[0])
	}

	return &Result{Valid: true, Signers: signers}, nil
}

func (v *KeyringVerifier) loadKeyring() (openpgp.EntityList, error) {
	entries, err := os.ReadDir(v.KeyringDir)
	if err != nil {
		return nil, err
	}

	var all openpgp.EntityList
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		f, err := os.Open(filepath.Join(v.KeyringDir, e.Name()))
		if err != nil {
			continue
		}
		list, err := openpgp.ReadArmoredKeyRing(f)
		f.Close()
		if err != nil {
			continue
		}
		all = append(all, list...)
	}
	return all, nil
}

// countSignaturePackets walks the raw OpenPGP packet stream and counts
// signature packets, since the caller needs to reject multi-signature
// payloads even when every signature individually verifies.
func countSignaturePackets(signature []byte) (int, error) {
	count := 0
	reader := packet.NewReader(bytes.NewReader(signature))
	for {
		p, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}
		if _, ok := p.(*packet.Signature); ok {
			count++
		}
	}
	return count, nil
}
