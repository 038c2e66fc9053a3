package pgp

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
)

// writeKeyring generates a fresh PGP entity, signs message with it, exports
// its armored public key into a fresh keyring directory, and returns the
// directory plus the detached signature bytes.
func writeKeyring(t *testing.T, message []byte) (string, []byte) {
	t.Helper()

	entity, err := openpgp.NewEntity("Jane Doe", "", "jane@example.dn42", nil)
	if err != nil {
		t.Fatalf("NewEntity: %v", err)
	}

	var pub bytes.Buffer
	w, err := armor.Encode(&pub, openpgp.PublicKeyType, nil)
	if err != nil {
		t.Fatalf("armor.Encode: %v", err)
	}
	if err := entity.Serialize(w); err != nil {
		t.Fatalf("entity.Serialize: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close armor writer: %v", err)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "jane.asc"), pub.Bytes(), 0o644); err != nil {
		t.Fatalf("write keyring file: %v", err)
	}

	var sig bytes.Buffer
	if err := openpgp.DetachSign(&sig, entity, bytes.NewReader(message), nil); err != nil {
		t.Fatalf("DetachSign: %v", err)
	}

	return dir, sig.Bytes()
}

func TestKeyringVerifierValidSignature(t *testing.T) {
	body := []byte(`{"asn":4242420000}`)
	dir, sig := writeKeyring(t, body)

	v := NewKeyringVerifier(dir)
	result, err := v.VerifyDetached(context.Background(), body, sig)
	if err != nil {
		t.Fatalf("VerifyDetached: %v", err)
	}
	if !result.Valid {
		t.Fatal("VerifyDetached: expected a valid signature")
	}
	if len(result.Signers) != 1 {
		t.Fatalf("VerifyDetached: got %d signers, want 1", len(result.Signers))
	}
	if result.Signers[0].Email != "jane@example.dn42" {
		t.Fatalf("VerifyDetached: got email %q, want jane@example.dn42", result.Signers[0].Email)
	}
}

func TestKeyringVerifierTamperedBody(t *testing.T) {
	body := []byte(`{"asn":4242420000}`)
	dir, sig := writeKeyring(t, body)

	v := NewKeyringVerifier(dir)
	result, err := v.VerifyDetached(context.Background(), []byte(`{"asn":9999999999}`), sig)
	if err != nil {
		t.Fatalf("VerifyDetached: %v", err)
	}
	if result.Valid {
		t.Fatal("VerifyDetached: expected a tampered body to fail verification")
	}
}

func TestKeyringVerifierUnknownKeyringDir(t *testing.T) {
	v := NewKeyringVerifier(filepath.Join(t.TempDir(), "does-not-exist"))
	if _, err := v.VerifyDetached(context.Background(), []byte("body"), []byte("sig")); err == nil {
		t.Fatal("VerifyDetached: expected error for missing keyring directory")
	}
}
