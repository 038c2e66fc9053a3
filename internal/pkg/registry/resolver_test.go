package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRegistryFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	dirs := []string{"data/aut-num", "data/person", "data/mntner"}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}

	files := map[string]string{
		"data/aut-num/AS4242420000": "aut-num: AS4242420000\ntech-c: JD1-DN42\nmnt-by: JD-MNT\n",
		"data/person/JD1-DN42":      "person: Jane Doe\ne-mail: jane@example.dn42\n",
		"data/mntner/JD-MNT":        "mntner: JD-MNT\nauth: pgp-fingerprint ABCD1234EF567890ABCD1234EF567890ABCD1234\n",
	}
	for rel, content := range files {
		if err := os.WriteFile(filepath.Join(root, rel), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}

	return root
}

func TestAutNumPath(t *testing.T) {
	root := writeRegistryFixture(t)

	if _, err := AutNumPath(root, 4242420000); err != nil {
		t.Fatalf("AutNumPath: unexpected error: %v", err)
	}
	if _, err := AutNumPath(root, 9999999999); err == nil {
		t.Fatal("AutNumPath: expected error for missing ASN file")
	}
	if _, err := AutNumPath(filepath.Join(root, "nope"), 4242420000); err == nil {
		t.Fatal("AutNumPath: expected error for missing registry root")
	}
}

func TestEmail(t *testing.T) {
	root := writeRegistryFixture(t)

	email, err := Email(root, 4242420000)
	if err != nil {
		t.Fatalf("Email: unexpected error: %v", err)
	}
	if email != "jane@example.dn42" {
		t.Fatalf("Email: got %q, want jane@example.dn42", email)
	}

	if _, err := Email(root, 1); err == nil {
		t.Fatal("Email: expected error for unknown ASN")
	}
}

func TestMntner(t *testing.T) {
	root := writeRegistryFixture(t)

	m, err := Mntner(root, 4242420000)
	if err != nil {
		t.Fatalf("Mntner: unexpected error: %v", err)
	}
	if m != "JD-MNT" {
		t.Fatalf("Mntner: got %q, want JD-MNT", m)
	}
}

func TestPGPFingerprint(t *testing.T) {
	root := writeRegistryFixture(t)

	fp, err := PGPFingerprint(root, 4242420000)
	if err != nil {
		t.Fatalf("PGPFingerprint: unexpected error: %v", err)
	}
	if fp != "ABCD1234EF567890ABCD1234EF567890ABCD1234" {
		t.Fatalf("PGPFingerprint: got %q", fp)
	}
}

func TestPGPFingerprintMissingAuthLine(t *testing.T) {
	root := writeRegistryFixture(t)
	mntnerFile := filepath.Join(root, "data/mntner/JD-MNT")
	if err := os.WriteFile(mntnerFile, []byte("mntner: JD-MNT\n"), 0o644); err != nil {
		t.Fatalf("rewrite mntner fixture: %v", err)
	}

	if _, err := PGPFingerprint(root, 4242420000); err == nil {
		t.Fatal("PGPFingerprint: expected error when no pgp-fingerprint auth line is present")
	}
}
