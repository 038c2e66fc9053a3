package middleware

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dn42/autopeerd/internal/pkg/pgp"
)

// fakeVerifier lets tests drive SignatureAuth's downstream branches without
// a real keyring, the use case pgp.Verifier's own doc comment calls out.
type fakeVerifier struct {
	result *pgp.Result
	err    error
}

func (f *fakeVerifier) VerifyDetached(ctx context.Context, body, signature []byte) (*pgp.Result, error) {
	return f.result, f.err
}

func writeSignatureRegistryFixture(t *testing.T) string {
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

func newSignatureTestContext(body []byte, sigHeader string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if sigHeader != "" {
		c.Request.Header.Set(signatureHeader, sigHeader)
	}
	return c, w
}

func TestSignatureAuthAllowsEmptyBody(t *testing.T) {
	root := writeSignatureRegistryFixture(t)
	verifier := &fakeVerifier{result: &pgp.Result{Valid: true}}
	called := false

	c, w := newSignatureTestContext(nil, "")
	c.Handlers = gin.HandlersChain{SignatureAuth(root, verifier, nil), func(c *gin.Context) { called = true }}
	c.Next()

	if !called {
		t.Fatal("SignatureAuth: expected the next handler to run for an empty body")
	}
	if w.Code != http.StatusOK {
		t.Fatalf("SignatureAuth: got status %d for an untouched response", w.Code)
	}
}

func TestSignatureAuthRejectsMissingHeader(t *testing.T) {
	root := writeSignatureRegistryFixture(t)
	verifier := &fakeVerifier{result: &pgp.Result{Valid: true}}

	body, _ := json.Marshal(signedBody{ASN: 4242420000})
	c, w := newSignatureTestContext(body, "")
	c.Handlers = gin.HandlersChain{SignatureAuth(root, verifier, nil), func(c *gin.Context) {
		t.Fatal("SignatureAuth: handler should not run without a signature header")
	}}
	c.Next()

	if w.Code != http.StatusBadRequest {
		t.Fatalf("SignatureAuth: got status %d, want 400, body=%s", w.Code, w.Body.String())
	}
}

func TestSignatureAuthRejectsInvalidSignature(t *testing.T) {
	root := writeSignatureRegistryFixture(t)
	verifier := &fakeVerifier{result: &pgp.Result{Valid: false}}

	body, _ := json.Marshal(signedBody{ASN: 4242420000})
	sig := base64.StdEncoding.EncodeToString([]byte("not-a-real-signature"))
	c, w := newSignatureTestContext(body, sig)
	c.Handlers = gin.HandlersChain{SignatureAuth(root, verifier, nil), func(c *gin.Context) {
		t.Fatal("SignatureAuth: handler should not run when verification reports invalid")
	}}
	c.Next()

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("SignatureAuth: got status %d, want 401, body=%s", w.Code, w.Body.String())
	}
}

func TestSignatureAuthRejectsFingerprintMismatch(t *testing.T) {
	root := writeSignatureRegistryFixture(t)
	verifier := &fakeVerifier{result: &pgp.Result{
		Valid:   true,
		Signers: []pgp.Signer{{Email: "jane@example.dn42", Fingerprint: "WRONGFINGERPRINT"}},
	}}

	body, _ := json.Marshal(signedBody{ASN: 4242420000})
	sig := base64.StdEncoding.EncodeToString([]byte("sig"))
	c, w := newSignatureTestContext(body, sig)
	c.Handlers = gin.HandlersChain{SignatureAuth(root, verifier, nil), func(c *gin.Context) {
		t.Fatal("SignatureAuth: handler should not run on a fingerprint mismatch")
	}}
	c.Next()

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("SignatureAuth: got status %d, want 401, body=%s", w.Code, w.Body.String())
	}
}

func TestSignatureAuthAcceptsMatchingSignature(t *testing.T) {
	root := writeSignatureRegistryFixture(t)
	verifier := &fakeVerifier{result: &pgp.Result{
		Valid: true,
		Signers: []pgp.Signer{{
			Email:       "jane@example.dn42",
			Fingerprint: "ABCD1234EF567890ABCD1234EF567890ABCD1234",
		}},
	}}

	asn := int64(4242420000)
	body, _ := json.Marshal(signedBody{ASN: asn})
	sig := base64.StdEncoding.EncodeToString([]byte("sig"))
	c, w := newSignatureTestContext(body, sig)

	var gotASN interface{}
	c.Handlers = gin.HandlersChain{SignatureAuth(root, verifier, nil), func(c *gin.Context) {
		gotASN, _ = c.Get(ASNKey)
	}}
	c.Next()

	if w.Code != http.StatusOK {
		t.Fatalf("SignatureAuth: got status %d, want 200, body=%s", w.Code, w.Body.String())
	}
	if gotASN != asn {
		t.Fatalf("SignatureAuth: got ASN context value %v, want %d", gotASN, asn)
	}
}
