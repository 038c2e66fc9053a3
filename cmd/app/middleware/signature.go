package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/HappyLadySauce/errors"

	"github.com/dn42/autopeerd/internal/pkg/code"
	"github.com/dn42/autopeerd/internal/pkg/pgp"
	"github.com/dn42/autopeerd/internal/pkg/provision"
	"github.com/dn42/autopeerd/internal/pkg/registry"
	"github.com/dn42/autopeerd/pkg/core"
)

const signatureHeader = "X-DN42-Signature"

// SignatureAuth authenticates a request body against the registry-derived
// PGP fingerprint of its claimed ASN, per spec.md §4.3's signature filter.
// It never blocks an empty body: endpoints with no body (or a handler that
// rejects an empty one) fail on their own terms downstream.
func SignatureAuth(registryRoot string, verifier pgp.Verifier, keyFetcher provision.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := readBody(c)
		if err != nil {
			core.WriteResponse(c, errors.WithCode(code.ErrBind, "failed to read request body"), nil)
			c.Abort()
			return
		}
		if len(raw) == 0 {
			c.Next()
			return
		}

		var body signedBody
		if err := json.Unmarshal(raw, &body); err != nil {
			core.WriteResponse(c, errors.WithCode(code.ErrInvalidJSON, "body is not valid JSON"), nil)
			c.Abort()
			return
		}
		if body.ASN == 0 {
			core.WriteResponse(c, errors.WithCode(code.ErrMissingASN, "%s", code.Message(code.ErrMissingASN)), nil)
			c.Abort()
			return
		}

		sigHeader := c.GetHeader(signatureHeader)
		if sigHeader == "" {
			core.WriteResponse(c, errors.WithCode(code.ErrMissingSignatureHeader, "%s", code.Message(code.ErrMissingSignatureHeader)), nil)
			c.Abort()
			return
		}
		signature, err := base64.StdEncoding.DecodeString(sigHeader)
		if err != nil {
			core.WriteResponse(c, errors.WithCode(code.ErrSignatureNotBase64, "%s", code.Message(code.ErrSignatureNotBase64)), nil)
			c.Abort()
			return
		}

		email, err := registry.Email(registryRoot, body.ASN)
		if err != nil {
			core.WriteResponse(c, errors.WithCode(code.ErrRegistryLookupFailed, "%v", err), nil)
			c.Abort()
			return
		}
		fingerprint, err := registry.PGPFingerprint(registryRoot, body.ASN)
		if err != nil {
			core.WriteResponse(c, errors.WithCode(code.ErrRegistryLookupFailed, "%v", err), nil)
			c.Abort()
			return
		}

		if keyFetcher != nil {
			if err := keyFetcher.LocateKey(c.Request.Context(), email); err != nil {
				klog.V(2).InfoS("best-effort key fetch failed, trusting local keyring", "email", email, "error", err)
			}
		}

		result, err := verifier.VerifyDetached(ctxOrBackground(c), raw, signature)
		if err != nil {
			core.WriteResponse(c, errors.WithCode(code.ErrSignatureVerifyFailed, "error verifying signature: %v", err), nil)
			c.Abort()
			return
		}
		if !result.Valid {
			core.WriteResponse(c, errors.WithCode(code.ErrSignatureInvalid, "%s", code.Message(code.ErrSignatureInvalid)), nil)
			c.Abort()
			return
		}
		if len(result.Signers) != 1 {
			core.WriteResponse(c, errors.WithCode(code.ErrMultipleSignatures, "%s", code.Message(code.ErrMultipleSignatures)), nil)
			c.Abort()
			return
		}

		signer := result.Signers[0]
		if signer.Fingerprint != fingerprint {
			core.WriteResponse(c, errors.WithCode(code.ErrFingerprintMismatch, "%s", code.Message(code.ErrFingerprintMismatch)), nil)
			c.Abort()
			return
		}
		if signer.Email != email {
			core.WriteResponse(c, errors.WithCode(code.ErrEmailMismatch, "%s", code.Message(code.ErrEmailMismatch)), nil)
			c.Abort()
			return
		}

		c.Set(ASNKey, body.ASN)
		c.Next()
	}
}

func ctxOrBackground(c *gin.Context) context.Context {
	if c.Request != nil && c.Request.Context() != nil {
		return c.Request.Context()
	}
	return context.Background()
}
