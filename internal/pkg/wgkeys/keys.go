// Package wgkeys generates and validates WireGuard Curve25519 keypairs for
// the local side of a peering interface. It implements key generation in
// pure Go (crypto/rand + golang.org/x/crypto/curve25519) rather than
// shelling out to wg(8), so the worker has no runtime dependency on
// wireguard-tools being installed.
package wgkeys

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/HappyLadySauce/errors"
	"golang.org/x/crypto/curve25519"
	"k8s.io/klog/v2"

	"github.com/dn42/autopeerd/internal/pkg/code"
)

// GeneratePrivateKey returns a new, correctly clamped Curve25519 private key,
// base64-encoded the way wg(8) formats keys.
func GeneratePrivateKey() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		klog.V(1).InfoS("failed to generate random bytes for wg private key", "error", err)
		return "", errors.WithCode(code.ErrKeyGenerationFailed, "failed to generate random bytes: %s", err.Error())
	}

	// Curve25519 clamping, per RFC 7748 and wg(8).
	raw[0] &= 248
	raw[31] &= 127
	raw[31] |= 64

	return base64.StdEncoding.EncodeToString(raw), nil
}

// DerivePublicKey computes the public key corresponding to privateKey.
func DerivePublicKey(privateKey string) (string, error) {
	raw, err := decodeKey(privateKey)
	if err != nil {
		return "", err
	}

	var pub, priv [32]byte
	copy(priv[:], raw)
	curve25519.ScalarBaseMult(&pub, &priv)

	return base64.StdEncoding.EncodeToString(pub[:]), nil
}

// GenerateKeyPair generates a fresh private key and derives its public key.
func GenerateKeyPair() (privateKey, publicKey string, err error) {
	privateKey, err = GeneratePrivateKey()
	if err != nil {
		return "", "", err
	}

	publicKey, err = DerivePublicKey(privateKey)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to derive public key from generated private key")
	}

	return privateKey, publicKey, nil
}

// ValidateKey reports whether key decodes to a 32-byte base64 blob, the
// shape shared by both WireGuard private and public keys.
func ValidateKey(key string) error {
	_, err := decodeKey(key)
	return err
}

func decodeKey(key string) ([]byte, error) {
	if key == "" {
		return nil, errors.WithCode(code.ErrKeyGenerationFailed, "key is empty")
	}

	raw, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return nil, errors.WithCode(code.ErrKeyGenerationFailed, "key is not valid base64: %s", err.Error())
	}

	if len(raw) != 32 {
		return nil, errors.WithCode(code.ErrKeyGenerationFailed, "key must decode to 32 bytes, got %d", len(raw))
	}

	return raw, nil
}
