package code

// Generic request/bind errors (100001-100099).
const (
	// ErrSuccess - 200: the operation completed successfully.
	ErrSuccess int = iota + 100001

	// ErrBind - 400: the request body could not be bound to a struct.
	ErrBind

	// ErrInvalidJSON - 400: the request body is not valid JSON.
	ErrInvalidJSON

	// ErrValidation - 400: a field-level validation rule failed.
	ErrValidation

	// ErrDatabase - 500: a database operation failed.
	ErrDatabase

	// ErrUnknown - 500: an unclassified server error occurred.
	ErrUnknown
)

// Signature-middleware errors (110001-110099), spec.md §4.3 / §7.
const (
	// ErrMissingASN - 400: ASN missing or not an integer in the request body.
	ErrMissingASN int = iota + 110001

	// ErrMissingSignatureHeader - 400: X-DN42-Signature header absent.
	ErrMissingSignatureHeader

	// ErrSignatureNotBase64 - 400: X-DN42-Signature is not valid base64.
	ErrSignatureNotBase64

	// ErrRegistryLookupFailed - 400: registry resolver could not resolve email or fingerprint.
	ErrRegistryLookupFailed

	// ErrSignatureVerifyFailed - 400: the PGP verification primitive itself errored
	// (malformed signature, unreadable keyring) rather than returning a clean no-match.
	ErrSignatureVerifyFailed

	// ErrSignatureInvalid - 401: verification ran but the signature did not validate.
	ErrSignatureInvalid

	// ErrMultipleSignatures - 401: more than one signature present in the payload.
	ErrMultipleSignatures

	// ErrFingerprintMismatch - 401: signer fingerprint does not match the registry.
	ErrFingerprintMismatch

	// ErrEmailMismatch - 401: signer user-id email does not match the registry.
	ErrEmailMismatch
)

// Token-middleware errors (110101-110199), spec.md §4.3 / §8.
const (
	// ErrMissingToken - 400: token field missing or not a string.
	ErrMissingToken int = iota + 110101

	// ErrTokenInvalid - 401: token does not match the cached value for this ASN.
	ErrTokenInvalid

	// ErrASNNotLoggedIn - 401: no live token cached for this ASN (missing or already consumed).
	ErrASNNotLoggedIn
)

// PeerInfo validation errors (120001-120099), spec.md §4.5.
const (
	// ErrPeerPortRequired - 400: peer_port missing.
	ErrPeerPortRequired int = iota + 120001

	// ErrPeerPortRange - 400: peer_port outside [1, 65535].
	ErrPeerPortRange

	// ErrPeerIPRequired - 400: peer_ip missing.
	ErrPeerIPRequired

	// ErrPeerIPInvalid - 400: peer_ip does not parse as an IP address.
	ErrPeerIPInvalid

	// ErrLLIP4Required - 400: ll_ip4 missing.
	ErrLLIP4Required

	// ErrLLIP4Invalid - 400: ll_ip4 does not parse as IPv4.
	ErrLLIP4Invalid

	// ErrLLIP6Required - 400: ll_ip6 missing.
	ErrLLIP6Required

	// ErrLLIP6Invalid - 400: ll_ip6 does not parse as IPv6.
	ErrLLIP6Invalid

	// ErrDN42IP4Required - 400: dn42_ip4 missing.
	ErrDN42IP4Required

	// ErrDN42IP4Invalid - 400: dn42_ip4 does not parse as IPv4.
	ErrDN42IP4Invalid

	// ErrDN42IP6Required - 400: dn42_ip6 missing.
	ErrDN42IP6Required

	// ErrDN42IP6Invalid - 400: dn42_ip6 does not parse as IPv6.
	ErrDN42IP6Invalid

	// ErrPubkeyRequired - 400: peer_pubkey missing.
	ErrPubkeyRequired

	// ErrPubkeyInvalidBase64 - 400: peer_pubkey is not valid base64.
	ErrPubkeyInvalidBase64

	// ErrPSKInvalidBase64 - 400: peer_psk present but not valid base64.
	ErrPSKInvalidBase64

	// ErrPeerNotFound - 404: no PeerInfo record for this ASN.
	ErrPeerNotFound

	// ErrPeerAlreadyExists - 400: a PeerInfo record (or its port/keys/wgid) already exists.
	ErrPeerAlreadyExists
)

// Provisioning-engine errors (130001-130099), spec.md §4.4.
const (
	// ErrInterfaceAlreadyExists - 400: wg_create refused, the wg<id> interface already exists.
	ErrInterfaceAlreadyExists int = iota + 130001

	// ErrKeyGenerationFailed - 500: failed to generate a WireGuard keypair for the local interface.
	ErrKeyGenerationFailed

	// ErrConfigRenderFailed - 500: failed to render a WireGuard or bgpd config template.
	ErrConfigRenderFailed

	// ErrConfigWriteFailed - 500: failed to atomically write a rendered config file.
	ErrConfigWriteFailed

	// ErrInterfaceApplyFailed - 500: /etc/netstart (or ifconfig destroy) returned a non-zero exit.
	ErrInterfaceApplyFailed

	// ErrBgpDryRunFailed - 500: bgpd -n rejected the rendered config; live config left unchanged.
	ErrBgpDryRunFailed

	// ErrBgpReloadFailed - 500: rcctl reload bgpd returned a non-zero exit after a successful dry run.
	ErrBgpReloadFailed

	// ErrLockAcquireFailed - 500: failed to acquire the provisioning file lock.
	ErrLockAcquireFailed
)

// IPC / worker-transport errors (140001-140099), spec.md §4.4 / §6.
const (
	// ErrWorkerUnreachable - 500: the command channel to the privileged worker is down.
	ErrWorkerUnreachable int = iota + 140001

	// ErrWorkerFailure - 500: the worker returned {success: false}.
	ErrWorkerFailure

	// ErrInvalidCommand - 500: the command envelope names an unknown or missing command.
	ErrInvalidCommand

	// ErrFrameTooLarge - 500: a received frame length prefix exceeds the configured maximum.
	ErrFrameTooLarge

	// ErrIPCFramingFailed - 500: a frame's length prefix or payload could not be read or
	// written; fatal to the connection (spec.md §9 redesign: no resynchronization).
	ErrIPCFramingFailed
)

func init() {
	register(ErrSuccess, 200, "OK")
	register(ErrBind, 400, "the request body could not be parsed")
	register(ErrInvalidJSON, 400, "the request body is not valid JSON")
	register(ErrValidation, 400, "validation failed")
	register(ErrDatabase, 500, "a database error occurred")
	register(ErrUnknown, 500, "an unknown server error occurred")

	register(ErrMissingASN, 400, "ASN not found in body")
	register(ErrMissingSignatureHeader, 400, "X-DN42-Signature header not found")
	register(ErrSignatureNotBase64, 400, "X-DN42-Signature header is not a valid base64 string")
	register(ErrRegistryLookupFailed, 400, "could not resolve ASN in the registry")
	register(ErrSignatureVerifyFailed, 400, "error verifying signature")
	register(ErrSignatureInvalid, 401, "signature verification failed")
	register(ErrMultipleSignatures, 401, "more than one signature present in payload")
	register(ErrFingerprintMismatch, 401, "PGP fingerprint mismatch")
	register(ErrEmailMismatch, 401, "PGP signer email mismatch")

	register(ErrMissingToken, 400, "token not found in body")
	register(ErrTokenInvalid, 401, "token is invalid")
	register(ErrASNNotLoggedIn, 401, "ASN is not logged in")

	register(ErrPeerPortRequired, 400, "peer port not found in body")
	register(ErrPeerPortRange, 400, "peer port is not a valid port number")
	register(ErrPeerIPRequired, 400, "peer IP address not found in body")
	register(ErrPeerIPInvalid, 400, "peer IP address is not a valid IP address")
	register(ErrLLIP4Required, 400, "local IPv4 address not found in body")
	register(ErrLLIP4Invalid, 400, "local IPv4 address is not a valid IPv4 address")
	register(ErrLLIP6Required, 400, "local IPv6 address not found in body")
	register(ErrLLIP6Invalid, 400, "local IPv6 address is not a valid IPv6 address")
	register(ErrDN42IP4Required, 400, "DN42 IPv4 address not found in body")
	register(ErrDN42IP4Invalid, 400, "DN42 IPv4 address is not a valid IPv4 address")
	register(ErrDN42IP6Required, 400, "DN42 IPv6 address not found in body")
	register(ErrDN42IP6Invalid, 400, "DN42 IPv6 address is not a valid IPv6 address")
	register(ErrPubkeyRequired, 400, "peer public key not found in body")
	register(ErrPubkeyInvalidBase64, 400, "peer public key is not valid base64")
	register(ErrPSKInvalidBase64, 400, "peer preshared key is not valid base64")
	register(ErrPeerNotFound, 404, "no peering session found for this ASN")
	register(ErrPeerAlreadyExists, 400, "a peering session already exists for this ASN")

	register(ErrInterfaceAlreadyExists, 400, "WireGuard interface already exists")
	register(ErrKeyGenerationFailed, 500, "failed to generate WireGuard keypair")
	register(ErrConfigRenderFailed, 500, "failed to render configuration template")
	register(ErrConfigWriteFailed, 500, "failed to write configuration file")
	register(ErrInterfaceApplyFailed, 500, "failed to apply WireGuard interface")
	register(ErrBgpDryRunFailed, 500, "failed to test bgpd config")
	register(ErrBgpReloadFailed, 500, "failed to reload bgpd")
	register(ErrLockAcquireFailed, 500, "failed to acquire provisioning lock")

	register(ErrWorkerUnreachable, 500, "privileged worker is unreachable")
	register(ErrWorkerFailure, 500, "worker reported a failure")
	register(ErrInvalidCommand, 500, "invalid command")
	register(ErrFrameTooLarge, 500, "frame length exceeds maximum")
	register(ErrIPCFramingFailed, 500, "IPC frame could not be read or written")
}
