package model

import (
	"encoding/base64"
	"fmt"
	"net"
	"unicode/utf8"

	"github.com/HappyLadySauce/errors"

	"github.com/dn42/autopeerd/internal/pkg/code"
)

// Dn42Validate applies the six PeerInfo validation rules of spec.md §4.5
// plus the 30-character description limit of §3, fail-fast with a
// distinct error per rule, matching the field-by-field
// order and defaulting behavior of the Python prototype's
// PeerInfo.dn42_validate. Run by the worker before any config is rendered.
func (p *PeerInfo) Dn42Validate() error {
	if p.Description == "" {
		p.Description = fmt.Sprintf("Peer_%d", p.ASN)
	}
	if utf8.RuneCountInString(p.Description) > 30 {
		return errors.WithCode(code.ErrValidation, "description must be at most 30 characters")
	}

	if p.PeerPort == 0 {
		return errors.WithCode(code.ErrPeerPortRequired, "peer port not found in body")
	}
	if p.PeerPort < 1 || p.PeerPort > 65535 {
		return errors.WithCode(code.ErrPeerPortRange, "peer port is not a valid port number")
	}

	if p.PeerIP == "" {
		return errors.WithCode(code.ErrPeerIPRequired, "peer IP address not found in body")
	}
	if net.ParseIP(p.PeerIP) == nil {
		return errors.WithCode(code.ErrPeerIPInvalid, "IP address %s is not a valid IP address", p.PeerIP)
	}

	if p.LLIP4 == "" {
		return errors.WithCode(code.ErrLLIP4Required, "local IPv4 address not found in body")
	}
	if !isIPv4(p.LLIP4) {
		return errors.WithCode(code.ErrLLIP4Invalid, "IP address %s is not a valid IPv4 address", p.LLIP4)
	}
	if p.DN42IP4 == "" {
		return errors.WithCode(code.ErrDN42IP4Required, "DN42 IPv4 address not found in body")
	}
	if !isIPv4(p.DN42IP4) {
		return errors.WithCode(code.ErrDN42IP4Invalid, "IP address %s is not a valid IPv4 address", p.DN42IP4)
	}

	if p.LLIP6 == "" {
		return errors.WithCode(code.ErrLLIP6Required, "local IPv6 address not found in body")
	}
	if !isIPv6(p.LLIP6) {
		return errors.WithCode(code.ErrLLIP6Invalid, "IP address %s is not a valid IPv6 address", p.LLIP6)
	}
	if p.DN42IP6 == "" {
		return errors.WithCode(code.ErrDN42IP6Required, "DN42 IPv6 address not found in body")
	}
	if !isIPv6(p.DN42IP6) {
		return errors.WithCode(code.ErrDN42IP6Invalid, "IP address %s is not a valid IPv6 address", p.DN42IP6)
	}

	if p.PeerPubkey == "" {
		return errors.WithCode(code.ErrPubkeyRequired, "peer public key not found in body")
	}
	if _, err := base64.StdEncoding.DecodeString(p.PeerPubkey); err != nil {
		return errors.WithCode(code.ErrPubkeyInvalidBase64, "public key is not a valid base64")
	}

	if p.PeerPSK != "" {
		if _, err := base64.StdEncoding.DecodeString(p.PeerPSK); err != nil {
			return errors.WithCode(code.ErrPSKInvalidBase64, "preshared key is not a valid base64")
		}
	}

	if p.WgID == 0 {
		p.WgID = DeriveWgID(p.ASN)
	}

	return nil
}

func isIPv4(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil
}

func isIPv6(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() == nil
}
