// Package model defines the persisted entities owned by the privileged
// worker process.
package model

import (
	"strconv"
	"time"
)

// PeerInfo is the single source of truth for a DN42 peering session; the
// rendered WireGuard and bgpd config files are derived artifacts (spec.md
// §3). ASN is the primary key: at most one peering session per remote ASN.
type PeerInfo struct {
	ASN int64 `json:"ASN" gorm:"primaryKey" validate:"required"`

	// WgID is the numeric WireGuard interface suffix (wg<WgID>), derived
	// deterministically from ASN (see DESIGN.md Open Question decision).
	// Unique so two peers never collide on the same kernel interface.
	WgID int `json:"wgid" gorm:"uniqueIndex;not null"`

	// Description defaults to "Peer_<ASN>" when the request omits it.
	Description string `json:"description" gorm:"not null" validate:"max=30"`

	PeerIP     string `json:"peer_ip" gorm:"not null" validate:"required"`
	PeerPort   int    `json:"peer_port" gorm:"uniqueIndex;not null" validate:"required,min=1,max=65535"`
	PeerPubkey string `json:"peer_pubkey" gorm:"uniqueIndex;not null" validate:"required,base64"`
	PeerPSK    string `json:"peer_psk" gorm:"uniqueIndex" validate:"omitempty,base64"`

	LLIP4 string `json:"ll_ip4" gorm:"uniqueIndex;not null" validate:"required"`
	LLIP6 string `json:"ll_ip6" gorm:"uniqueIndex;not null" validate:"required"`

	DN42IP4 string `json:"dn42_ip4" gorm:"uniqueIndex;not null" validate:"required"`
	DN42IP6 string `json:"dn42_ip6" gorm:"uniqueIndex;not null" validate:"required"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WireGuardInterfaceName returns the wg<wgid> interface and config base
// name for this peer.
func (p *PeerInfo) WireGuardInterfaceName() string {
	return "wg" + strconv.Itoa(p.WgID)
}

// DeriveWgID computes the wgid for asn per the rule decided in DESIGN.md:
// a value in [1, 65000] deterministic from the ASN alone, since it is the
// one client-supplied identifier that exists before a PeerInfo is created.
func DeriveWgID(asn int64) int {
	return 1 + int(asn%65000)
}
