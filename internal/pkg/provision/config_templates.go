package provision

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/HappyLadySauce/errors"

	"github.com/dn42/autopeerd/internal/pkg/code"
	"github.com/dn42/autopeerd/internal/pkg/model"
)

// wireGuardTemplate renders one OpenBSD hostname.if-style interface config,
// translated field-for-field from the Jinja2 `hostname_wg` template
// (original_source/autopeer/templates.py) into Go's text/template syntax.
// This is NOT the [Interface]/[Peer] INI grammar wg-quick expects — OpenBSD
// configures WireGuard through ifconfig(8) directives in a rdomain-scoped
// hostname.if file.
var wireGuardTemplate = template.Must(template.New("hostname_wg").Parse(`rdomain {{.RDomain}}

inet {{.Inet}}
inet6 {{.Inet6}}

mtu {{.MTU}}
up

wgkey {{.WgKey}}
wgport {{.WgPort}}

wgpeer {{.PeerPubkey}} wgendpoint {{.PeerIP}} {{.PeerPort}} wgaip {{.PeerAIP4}}/32 wgaip {{.PeerAIP6}}/128 wgaip 172.20.0.0/14 wgaip fd00::/8

!route -n -T {{.RDomain}} add -inet -iface {{.PeerLL4}} {{.Inet}}
!route -n -T {{.RDomain}} add -inet6 {{.PeerLL6}}%wg{{.WgID}} {{.Inet6}}
!route -n -T {{.RDomain}} sourceaddr -ifp lo{{.RDomain}}
`))

// WireGuardContext supplies every field the hostname.if template needs.
// RDomain, Inet, Inet6, WgKey, and WgPort are this host's own interface
// parameters; the Peer* fields come from the remote operator's PeerInfo.
type WireGuardContext struct {
	RDomain int
	Inet    string
	Inet6   string
	MTU     int
	WgKey   string
	WgPort  int

	PeerPubkey string
	PeerIP     string
	PeerPort   int
	PeerAIP4   string
	PeerAIP6   string
	PeerLL4    string
	PeerLL6    string
	WgID       int
}

// NewWireGuardContext builds a WireGuardContext for peer. localPrivateKey is
// this interface's freshly generated WireGuard private key (internal/pkg/wgkeys).
// The local rdomain/inet/inet6/listen-port are all derived deterministically
// from the interface's wgid (see DESIGN.md's Open Question decision) — this
// prototype's registry carries no separate "our own interface addressing"
// record, so the numbering scheme is synthesized from wgid alone.
func NewWireGuardContext(peer *model.PeerInfo, localPrivateKey string, mtu int) *WireGuardContext {
	return &WireGuardContext{
		RDomain: peer.WgID,
		Inet:    fmt.Sprintf("169.254.%d.1/31", peer.WgID%254),
		Inet6:   fmt.Sprintf("fe80::%d:1/64", peer.WgID),
		MTU:     mtu,
		WgKey:   localPrivateKey,
		WgPort:  20000 + peer.WgID,

		PeerPubkey: peer.PeerPubkey,
		PeerIP:     peer.PeerIP,
		PeerPort:   peer.PeerPort,
		PeerAIP4:   peer.DN42IP4,
		PeerAIP6:   peer.DN42IP6,
		PeerLL4:    peer.LLIP4,
		PeerLL6:    peer.LLIP6,
		WgID:       peer.WgID,
	}
}

// RenderWireGuardConfig renders the hostname.if-style config for one peer.
func RenderWireGuardConfig(ctx *WireGuardContext) ([]byte, error) {
	var buf bytes.Buffer
	if err := wireGuardTemplate.Execute(&buf, ctx); err != nil {
		return nil, errors.WithCode(code.ErrConfigRenderFailed, "failed to render WireGuard interface config: %v", err)
	}
	return buf.Bytes(), nil
}

// bgpdTemplate renders the full bgpd.conf, translated from the Jinja2
// `bgpd_conf` template (original_source/autopeer/templates.py).
var bgpdTemplate = template.Must(template.New("bgpd_conf").Funcs(funcMap).Parse(`###
# macros
ASN="{{.ASN}}"

{{range $i, $p := .Peers}}P{{inc $i}}_descr="{{$p.ASN}}.{{$p.Description}}"
P{{inc $i}}_remote4="{{$p.DN42IP4}}"
P{{inc $i}}_remote6="{{$p.DN42IP6}}"
P{{inc $i}}_asn="{{$p.ASN}}"

{{end}}###
# global configuration
AS $ASN
router-id {{.RouterID}}

listen on {{.RouterID}} port 179
{{range .Peers}}listen on {{.LLIP4}} port 179
listen on {{.LLIP6}} port 179
{{end}}
socket "/var/www/run/bgpd.rsock" restricted

log updates

nexthop qualify via default

dump table-v2 "/tmp/rib-dump-%H%M" 30

###
# set configuration
prefix-set mynetworks {
        {{.LocalPrefix4}}
        {{.LocalPrefix6}}
}

prefix-set dn42 {
        172.20.0.0/14
        fd00::/8
}

include "/var/db/dn42/roa-obgp.conf"

###
# network and flowspec announcements

# Generate routes for the networks our ASN will originate.
network prefix-set mynetworks set large-community $ASN:1:1

###
# neighbors and groups
group "dn42_peers" {
        announce IPv4 unicast
        announce IPv6 unicast
{{range $i, $p := .Peers}}        neighbor $P{{inc $i}}_remote6 {
                remote-as $P{{inc $i}}_asn
                descr $P{{inc $i}}_descr
                set nexthop $P{{inc $i}}_remote6
        }
{{end}}}

###
# filters

# deny more-specifics of our own originated prefixes
deny quick from ebgp prefix-set mynetworks or-longer

# filter out too long paths
deny quick from any max-as-len 8

# Outbound EBGP: only allow self originated networks to ebgp peers
allow to ebgp prefix-set mynetworks large-community $ASN:1:1

# Allow validated routes to peers
allow to ebgp ovs valid

# Allow validated routes from peers
allow from ebgp ovs valid

# IBGP: allow all updates to and from our IBGP neighbors
allow from ibgp
allow to ibgp

# Scrub normal and large communities relevant to our ASN from EBGP neighbors
match from ebgp set { large-community delete $ASN:*:* }

# Honor requests to gracefully shutdown BGP sessions
match from any community GRACEFUL_SHUTDOWN set { localpref 0 }
`))

var funcMap = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// BgpdContext supplies every field bgpdTemplate needs. LocalPrefix4/6 are
// this AS's own originated networks, not derived from any PeerInfo. No
// option carries them and Engine.BgpUpdate does not set them, so they
// render as empty strings.
type BgpdContext struct {
	ASN          int64
	RouterID     string
	LocalPrefix4 string
	LocalPrefix6 string
	Peers        []*model.PeerInfo
}

// RenderBgpdConfig renders the complete bgpd.conf from the full peer list.
func RenderBgpdConfig(ctx *BgpdContext) ([]byte, error) {
	var buf bytes.Buffer
	if err := bgpdTemplate.Execute(&buf, ctx); err != nil {
		return nil, errors.WithCode(code.ErrConfigRenderFailed, "failed to render bgpd config: %v", err)
	}
	return buf.Bytes(), nil
}
