package options

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
)

// WireGuardOptions binds the [wireguard] config section: the provisioning
// engine's interface root directory and the BGP daemon's config path and
// identity, per spec.md §6 (supplemented over the distilled spec, which
// only names root-dir).
type WireGuardOptions struct {
	// RootDir is where per-peer wg<wgid>.conf files are rendered
	// (default: /etc/wireguard).
	RootDir string `json:"root-dir" mapstructure:"root-dir"`

	// BgpdConfPath is the live bgpd config file the provisioning engine
	// installs via validate-then-swap (default: /etc/bgpd.conf).
	BgpdConfPath string `json:"bgpd-conf-path" mapstructure:"bgpd-conf-path"`

	// RouterID is this host's BGP router-id, rendered into the bgpd
	// template's "router-id" and "listen on" directives.
	RouterID string `json:"router-id" mapstructure:"router-id"`

	// LocalASN is this host's own ASN, rendered into the bgpd template's
	// AS macro and route-origination statements.
	LocalASN int64 `json:"local-asn" mapstructure:"local-asn"`

	// MTU is the wg interface MTU rendered into the per-peer template.
	MTU int `json:"mtu" mapstructure:"mtu"`
}

func NewWireGuardOptions() *WireGuardOptions {
	return &WireGuardOptions{
		RootDir:      "/etc/wireguard",
		BgpdConfPath: "/etc/bgpd.conf",
		MTU:          1420,
	}
}

func (o *WireGuardOptions) Validate() []error {
	var errs []error
	if strings.TrimSpace(o.RootDir) == "" {
		errs = append(errs, fmt.Errorf("wireguard.root-dir is required"))
	}
	if strings.TrimSpace(o.BgpdConfPath) == "" {
		errs = append(errs, fmt.Errorf("wireguard.bgpd-conf-path is required"))
	}
	if strings.TrimSpace(o.RouterID) == "" {
		errs = append(errs, fmt.Errorf("wireguard.router-id is required"))
	}
	if o.LocalASN <= 0 {
		errs = append(errs, fmt.Errorf("wireguard.local-asn must be a positive integer"))
	}
	if o.MTU <= 0 {
		errs = append(errs, fmt.Errorf("wireguard.mtu must be greater than 0"))
	}
	return errs
}

func (o *WireGuardOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.RootDir, "wireguard.root-dir", o.RootDir, "directory holding per-peer wg<wgid>.conf files")
	fs.StringVar(&o.BgpdConfPath, "wireguard.bgpd-conf-path", o.BgpdConfPath, "live bgpd config file path")
	fs.StringVar(&o.RouterID, "wireguard.router-id", o.RouterID, "this host's BGP router-id")
	fs.Int64Var(&o.LocalASN, "wireguard.local-asn", o.LocalASN, "this host's own ASN")
	fs.IntVar(&o.MTU, "wireguard.mtu", o.MTU, "WireGuard interface MTU")
}

// InterfaceConfigPath returns the per-peer WireGuard config path for wgid.
func (o *WireGuardOptions) InterfaceConfigPath(wgid int) string {
	return filepath.Join(o.RootDir, fmt.Sprintf("wg%d.conf", wgid))
}
