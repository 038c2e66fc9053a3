// Package provision implements the privileged worker's actual system
// changes: WireGuard interface lifecycle and bgpd config validate-then-
// swap (spec.md §4.4).
package provision

import (
	"context"
	"os"
	"path/filepath"

	"github.com/novalagung/gubrak"

	"github.com/HappyLadySauce/errors"
	"k8s.io/klog/v2"

	"github.com/dn42/autopeerd/internal/pkg/code"
	"github.com/dn42/autopeerd/internal/pkg/model"
	"github.com/dn42/autopeerd/internal/pkg/wgkeys"
	"github.com/dn42/autopeerd/pkg/options"
)

// Engine implements the worker's wg_exists/wg_create/wg_delete/bgp_update
// commands against the local filesystem and OS tools.
type Engine struct {
	wireguard *options.WireGuardOptions
	runner    Runner
}

// NewEngine returns an Engine rendering configs under wireguard's paths and
// driving runner for every subprocess invocation.
func NewEngine(wireguard *options.WireGuardOptions, runner Runner) *Engine {
	return &Engine{wireguard: wireguard, runner: runner}
}

// WgExists reports whether peer's wg<wgid> interface currently exists.
func (e *Engine) WgExists(ctx context.Context, peer *model.PeerInfo) (bool, error) {
	return e.runner.InterfaceExists(ctx, peer.WgID)
}

// WgCreate validates peer, refuses if the interface already exists,
// renders and installs its WireGuard config, and brings the interface up.
// The rendered file is removed again if the bring-up step fails and the
// file did not exist before this call (spec.md §4.4 wg_create).
func (e *Engine) WgCreate(ctx context.Context, peer *model.PeerInfo) error {
	if err := ValidatePeer(peer); err != nil {
		return err
	}

	exists, err := e.runner.InterfaceExists(ctx, peer.WgID)
	if err != nil {
		return errors.WithCode(code.ErrInterfaceApplyFailed, "failed to probe interface wg%d: %v", peer.WgID, err)
	}
	if exists {
		return errors.WithCode(code.ErrInterfaceAlreadyExists, "interface wg%d already exists", peer.WgID)
	}

	path := e.wireguard.InterfaceConfigPath(peer.WgID)
	_, preexisted := os.Stat(path)
	fileAlreadyExisted := preexisted == nil

	privKey, _, err := wgkeys.GenerateKeyPair()
	if err != nil {
		return err
	}

	cfgCtx := NewWireGuardContext(peer, privKey, e.wireguard.MTU)
	rendered, err := RenderWireGuardConfig(cfgCtx)
	if err != nil {
		return err
	}

	if err := AtomicWriteFile(path, rendered, 0o600); err != nil {
		return errors.WithCode(code.ErrConfigWriteFailed, "failed to write %s: %v", path, err)
	}

	if err := e.runner.StartInterface(ctx, peer.WgID); err != nil {
		if !fileAlreadyExisted {
			if rmErr := os.Remove(path); rmErr != nil {
				klog.V(1).InfoS("failed to roll back newly created config after bring-up failure",
					"path", path, "error", rmErr)
			}
		}
		return errors.WithCode(code.ErrInterfaceApplyFailed, "failed to bring up wg%d: %v", peer.WgID, err)
	}

	return nil
}

// WgDelete validates peer, removes its config file if present, and
// destroys the interface if present. Either being already absent is a
// warning, not a failure (spec.md §4.4 wg_delete).
func (e *Engine) WgDelete(ctx context.Context, peer *model.PeerInfo) error {
	if err := ValidatePeer(peer); err != nil {
		return err
	}

	path := e.wireguard.InterfaceConfigPath(peer.WgID)
	if err := os.Remove(path); err != nil {
		if !os.IsNotExist(err) {
			return errors.WithCode(code.ErrConfigWriteFailed, "failed to remove %s: %v", path, err)
		}
		klog.V(2).InfoS("wg_delete: config file already absent", "path", path)
	}

	exists, err := e.runner.InterfaceExists(ctx, peer.WgID)
	if err != nil {
		return errors.WithCode(code.ErrInterfaceApplyFailed, "failed to probe interface wg%d: %v", peer.WgID, err)
	}
	if !exists {
		klog.V(2).InfoS("wg_delete: interface already absent", "wgid", peer.WgID)
		return nil
	}

	if err := e.runner.DestroyInterface(ctx, peer.WgID); err != nil {
		return errors.WithCode(code.ErrInterfaceApplyFailed, "failed to destroy wg%d: %v", peer.WgID, err)
	}
	return nil
}

// BgpUpdate validates every peer, renders the full bgpd config to a
// temporary path, dry-runs it, and only on success swaps it into the live
// path and reloads the daemon — preserving the live config on a syntax
// failure (spec.md §4.4 bgp_update's two-phase design).
func (e *Engine) BgpUpdate(ctx context.Context, peers []*model.PeerInfo) error {
	if err := ValidatePeers(peers); err != nil {
		return err
	}

	lock, err := AcquireFileLock(e.wireguard.BgpdConfPath + ".lock")
	if err != nil {
		return errors.WithCode(code.ErrLockAcquireFailed, "failed to acquire bgpd config lock: %v", err)
	}
	defer lock.Release()

	rendered, err := RenderBgpdConfig(&BgpdContext{
		ASN:      e.wireguard.LocalASN,
		RouterID: e.wireguard.RouterID,
		Peers:    peers,
	})
	if err != nil {
		return err
	}

	tmpPath := filepath.Join(os.TempDir(), "bgpd.conf")
	if err := AtomicWriteFile(tmpPath, rendered, 0o600); err != nil {
		return errors.WithCode(code.ErrConfigWriteFailed, "failed to write candidate bgpd config %s: %v", tmpPath, err)
	}

	if err := e.runner.DryRunBgpd(ctx, tmpPath); err != nil {
		if rmErr := os.Remove(tmpPath); rmErr != nil {
			klog.V(1).InfoS("failed to remove rejected candidate bgpd config", "path", tmpPath, "error", rmErr)
		}
		return errors.WithCode(code.ErrBgpDryRunFailed, "candidate bgpd config failed dry run: %v", err)
	}

	if err := os.Rename(tmpPath, e.wireguard.BgpdConfPath); err != nil {
		return errors.WithCode(code.ErrConfigWriteFailed, "failed to swap in validated bgpd config: %v", err)
	}

	if err := e.runner.ReloadBgpd(ctx); err != nil {
		return errors.WithCode(code.ErrBgpReloadFailed, "failed to reload bgpd: %v", err)
	}

	return nil
}

// RemainingPeers returns every peer other than the one matching asn,
// for bgp_update's "remaining peers" recomputation on wg_delete.
func RemainingPeers(peers []*model.PeerInfo, asn int64) []*model.PeerInfo {
	result, err := gubrak.Filter(peers, func(p *model.PeerInfo) bool {
		return p.ASN != asn
	})
	if err != nil {
		klog.V(1).InfoS("failed to filter remaining peers", "asn", asn, "error", err)
		return nil
	}

	filtered, ok := result.([]*model.PeerInfo)
	if !ok {
		return nil
	}
	return filtered
}
