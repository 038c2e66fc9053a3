package provision

import (
	"context"
	"os/exec"
	"strconv"

	"k8s.io/klog/v2"
)

// Runner executes the OS-level subprocess commands the worker uses to
// apply provisioning changes (spec.md §6's "Subprocess interface"). It is
// injectable so engine tests never shell out for real.
type Runner interface {
	// InterfaceExists reports whether wg<wgid> is present (`ifconfig wg<id>`).
	InterfaceExists(ctx context.Context, wgID int) (bool, error)
	// DestroyInterface tears wg<wgid> down (`ifconfig wg<id> destroy`).
	DestroyInterface(ctx context.Context, wgID int) error
	// StartInterface brings wg<wgid> up from its rendered config (`/etc/netstart wg<id>`).
	StartInterface(ctx context.Context, wgID int) error
	// DryRunBgpd validates a candidate bgpd config without applying it (`bgpd -f <path> -n`).
	DryRunBgpd(ctx context.Context, path string) error
	// ReloadBgpd applies the live bgpd config (`rcctl reload bgpd`).
	ReloadBgpd(ctx context.Context) error
	// LocateKey attempts a best-effort public-key fetch (`gpg --locate-keys <email>`).
	LocateKey(ctx context.Context, email string) error
}

// ExecRunner is the real Runner, shelling out to OpenBSD's system tools.
type ExecRunner struct{}

func NewExecRunner() *ExecRunner { return &ExecRunner{} }

func (r *ExecRunner) InterfaceExists(ctx context.Context, wgID int) (bool, error) {
	cmd := exec.CommandContext(ctx, "ifconfig", wgInterfaceName(wgID))
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *ExecRunner) DestroyInterface(ctx context.Context, wgID int) error {
	cmd := exec.CommandContext(ctx, "ifconfig", wgInterfaceName(wgID), "destroy")
	return runLogged(cmd)
}

func (r *ExecRunner) StartInterface(ctx context.Context, wgID int) error {
	cmd := exec.CommandContext(ctx, "/etc/netstart", wgInterfaceName(wgID))
	return runLogged(cmd)
}

func (r *ExecRunner) DryRunBgpd(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, "bgpd", "-f", path, "-n")
	return runLogged(cmd)
}

func (r *ExecRunner) ReloadBgpd(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "rcctl", "reload", "bgpd")
	return runLogged(cmd)
}

func (r *ExecRunner) LocateKey(ctx context.Context, email string) error {
	cmd := exec.CommandContext(ctx, "gpg", "--locate-keys", email)
	// best-effort: spec.md §4.3 step 6 says continue even on failure, so this
	// error is informational only and callers should not treat it as fatal.
	if err := runLogged(cmd); err != nil {
		klog.V(2).InfoS("best-effort key fetch failed", "email", email, "error", err)
		return err
	}
	return nil
}

func runLogged(cmd *exec.Cmd) error {
	out, err := cmd.CombinedOutput()
	if err != nil {
		klog.V(3).InfoS("subprocess failed", "cmd", cmd.Args, "output", string(out), "error", err)
		return err
	}
	klog.V(4).InfoS("subprocess succeeded", "cmd", cmd.Args, "output", string(out))
	return nil
}

func wgInterfaceName(wgID int) string {
	return "wg" + strconv.Itoa(wgID)
}
