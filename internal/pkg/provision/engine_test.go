package provision

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dn42/autopeerd/internal/pkg/model"
	"github.com/dn42/autopeerd/pkg/options"
)

type fakeRunner struct {
	exists        map[int]bool
	destroyed     []int
	started       []int
	dryRunErr     error
	reloadErr     error
	dryRunCalls   []string
	reloadCalls   int
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{exists: make(map[int]bool)}
}

func (f *fakeRunner) InterfaceExists(_ context.Context, wgID int) (bool, error) {
	return f.exists[wgID], nil
}

func (f *fakeRunner) DestroyInterface(_ context.Context, wgID int) error {
	f.destroyed = append(f.destroyed, wgID)
	delete(f.exists, wgID)
	return nil
}

func (f *fakeRunner) StartInterface(_ context.Context, wgID int) error {
	f.started = append(f.started, wgID)
	f.exists[wgID] = true
	return nil
}

func (f *fakeRunner) DryRunBgpd(_ context.Context, path string) error {
	f.dryRunCalls = append(f.dryRunCalls, path)
	return f.dryRunErr
}

func (f *fakeRunner) ReloadBgpd(_ context.Context) error {
	f.reloadCalls++
	return f.reloadErr
}

func (f *fakeRunner) LocateKey(_ context.Context, _ string) error { return nil }

func testPeer(asn int64) *model.PeerInfo {
	return &model.PeerInfo{
		ASN:        asn,
		WgID:       model.DeriveWgID(asn),
		PeerIP:     "193.10.10.10",
		PeerPort:   51820,
		PeerPubkey: "dGVzdC1wdWJrZXk=",
		LLIP4:      "169.254.10.1",
		LLIP6:      "fe80::1",
		DN42IP4:    "172.22.1.1",
		DN42IP6:    "fd00:1::1",
	}
}

func newTestEngine(t *testing.T, runner Runner) *Engine {
	t.Helper()
	wg := options.NewWireGuardOptions()
	wg.RootDir = t.TempDir()
	wg.BgpdConfPath = filepath.Join(t.TempDir(), "bgpd.conf")
	wg.RouterID = "172.22.109.97"
	wg.LocalASN = 4242420000
	return NewEngine(wg, runner)
}

func TestWgCreateWritesConfigAndStartsInterface(t *testing.T) {
	runner := newFakeRunner()
	e := newTestEngine(t, runner)
	peer := testPeer(4242421111)

	if err := e.WgCreate(context.Background(), peer); err != nil {
		t.Fatalf("WgCreate: %v", err)
	}

	path := e.wireguard.InterfaceConfigPath(peer.WgID)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s: %v", path, err)
	}
	if len(runner.started) != 1 || runner.started[0] != peer.WgID {
		t.Fatalf("expected StartInterface called for wgid %d, got %v", peer.WgID, runner.started)
	}
}

func TestWgCreateRefusesExistingInterface(t *testing.T) {
	runner := newFakeRunner()
	peer := testPeer(4242421111)
	runner.exists[peer.WgID] = true

	e := newTestEngine(t, runner)
	if err := e.WgCreate(context.Background(), peer); err == nil {
		t.Fatal("WgCreate: expected error when the interface already exists")
	}
}

func TestWgCreateRollsBackNewlyWrittenFileOnFailure(t *testing.T) {
	runner := newFakeRunner()
	e := newTestEngine(t, runner)
	peer := testPeer(4242421111)

	failing := &failingStartRunner{fakeRunner: runner}
	e.runner = failing

	if err := e.WgCreate(context.Background(), peer); err == nil {
		t.Fatal("WgCreate: expected the bring-up failure to propagate")
	}

	path := e.wireguard.InterfaceConfigPath(peer.WgID)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected the newly written config to be rolled back, stat err = %v", err)
	}
}

type failingStartRunner struct {
	*fakeRunner
}

func (f *failingStartRunner) StartInterface(_ context.Context, _ int) error {
	return os.ErrInvalid
}

func TestWgDeleteToleratesMissingFileAndInterface(t *testing.T) {
	runner := newFakeRunner()
	e := newTestEngine(t, runner)
	peer := testPeer(4242421111)

	if err := e.WgDelete(context.Background(), peer); err != nil {
		t.Fatalf("WgDelete: expected no error for an already-absent peer, got %v", err)
	}
}

func TestWgDeleteRemovesConfigAndDestroysInterface(t *testing.T) {
	runner := newFakeRunner()
	e := newTestEngine(t, runner)
	peer := testPeer(4242421111)

	if err := e.WgCreate(context.Background(), peer); err != nil {
		t.Fatalf("WgCreate: %v", err)
	}
	if err := e.WgDelete(context.Background(), peer); err != nil {
		t.Fatalf("WgDelete: %v", err)
	}

	path := e.wireguard.InterfaceConfigPath(peer.WgID)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected config file removed, stat err = %v", err)
	}
	if len(runner.destroyed) != 1 {
		t.Fatalf("expected DestroyInterface called once, got %v", runner.destroyed)
	}
}

func TestBgpUpdateSwapsOnSuccessfulDryRun(t *testing.T) {
	runner := newFakeRunner()
	e := newTestEngine(t, runner)
	peers := []*model.PeerInfo{testPeer(4242421111), testPeer(4242422222)}

	if err := e.BgpUpdate(context.Background(), peers); err != nil {
		t.Fatalf("BgpUpdate: %v", err)
	}

	if _, err := os.Stat(e.wireguard.BgpdConfPath); err != nil {
		t.Fatalf("expected live bgpd config written: %v", err)
	}
	if runner.reloadCalls != 1 {
		t.Fatalf("expected ReloadBgpd called once, got %d", runner.reloadCalls)
	}
}

func TestBgpUpdatePreservesLiveConfigOnDryRunFailure(t *testing.T) {
	runner := newFakeRunner()
	runner.dryRunErr = os.ErrInvalid
	e := newTestEngine(t, runner)
	peers := []*model.PeerInfo{testPeer(4242421111)}

	if err := e.BgpUpdate(context.Background(), peers); err == nil {
		t.Fatal("BgpUpdate: expected dry-run failure to propagate")
	}
	if _, err := os.Stat(e.wireguard.BgpdConfPath); !os.IsNotExist(err) {
		t.Fatalf("expected the live bgpd config to remain untouched, stat err = %v", err)
	}
	if runner.reloadCalls != 0 {
		t.Fatal("BgpUpdate: did not expect ReloadBgpd to run after a failed dry run")
	}
}

func TestRemainingPeersExcludesDeletedASN(t *testing.T) {
	peers := []*model.PeerInfo{testPeer(1), testPeer(2), testPeer(3)}
	remaining := RemainingPeers(peers, 2)

	if len(remaining) != 2 {
		t.Fatalf("got %d remaining peers, want 2", len(remaining))
	}
	for _, p := range remaining {
		if p.ASN == 2 {
			t.Fatal("RemainingPeers: deleted ASN still present")
		}
	}
}
