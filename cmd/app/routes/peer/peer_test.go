package peer

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HappyLadySauce/errors"

	"github.com/dn42/autopeerd/cmd/app/middleware"
	"github.com/dn42/autopeerd/internal/pkg/ipc"
	"github.com/dn42/autopeerd/internal/pkg/ipcclient"
	"github.com/dn42/autopeerd/internal/pkg/model"
	"github.com/dn42/autopeerd/internal/pkg/session"
	v1 "github.com/dn42/autopeerd/internal/pkg/types/v1"
)

// fakeWorker stands in for the privileged worker process over a real ipc
// connection, the same frame-round-trip approach internal/worker's own
// tests use on the server side.
type fakeWorker struct {
	mu            sync.Mutex
	peers         map[int64]*model.PeerInfo
	failBgpUpdate bool
}

func newFakeWorker() *fakeWorker {
	return &fakeWorker{peers: map[int64]*model.PeerInfo{}}
}

func (f *fakeWorker) serve(conn net.Conn) {
	for {
		payload, err := ipc.ReadFrame(conn)
		if err != nil {
			return
		}
		req, err := ipc.DecodeRequest(payload)
		if err != nil {
			return
		}
		resp := f.handle(req)
		resp.CorrelationID = req.CorrelationID
		encoded, err := resp.Encode()
		if err != nil {
			return
		}
		if err := ipc.WriteFrame(conn, encoded); err != nil {
			return
		}
	}
}

func (f *fakeWorker) handle(req *ipc.Request) *ipc.Response {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch req.Command {
	case ipc.CommandWgCreate:
		f.peers[req.Peer.ASN] = req.Peer
		return ipc.OK("")
	case ipc.CommandWgDelete:
		delete(f.peers, req.Peer.ASN)
		return ipc.OK("")
	case ipc.CommandPeerGet:
		p, ok := f.peers[req.ASN]
		if !ok {
			return ipc.Fail("", errors.New("no peering session found for this ASN"))
		}
		resp := ipc.OK("")
		resp.Peer = p
		return resp
	case ipc.CommandPeerList:
		var list []*model.PeerInfo
		for _, p := range f.peers {
			list = append(list, p)
		}
		resp := ipc.OK("")
		resp.Peers = list
		return resp
	case ipc.CommandBgpUpdate:
		if f.failBgpUpdate {
			return ipc.Fail("", errors.New("failed to test bgpd config"))
		}
		return ipc.OK("")
	default:
		return ipc.Fail("", errors.New("unknown command"))
	}
}

func newTestController(t *testing.T, fw *fakeWorker) *Controller {
	t.Helper()
	clientConn, workerConn := net.Pipe()
	go fw.serve(workerConn)
	t.Cleanup(func() { clientConn.Close() })

	cache := session.NewCache(10, time.Minute)
	minter := session.NewMinter("test-secret", time.Minute)
	return New(ipcclient.New(clientConn), cache, minter)
}

func newTestContext(body []byte, asn int64) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ASNKey, asn)
	return c, w
}

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

func TestLoginMintsAndCachesToken(t *testing.T) {
	ctl := newTestController(t, newFakeWorker())
	c, w := newTestContext(nil, 4242420000)

	ctl.Login(c)

	if w.Code != http.StatusOK {
		t.Fatalf("Login: got status %d, want 200, body=%s", w.Code, w.Body.String())
	}
	var resp v1.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Login: failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("Login: expected a non-empty token")
	}
	if ctl.cache.Len() != 1 {
		t.Fatalf("Login: expected 1 cached session, got %d", ctl.cache.Len())
	}
}

func TestInfoReturnsNotFoundWhenNoPeer(t *testing.T) {
	ctl := newTestController(t, newFakeWorker())
	c, w := newTestContext(nil, 4242420000)

	ctl.Info(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("Info: got status %d, want 404, body=%s", w.Code, w.Body.String())
	}
}

func TestInfoReturnsStoredPeer(t *testing.T) {
	fw := newFakeWorker()
	peer := testPeer(4242420000)
	fw.peers[peer.ASN] = peer

	ctl := newTestController(t, fw)
	c, w := newTestContext(nil, peer.ASN)

	ctl.Info(c)

	if w.Code != http.StatusOK {
		t.Fatalf("Info: got status %d, want 200, body=%s", w.Code, w.Body.String())
	}
	var resp v1.PeerInfoResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Info: failed to decode response: %v", err)
	}
	if resp.Peer == nil || resp.Peer.ASN != peer.ASN {
		t.Fatalf("Info: got %+v, want ASN %d", resp.Peer, peer.ASN)
	}
}

func TestCreateHappyPath(t *testing.T) {
	ctl := newTestController(t, newFakeWorker())

	body, _ := json.Marshal(v1.CreateRequest{
		ASN:        4242421111,
		Token:      "irrelevant",
		PeerIP:     "193.10.10.20",
		PeerPort:   51821,
		PeerPubkey: "dGVzdC1wdWJrZXk=",
		LLIP4:      "169.254.10.2",
		LLIP6:      "fe80::2",
		DN42IP4:    "172.22.1.2",
		DN42IP6:    "fd00:1::2",
	})
	c, w := newTestContext(body, 4242421111)

	ctl.Create(c)

	if w.Code != http.StatusOK {
		t.Fatalf("Create: got status %d, want 200, body=%s", w.Code, w.Body.String())
	}
}

func TestCreateCompensatesOnBgpUpdateFailure(t *testing.T) {
	fw := newFakeWorker()
	fw.failBgpUpdate = true
	ctl := newTestController(t, fw)

	asn := int64(4242422222)
	body, _ := json.Marshal(v1.CreateRequest{
		ASN:        asn,
		Token:      "irrelevant",
		PeerIP:     "193.10.10.30",
		PeerPort:   51822,
		PeerPubkey: "dGVzdC1wdWJrZXk=",
		LLIP4:      "169.254.10.3",
		LLIP6:      "fe80::3",
		DN42IP4:    "172.22.1.3",
		DN42IP6:    "fd00:1::3",
	})
	c, w := newTestContext(body, asn)

	ctl.Create(c)

	if w.Code == http.StatusOK {
		t.Fatal("Create: expected a failure response when bgp_update fails")
	}

	fw.mu.Lock()
	_, stillPresent := fw.peers[asn]
	fw.mu.Unlock()
	if stillPresent {
		t.Fatal("Create: expected the compensating wg_delete to remove the peer after bgp_update failed")
	}
}

func TestDeleteReturnsNotFoundWhenNoPeer(t *testing.T) {
	ctl := newTestController(t, newFakeWorker())
	body, _ := json.Marshal(v1.TokenRequest{ASN: 4242420000, Token: "irrelevant"})
	c, w := newTestContext(body, 4242420000)

	ctl.Delete(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("Delete: got status %d, want 404, body=%s", w.Code, w.Body.String())
	}
}

func TestDeleteHappyPath(t *testing.T) {
	fw := newFakeWorker()
	peer := testPeer(4242423333)
	fw.peers[peer.ASN] = peer

	ctl := newTestController(t, fw)
	body, _ := json.Marshal(v1.TokenRequest{ASN: peer.ASN, Token: "irrelevant"})
	c, w := newTestContext(body, peer.ASN)

	ctl.Delete(c)

	if w.Code != http.StatusOK {
		t.Fatalf("Delete: got status %d, want 200, body=%s", w.Code, w.Body.String())
	}

	fw.mu.Lock()
	_, stillPresent := fw.peers[peer.ASN]
	fw.mu.Unlock()
	if stillPresent {
		t.Fatal("Delete: expected the peer to be removed from the worker's store")
	}
}
