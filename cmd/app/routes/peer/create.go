package peer

import (
	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/dn42/autopeerd/cmd/app/middleware"
	"github.com/dn42/autopeerd/internal/pkg/code"
	"github.com/dn42/autopeerd/internal/pkg/ipc"
	"github.com/dn42/autopeerd/internal/pkg/model"
	v1 "github.com/dn42/autopeerd/internal/pkg/types/v1"
	"github.com/dn42/autopeerd/pkg/core"

	"github.com/HappyLadySauce/errors"
)

// Create validates, provisions, and persists a new peering session
// (spec.md §4.6). It issues wg_create then, on success, bgp_update over the
// full peer list; if bgp_update fails after wg_create succeeded, it issues
// a compensating wg_delete before reporting the failure (DESIGN.md Open
// Question decision #1 — the "new contract" spec.md §9 invites).
func (ctl *Controller) Create(c *gin.Context) {
	asn, ok := c.Get(middleware.ASNKey)
	if !ok {
		core.WriteResponse(c, errors.WithCode(code.ErrMissingASN, "%s", code.Message(code.ErrMissingASN)), nil)
		return
	}

	var req v1.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		core.WriteResponseBindErr(c, err, nil)
		return
	}
	req.ASN = asn.(int64)

	peerInfo := req.ToPeerInfo()
	if err := peerInfo.Dn42Validate(); err != nil {
		core.WriteResponse(c, err, nil)
		return
	}

	if _, err := ctl.ipc.CallExpectingSuccess(&ipc.Request{Command: ipc.CommandWgCreate, Peer: peerInfo}); err != nil {
		core.WriteResponse(c, err, nil)
		return
	}

	listResp, err := ctl.ipc.CallExpectingSuccess(&ipc.Request{Command: ipc.CommandPeerList})
	if err != nil {
		ctl.compensateWgDelete(peerInfo)
		core.WriteResponse(c, err, nil)
		return
	}

	if _, err := ctl.ipc.CallExpectingSuccess(&ipc.Request{Command: ipc.CommandBgpUpdate, Peers: listResp.Peers}); err != nil {
		ctl.compensateWgDelete(peerInfo)
		core.WriteResponse(c, err, nil)
		return
	}

	core.WriteResponse(c, nil, v1.MessageResponse{Message: "peering session created"})
}

// compensateWgDelete issues a best-effort wg_delete to undo a wg_create
// whose follow-on bgp_update failed, rather than leave the interface
// applied with no corresponding BGP session. Its own failure is logged,
// not returned — the caller already has the primary error to report.
func (ctl *Controller) compensateWgDelete(peerInfo *model.PeerInfo) {
	if _, err := ctl.ipc.Call(&ipc.Request{Command: ipc.CommandWgDelete, Peer: peerInfo}); err != nil {
		klog.ErrorS(err, "compensating wg_delete after bgp_update failure also failed", "asn", peerInfo.ASN)
	}
}
