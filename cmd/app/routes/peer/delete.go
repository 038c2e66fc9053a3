package peer

import (
	"github.com/gin-gonic/gin"

	"github.com/dn42/autopeerd/cmd/app/middleware"
	"github.com/dn42/autopeerd/internal/pkg/code"
	"github.com/dn42/autopeerd/internal/pkg/ipc"
	"github.com/dn42/autopeerd/internal/pkg/provision"
	v1 "github.com/dn42/autopeerd/internal/pkg/types/v1"
	"github.com/dn42/autopeerd/pkg/core"

	"github.com/HappyLadySauce/errors"
)

// Delete tears down and forgets a peering session (spec.md §4.6): fetch
// the stored record, wg_delete it, then bgp_update with the remaining
// peer list.
func (ctl *Controller) Delete(c *gin.Context) {
	asn, ok := c.Get(middleware.ASNKey)
	if !ok {
		core.WriteResponse(c, errors.WithCode(code.ErrMissingASN, "%s", code.Message(code.ErrMissingASN)), nil)
		return
	}

	getResp, err := ctl.ipc.Call(&ipc.Request{Command: ipc.CommandPeerGet, ASN: asn.(int64)})
	if err != nil {
		core.WriteResponse(c, err, nil)
		return
	}
	if !getResp.Success || getResp.Peer == nil {
		core.WriteResponse(c, errors.WithCode(code.ErrPeerNotFound, "%s", code.Message(code.ErrPeerNotFound)), nil)
		return
	}

	if _, err := ctl.ipc.CallExpectingSuccess(&ipc.Request{Command: ipc.CommandWgDelete, Peer: getResp.Peer}); err != nil {
		core.WriteResponse(c, err, nil)
		return
	}

	listResp, err := ctl.ipc.CallExpectingSuccess(&ipc.Request{Command: ipc.CommandPeerList})
	if err != nil {
		core.WriteResponse(c, err, nil)
		return
	}
	remaining := provision.RemainingPeers(listResp.Peers, asn.(int64))

	if _, err := ctl.ipc.CallExpectingSuccess(&ipc.Request{Command: ipc.CommandBgpUpdate, Peers: remaining}); err != nil {
		core.WriteResponse(c, err, nil)
		return
	}

	core.WriteResponse(c, nil, v1.DeleteResponse{Success: true, Message: "peering session deleted"})
}
