package peer

import (
	"github.com/gin-gonic/gin"

	"github.com/dn42/autopeerd/cmd/app/middleware"
	"github.com/dn42/autopeerd/internal/pkg/code"
	"github.com/dn42/autopeerd/internal/pkg/ipc"
	v1 "github.com/dn42/autopeerd/internal/pkg/types/v1"
	"github.com/dn42/autopeerd/pkg/core"

	"github.com/HappyLadySauce/errors"
)

// Info returns the stored PeerInfo for the authenticated ASN, or a message
// if none exists (spec.md §4.6). There is no local database handle; the
// record is fetched over ipc from the privileged worker.
func (ctl *Controller) Info(c *gin.Context) {
	asn, ok := c.Get(middleware.ASNKey)
	if !ok {
		core.WriteResponse(c, errors.WithCode(code.ErrMissingASN, "%s", code.Message(code.ErrMissingASN)), nil)
		return
	}

	resp, err := ctl.ipc.Call(&ipc.Request{Command: ipc.CommandPeerGet, ASN: asn.(int64)})
	if err != nil {
		core.WriteResponse(c, err, nil)
		return
	}
	if !resp.Success || resp.Peer == nil {
		core.WriteResponse(c, errors.WithCode(code.ErrPeerNotFound, "%s", code.Message(code.ErrPeerNotFound)), nil)
		return
	}

	core.WriteResponse(c, nil, v1.PeerInfoResponse{Peer: resp.Peer})
}
