package worker

import (
	"context"

	"github.com/HappyLadySauce/errors"

	"github.com/dn42/autopeerd/internal/pkg/code"
	"github.com/dn42/autopeerd/internal/pkg/ipc"
)

// handle dispatches req.Command, converting any returned error into a
// {success: false, error} response rather than propagating it — the
// worker's socket loop must survive every handler failure.
func (w *Worker) handle(ctx context.Context, req *ipc.Request) *ipc.Response {
	switch req.Command {
	case ipc.CommandWgExists:
		return w.handleWgExists(ctx, req)
	case ipc.CommandWgCreate:
		return w.handleWgCreate(ctx, req)
	case ipc.CommandWgDelete:
		return w.handleWgDelete(ctx, req)
	case ipc.CommandBgpUpdate:
		return w.handleBgpUpdate(ctx, req)
	case ipc.CommandPeerGet:
		return w.handlePeerGet(ctx, req)
	case ipc.CommandPeerList:
		return w.handlePeerList(ctx, req)
	default:
		return ipc.Fail("", errors.WithCode(code.ErrInvalidCommand, "unknown or missing command %q", req.Command))
	}
}

func (w *Worker) handleWgExists(ctx context.Context, req *ipc.Request) *ipc.Response {
	if req.Peer == nil {
		return ipc.Fail("", errors.WithCode(code.ErrBind, "peer not provided for wg_exists"))
	}
	exists, err := w.engine.WgExists(ctx, req.Peer)
	if err != nil {
		return ipc.Fail("", err)
	}
	resp := ipc.OK("")
	resp.Exists = exists
	return resp
}

func (w *Worker) handleWgCreate(ctx context.Context, req *ipc.Request) *ipc.Response {
	if req.Peer == nil {
		return ipc.Fail("", errors.WithCode(code.ErrBind, "peer not provided for wg_create"))
	}
	if err := w.engine.WgCreate(ctx, req.Peer); err != nil {
		return ipc.Fail("", err)
	}
	if err := w.peers.Create(ctx, req.Peer); err != nil {
		return ipc.Fail("", err)
	}
	return ipc.OK("")
}

func (w *Worker) handleWgDelete(ctx context.Context, req *ipc.Request) *ipc.Response {
	if req.Peer == nil {
		return ipc.Fail("", errors.WithCode(code.ErrBind, "peer not provided for wg_delete"))
	}
	if err := w.engine.WgDelete(ctx, req.Peer); err != nil {
		return ipc.Fail("", err)
	}
	if err := w.peers.Delete(ctx, req.Peer.ASN); err != nil {
		return ipc.Fail("", err)
	}
	return ipc.OK("")
}

func (w *Worker) handleBgpUpdate(ctx context.Context, req *ipc.Request) *ipc.Response {
	if err := w.engine.BgpUpdate(ctx, req.Peers); err != nil {
		return ipc.Fail("", err)
	}
	return ipc.OK("")
}

func (w *Worker) handlePeerGet(ctx context.Context, req *ipc.Request) *ipc.Response {
	peer, err := w.peers.Get(ctx, req.ASN)
	if err != nil {
		return ipc.Fail("", err)
	}
	resp := ipc.OK("")
	resp.Peer = peer
	return resp
}

func (w *Worker) handlePeerList(ctx context.Context, req *ipc.Request) *ipc.Response {
	peers, err := w.peers.List(ctx)
	if err != nil {
		return ipc.Fail("", err)
	}
	resp := ipc.OK("")
	resp.Peers = peers
	return resp
}
