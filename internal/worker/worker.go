// Package worker implements the privileged process's command loop: it
// reads framed commands off its socket end, dispatches them against a
// provision.Engine and an internal/store.PeerStore, and writes framed
// responses back (spec.md §4.4).
package worker

import (
	"context"
	"io"
	"net"

	"k8s.io/klog/v2"

	"github.com/dn42/autopeerd/internal/pkg/ipc"
	"github.com/dn42/autopeerd/internal/pkg/provision"
	"github.com/dn42/autopeerd/internal/store"
)

// Worker owns the privileged end of the command channel.
type Worker struct {
	conn   net.Conn
	engine *provision.Engine
	peers  store.PeerStore
}

// New returns a Worker serving conn.
func New(conn net.Conn, engine *provision.Engine, peers store.PeerStore) *Worker {
	return &Worker{conn: conn, engine: engine, peers: peers}
}

// Run blocks, serving one command at a time until a framing error or EOF
// ends the loop. Per spec.md §9's redesign, any framing error is fatal:
// the loop returns immediately rather than attempting to resynchronize on
// the next frame.
func (w *Worker) Run() error {
	for {
		payload, err := ipc.ReadFrame(w.conn)
		if err != nil {
			if err == io.EOF {
				klog.V(1).InfoS("worker: command channel closed")
				return nil
			}
			klog.ErrorS(err, "worker: fatal framing error, closing channel")
			return err
		}

		resp := w.dispatch(payload)

		encoded, err := resp.Encode()
		if err != nil {
			klog.ErrorS(err, "worker: failed to encode response")
			return err
		}
		if err := ipc.WriteFrame(w.conn, encoded); err != nil {
			klog.ErrorS(err, "worker: fatal framing error on write, closing channel")
			return err
		}
	}
}

// dispatch decodes and runs one command, never panicking or returning an
// error itself — handler failures become a {success: false} response
// (spec.md §4.4 step 3: "the worker never crashes on handler error").
func (w *Worker) dispatch(payload []byte) *ipc.Response {
	req, err := ipc.DecodeRequest(payload)
	if err != nil {
		return ipc.Fail("", err)
	}

	resp := w.handle(context.Background(), req)
	resp.CorrelationID = req.CorrelationID
	return resp
}
