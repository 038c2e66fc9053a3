// Package ipcclient implements the HTTP front-end's side of the framed
// command channel to the privileged worker: one shared connection, one
// request outstanding at a time (spec.md §4.6 "single-worker" note).
package ipcclient

import (
	"net"
	"sync"

	"github.com/HappyLadySauce/errors"
	"k8s.io/klog/v2"

	"github.com/dn42/autopeerd/internal/pkg/code"
	"github.com/dn42/autopeerd/internal/pkg/ipc"
	"github.com/dn42/autopeerd/pkg/utils/snowflake"
)

// Client serializes every command over a single net.Conn with a mutex held
// across the full send->recv exchange, since the length-prefixed protocol
// is not multiplexed (spec.md §4.6, §5).
type Client struct {
	mu   sync.Mutex
	conn net.Conn
}

// New wraps conn, the front-end's end of the privsep socketpair.
func New(conn net.Conn) *Client {
	return &Client{conn: conn}
}

// Call sends req and waits for the matching response. A framing error is
// fatal to the channel per spec.md §9's redesign: the connection is not
// retried or resynchronized, and every subsequent Call on this Client will
// fail the same way until the process is restarted.
func (c *Client) Call(req *ipc.Request) (*ipc.Response, error) {
	correlationID, err := snowflake.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate correlation id")
	}
	req.CorrelationID = correlationID

	encoded, err := req.Encode()
	if err != nil {
		return nil, errors.WithCode(code.ErrWorkerUnreachable, "failed to encode IPC request: %v", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ipc.WriteFrame(c.conn, encoded); err != nil {
		klog.ErrorS(err, "ipcclient: fatal write error, worker channel is down")
		_ = c.conn.Close()
		return nil, errors.WithCode(code.ErrWorkerUnreachable, "failed to send command to worker: %v", err)
	}

	payload, err := ipc.ReadFrame(c.conn)
	if err != nil {
		klog.ErrorS(err, "ipcclient: fatal read error, worker channel is down")
		_ = c.conn.Close()
		return nil, errors.WithCode(code.ErrWorkerUnreachable, "failed to read worker response: %v", err)
	}

	resp, err := ipc.DecodeResponse(payload)
	if err != nil {
		return nil, errors.WithCode(code.ErrWorkerUnreachable, "failed to decode worker response: %v", err)
	}
	if resp.CorrelationID != "" && resp.CorrelationID != correlationID {
		klog.V(1).InfoS("ipcclient: correlation id mismatch", "sent", correlationID, "got", resp.CorrelationID)
	}

	return resp, nil
}

// CallExpectingSuccess is a convenience wrapper that turns a
// {success: false} response into a code.ErrWorkerFailure error, matching
// the front-end's error-propagation policy (spec.md §7).
func (c *Client) CallExpectingSuccess(req *ipc.Request) (*ipc.Response, error) {
	resp, err := c.Call(req)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return resp, errors.WithCode(code.ErrWorkerFailure, "%s", resp.Error)
	}
	return resp, nil
}
