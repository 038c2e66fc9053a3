package ipc

import (
	"encoding/json"

	"github.com/dn42/autopeerd/internal/pkg/model"
)

// Command names dispatched on the `command` field of a request envelope
// (spec.md §4.4).
const (
	CommandWgExists  = "wg_exists"
	CommandWgCreate  = "wg_create"
	CommandWgDelete  = "wg_delete"
	CommandBgpUpdate = "bgp_update"
	CommandPeerGet   = "peer_get"
	CommandPeerList  = "peer_list"
)

// Request is the envelope sent to the privileged worker. Only the field
// relevant to Command is populated.
type Request struct {
	CorrelationID string            `json:"correlation_id,omitempty"`
	Command       string            `json:"command"`
	Peer          *model.PeerInfo   `json:"peer,omitempty"`
	Peers         []*model.PeerInfo `json:"peers,omitempty"`
	ASN           int64             `json:"asn,omitempty"`
}

// Response is the envelope returned by the privileged worker. Success
// carries an optional Peer/Peers payload; failure always sets Error.
type Response struct {
	CorrelationID string            `json:"correlation_id,omitempty"`
	Success       bool              `json:"success"`
	Error         string            `json:"error,omitempty"`
	Peer          *model.PeerInfo   `json:"peer,omitempty"`
	Peers         []*model.PeerInfo `json:"peers,omitempty"`
	Exists        bool              `json:"exists,omitempty"`
}

// Encode marshals req to JSON.
func (req *Request) Encode() ([]byte, error) {
	return json.Marshal(req)
}

// DecodeRequest unmarshals a raw frame payload into a Request.
func DecodeRequest(payload []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// Encode marshals resp to JSON.
func (resp *Response) Encode() ([]byte, error) {
	return json.Marshal(resp)
}

// DecodeResponse unmarshals a raw frame payload into a Response.
func DecodeResponse(payload []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Fail builds a failure Response carrying err's message, mirroring the
// worker's "never crashes on handler error" contract (spec.md §4.4 step 3).
func Fail(correlationID string, err error) *Response {
	return &Response{CorrelationID: correlationID, Success: false, Error: err.Error()}
}

// OK builds a bare success Response.
func OK(correlationID string) *Response {
	return &Response{CorrelationID: correlationID, Success: true}
}
