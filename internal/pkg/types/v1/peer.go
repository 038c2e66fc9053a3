// Package v1 holds the HTTP request/response DTOs for the dropped-privilege
// front-end, mirrored from the teacher's own internal/pkg/types/v1 pattern
// but carrying this domain's peering fields instead of user/auth ones.
package v1

import "github.com/dn42/autopeerd/internal/pkg/model"

// LoginRequest is the body of POST /login/: a bare signed ASN claim
// (spec.md §4.3's signature filter authenticates it before the handler
// ever sees it; the handler itself only mints a token).
// swagger:model
type LoginRequest struct {
	ASN int64 `json:"ASN" binding:"required"`
}

// LoginResponse carries the session token minted for a successful login.
// swagger:model
type LoginResponse struct {
	Token string `json:"token"`
}

// TokenRequest is the shared body shape of every /peer/* endpoint that
// needs nothing beyond the authenticated ASN and its single-use token
// (POST /peer/info, DELETE /peer/delete).
// swagger:model
type TokenRequest struct {
	ASN   int64  `json:"ASN" binding:"required"`
	Token string `json:"token" binding:"required"`
}

// PeerInfoResponse wraps the stored PeerInfo returned by POST /peer/info.
// swagger:model
type PeerInfoResponse struct {
	Peer *model.PeerInfo `json:"peer"`
}

// CreateRequest is the body of POST /peer/create: the token filter's
// fields plus every PeerInfo field the worker needs to provision a
// session (spec.md §4.5).
// swagger:model
type CreateRequest struct {
	ASN   int64  `json:"ASN" binding:"required"`
	Token string `json:"token" binding:"required"`

	Description string `json:"description"`
	PeerIP      string `json:"peer_ip"`
	PeerPort    int    `json:"peer_port"`
	PeerPubkey  string `json:"peer_pubkey"`
	PeerPSK     string `json:"peer_psk"`
	LLIP4       string `json:"ll_ip4"`
	LLIP6       string `json:"ll_ip6"`
	DN42IP4     string `json:"dn42_ip4"`
	DN42IP6     string `json:"dn42_ip6"`
}

// ToPeerInfo builds the model.PeerInfo the worker provisions from, filling
// in ASN from the authenticated body.
func (r *CreateRequest) ToPeerInfo() *model.PeerInfo {
	return &model.PeerInfo{
		ASN:         r.ASN,
		Description: r.Description,
		PeerIP:      r.PeerIP,
		PeerPort:    r.PeerPort,
		PeerPubkey:  r.PeerPubkey,
		PeerPSK:     r.PeerPSK,
		LLIP4:       r.LLIP4,
		LLIP6:       r.LLIP6,
		DN42IP4:     r.DN42IP4,
		DN42IP6:     r.DN42IP6,
	}
}

// MessageResponse is the generic {message} body spec.md §4.6 returns for
// POST /peer/create on success.
// swagger:model
type MessageResponse struct {
	Message string `json:"message"`
}

// DeleteResponse is the body of DELETE /peer/delete (spec.md §4.6's
// response table names both fields, unlike the other endpoints' bare
// {message}).
// swagger:model
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
