package peer

import (
	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/dn42/autopeerd/cmd/app/middleware"
	"github.com/dn42/autopeerd/internal/pkg/code"
	v1 "github.com/dn42/autopeerd/internal/pkg/types/v1"
	"github.com/dn42/autopeerd/pkg/core"

	"github.com/HappyLadySauce/errors"
)

// Login mints and caches a session token for the ASN SignatureAuth already
// authenticated. No database write; the session exists only in the
// in-memory cache until consumed or evicted (spec.md §4.6).
func (ctl *Controller) Login(c *gin.Context) {
	asn, ok := c.Get(middleware.ASNKey)
	if !ok {
		core.WriteResponse(c, errors.WithCode(code.ErrMissingASN, "%s", code.Message(code.ErrMissingASN)), nil)
		return
	}

	token, err := ctl.minter.Mint(asn.(int64))
	if err != nil {
		klog.ErrorS(err, "failed to mint session token", "asn", asn)
		core.WriteResponse(c, err, nil)
		return
	}
	if err := ctl.cache.Store(asn.(int64), token); err != nil {
		core.WriteResponse(c, err, nil)
		return
	}

	core.WriteResponse(c, nil, v1.LoginResponse{Token: token})
}
