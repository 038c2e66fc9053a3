package middleware

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/HappyLadySauce/errors"

	"github.com/dn42/autopeerd/internal/pkg/code"
	"github.com/dn42/autopeerd/internal/pkg/session"
	"github.com/dn42/autopeerd/pkg/core"
)

// TokenAuth consumes the single-use session token minted by /login/,
// applied only to /peer/* per spec.md §4.3's token filter. minter validates
// the token's structure and signature; cache is the authoritative
// single-use/TTL check (spec.md §4.2's "lookup, compare, delete form a
// single atomic step").
func TokenAuth(cache *session.Cache, minter *session.Minter) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := readBody(c)
		if err != nil {
			core.WriteResponse(c, errors.WithCode(code.ErrBind, "failed to read request body"), nil)
			c.Abort()
			return
		}
		if len(raw) == 0 {
			c.Next()
			return
		}

		var body signedBody
		if err := json.Unmarshal(raw, &body); err != nil {
			core.WriteResponse(c, errors.WithCode(code.ErrInvalidJSON, "body is not valid JSON"), nil)
			c.Abort()
			return
		}
		if body.ASN == 0 {
			core.WriteResponse(c, errors.WithCode(code.ErrMissingASN, "%s", code.Message(code.ErrMissingASN)), nil)
			c.Abort()
			return
		}
		if body.Token == "" {
			core.WriteResponse(c, errors.WithCode(code.ErrMissingToken, "%s", code.Message(code.ErrMissingToken)), nil)
			c.Abort()
			return
		}

		if _, err := minter.Parse(body.Token); err != nil {
			core.WriteResponse(c, err, nil)
			c.Abort()
			return
		}
		if err := cache.Consume(body.ASN, body.Token); err != nil {
			core.WriteResponse(c, err, nil)
			c.Abort()
			return
		}

		c.Set(ASNKey, body.ASN)
		c.Next()
	}
}
