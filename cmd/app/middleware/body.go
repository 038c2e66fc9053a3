package middleware

import (
	"bytes"
	"io"

	"github.com/gin-gonic/gin"
)

// signedBody is the minimal shape both filters need to pull out of the
// request body: ASN for both, token for the second filter only (spec.md
// §4.3 steps 3 and the token filter's step 2).
type signedBody struct {
	ASN   int64  `json:"ASN"`
	Token string `json:"token"`
}

// readBody drains c.Request.Body and restores it so downstream filters and
// the final handler can each read the full body independently, matching
// spec.md §4.3's "never modify the body payload seen by the handler".
func readBody(c *gin.Context) ([]byte, error) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	return raw, nil
}
