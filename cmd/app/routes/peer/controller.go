// Package peer implements the four dropped-privilege HTTP handlers
// (spec.md §4.6), generalized from the teacher's internal/controller
// pattern: a small struct holding the collaborators a handler needs,
// constructed once in cmd/app/api.go and registered against router.New's
// router.PeerRoutes interface.
package peer

import (
	"github.com/dn42/autopeerd/internal/pkg/ipcclient"
	"github.com/dn42/autopeerd/internal/pkg/session"
)

// Controller answers /login/ and /peer/* requests. It holds no database
// handle of its own: every persistence-touching operation goes through ipc
// to the privileged worker (DESIGN.md Open Question decision #4).
type Controller struct {
	ipc    *ipcclient.Client
	cache  *session.Cache
	minter *session.Minter
}

// New builds a Controller.
func New(ipc *ipcclient.Client, cache *session.Cache, minter *session.Minter) *Controller {
	return &Controller{ipc: ipc, cache: cache, minter: minter}
}
