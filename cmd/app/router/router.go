// Package router assembles the gin engine the dropped-privilege HTTP
// front-end serves, mounting the exact endpoint set spec.md §4.6 and §6
// name (no /api/v1 prefix, unlike the teacher's own API — this domain's
// paths are dictated by the source protocol, not a REST convention).
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/dn42/autopeerd/pkg/environment"

	_ "github.com/dn42/autopeerd/api/swagger/docs"
)

// Deps bundles the gin.HandlerFuncs routes need. Threaded through an
// explicit constructor rather than a package-scope singleton, since the
// underlying session cache, IPC client, and PGP verifier are only
// available once the worker has been spawned (spec.md §9 design note
// against module-scope singletons).
type Deps struct {
	SignatureAuth gin.HandlerFunc
	TokenAuth     gin.HandlerFunc
	Peer          PeerRoutes
}

// PeerRoutes is implemented by cmd/app/routes/peer.Controller.
type PeerRoutes interface {
	Login(c *gin.Context)
	Info(c *gin.Context)
	Create(c *gin.Context)
	Delete(c *gin.Context)
}

// New builds the HTTP engine. Call once per process; the dropped-privilege
// child calls this after privsep.DropPrivileges and before binding its
// listener.
func New(deps Deps) *gin.Engine {
	if !environment.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	SetupMiddlewares(router)
	_ = router.SetTrustedProxies(nil)

	router.POST("/login/", deps.SignatureAuth, deps.Peer.Login)

	peer := router.Group("/peer")
	peer.Use(deps.SignatureAuth, deps.TokenAuth)
	peer.POST("/info", deps.Peer.Info)
	peer.POST("/create", deps.Peer.Create)
	peer.DELETE("/delete", deps.Peer.Delete)

	router.GET("/livez", func(c *gin.Context) {
		c.String(200, "livez")
	})
	router.GET("/readyz", func(c *gin.Context) {
		c.String(200, "readyz")
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
