package router

import (
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"

	"github.com/dn42/autopeerd/cmd/app/middleware"
	"github.com/dn42/autopeerd/pkg/environment"
)

func SetupMiddlewares(router *gin.Engine) {
	// install cors middleware
	router.Use(middleware.Cors())

	// install pprof handler and metrics handler only outside development mode
	if !environment.IsDev() {
		// install pprof handler
		pprof.Register(router)

		// install metrics handler
		prometheus := ginprometheus.NewPrometheus("gin")
		prometheus.Use(router)
	}
}
