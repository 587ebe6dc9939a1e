package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/partvault-backend/internal/http/handlers"
	"github.com/yungbote/partvault-backend/internal/http/middleware"
	"github.com/yungbote/partvault-backend/internal/observability"
	"github.com/yungbote/partvault-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics
	Tracing bool

	PartHandler      *handlers.PartHandler
	StructureHandler *handlers.StructureHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Tracing {
		router.Use(otelgin.Middleware("partvault-backend"))
	}
	router.Use(middleware.CORS())
	router.Use(middleware.AttachRequestContext())
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(middleware.Metrics(cfg.Metrics))

	router.GET("/healthcheck", handlers.HealthCheck)
	if cfg.Metrics != nil {
		router.GET("/metrics", cfg.Metrics.Handler())
	}

	api := router.Group("/api")
	{
		// Parts
		api.POST("/parts", cfg.PartHandler.CreatePart)
		api.GET("/parts/:id", cfg.PartHandler.GetPart)
		api.DELETE("/parts/:id", cfg.PartHandler.DeletePart)
		api.POST("/parts/:id/versions", cfg.PartHandler.CreateNextVersion)
		api.POST("/parts/:id/current-version", cfg.PartHandler.UpdatePartWithStatus)

		// Part versions
		api.PATCH("/part-versions/:id", cfg.PartHandler.UpdatePartVersion)
		api.GET("/part-versions/:id/revisions", cfg.PartHandler.ListRevisions)

		// Structure edges
		api.GET("/parts/:id/structure-edges", cfg.StructureHandler.EdgesForPart)
		api.POST("/structure-edges", cfg.StructureHandler.AddEdge)
		api.PATCH("/structure-edges/:id", cfg.StructureHandler.UpdateEdge)
		api.DELETE("/structure-edges/:id", cfg.StructureHandler.RemoveEdge)
		api.POST("/structure-edges/:id/supersede", cfg.StructureHandler.SupersedeEdge)
	}

	return router
}
