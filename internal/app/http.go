package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/partvault-backend/internal/http"
	httpH "github.com/yungbote/partvault-backend/internal/http/handlers"
	"github.com/yungbote/partvault-backend/internal/observability"
	"github.com/yungbote/partvault-backend/internal/pkg/logger"
	"github.com/yungbote/partvault-backend/internal/realtime/bus"
)

type Handlers struct {
	Part      *httpH.PartHandler
	Structure *httpH.StructureHandler
}

func wireHandlers(log *logger.Logger, aggs Aggregates, repos Repos, events *httpH.EventPublisher) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Part:      httpH.NewPartHandler(log, aggs.Part, repos.Revisions, events),
		Structure: httpH.NewStructureHandler(log, aggs.Structure, events),
	}
}

func wireEventPublisher(cfg Config, log *logger.Logger, metrics *observability.Metrics) *httpH.EventPublisher {
	var b bus.Bus = bus.NoopBus{}
	if cfg.EventsEnabled {
		redisBus, err := bus.NewRedisBus(log)
		if err != nil {
			log.Warn("Redis event bus init failed, events disabled", "error", err)
		} else {
			b = redisBus
		}
	}
	return httpH.NewEventPublisher(log, b, metrics)
}

func wireRouter(cfg Config, log *logger.Logger, metrics *observability.Metrics, handlers Handlers) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		Tracing:          cfg.TracingEnabled,
		PartHandler:      handlers.Part,
		StructureHandler: handlers.Structure,
	})
}
