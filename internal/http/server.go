package http

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/partvault-backend/internal/pkg/logger"
)

// Server wraps the gin engine in an http.Server so shutdown can drain
// in-flight requests instead of dropping them.
type Server struct {
	log *logger.Logger
	srv *stdhttp.Server
}

func NewServer(log *logger.Logger, addr string, router *gin.Engine) *Server {
	return &Server{
		log: log.With("service", "HTTPServer"),
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Run() error {
	s.log.Info("HTTP server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("HTTP server shutting down")
	return s.srv.Shutdown(ctx)
}
