package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/plateful/backend/config"
	"github.com/plateful/backend/internal/api"
	"github.com/plateful/backend/internal/middleware"
	"github.com/plateful/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New creates a new server instance with all routes registered.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	router := gin.Default()
	router.Use(middleware.CORS())

	// Recipe images go to S3 when a bucket is configured, otherwise to the
	// local media directory.
	var imageStore service.ImageStore
	if cfg.S3Bucket != "" {
		s3cfg, err := config.NewS3Config(context.Background())
		if err != nil {
			log.Printf("S3 unavailable, falling back to local image storage: %v", err)
		} else {
			imageStore = service.NewS3ImageStore(s3cfg)
		}
	}

	api.SetupAPI(router, db, redisClient, cfg, imageStore)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    ":" + cfg.ServerPort,
			Handler: router,
		},
	}
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
