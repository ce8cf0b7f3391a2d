package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	authDelivery "feedhub-backend/internal/auth/delivery"
	authUsecase "feedhub-backend/internal/auth/usecase"
	feedDelivery "feedhub-backend/internal/feed/delivery"
	"feedhub-backend/pkg/apperror"
	"feedhub-backend/pkg/config"
	"feedhub-backend/pkg/sse"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase authUsecase.AuthUsecase
	feedHandler *feedDelivery.FeedHandler
	sseManager  *sse.Manager
	config      *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, feedHandler *feedDelivery.FeedHandler, sseManager *sse.Manager, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase: authUc,
		feedHandler: feedHandler,
		sseManager:  sseManager,
		config:      cfg,
	}
}

// corsConfig allows any origin without credentials for "*" (or no list),
// otherwise only the listed origins, with credentials
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "Cache-Control", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	var listed []string
	for _, origin := range origins {
		if origin = strings.TrimSpace(origin); origin != "" && origin != "*" {
			listed = append(listed, origin)
		}
	}
	if len(listed) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = listed
	cfg.AllowCredentials = true
	return cfg
}

// Router builds the gin engine with middleware and every route registered
func (h *Handler) Router() *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = h.config.Feed.MaxUploadBytes

	r.Use(cors.New(corsConfig(h.config.HTTP.AllowOrigins)))

	r.Use(apperror.Middleware())
	r.Use(authDelivery.AuthMiddleware(h.authUsecase))

	SetupRoutes(r, h.authUsecase, h.feedHandler, h.sseManager)
	return r
}

// Run serves HTTP on addr until ctx is cancelled, then drains in-flight requests
func (h *Handler) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: h.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// SSE streams never finish on their own
	h.sseManager.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), h.config.HTTP.ShutdownTimeout)
	defer cancel()
	log.Println("Server shutting down")
	return srv.Shutdown(shutdownCtx)
}
