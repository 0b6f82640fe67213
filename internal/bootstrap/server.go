package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/abelyansky/travelbook/api"
	"github.com/abelyansky/travelbook/config"
	"github.com/abelyansky/travelbook/internal/service/bookings"
	"github.com/gin-gonic/gin"
)

// Run starts the dashboard HTTP server and blocks until the context is
// canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, svc *bookings.Service) error {
	router := gin.Default()

	handler := api.NewBookingHandler(svc)
	handler.Register(router.Group("/bookings"))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:    cfg.Dashboard.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
