package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	portssvc "github.com/reconbooks/recon_backend/internal/core/ports/services"
	"github.com/reconbooks/recon_backend/internal/platform/config"
	"github.com/reconbooks/recon_backend/internal/worker"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	consumer *worker.Consumer,
	registry *prometheus.Registry,
) {
	registerValidations()

	r.GET("/", getHome)

	// Health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	setupAPIV1Routes(r, cfg, services, consumer)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	consumer *worker.Consumer,
) {
	v1 := r.Group("/api/v1")

	registerMerchantRoutes(v1, services)
	registerAccountLookupRoutes(v1, services.Account, services.Balance)
	registerStagingEntryRoutes(v1, services.StagingEntry)
	registerTransactionRoutes(v1, services.Ledger)
	registerReconRoutes(v1, consumer, services.Task, cfg.ReconBatchBudget)
}
