package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/Desmondwr/payrovaHR-backend-sub000/cmd/docs"
	portssvc "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/services"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/middleware"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	RegisterValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupTreasuryRoutes(r, cfg, services)
	setupSwaggerRoutes(r, cfg)
}

// setupTreasuryRoutes configures the /api/treasury group and delegates to the
// per-resource route registrations.
func setupTreasuryRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, middleware.InstitutionHeader, middleware.UserHeader)

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		// Misconfigured rate limits should fail loudly, not silently unlimit.
		panic("invalid RATE_LIMIT: " + err.Error())
	}
	limiterInstance := limiter.New(memory.NewStore(), rate)

	api := r.Group("/api/treasury",
		cors.New(corsConfig),
		middleware.RateLimit(limiterInstance),
		middleware.TenantMiddleware(),
	)

	registerConfigRoutes(api, services.Config)
	registerFundingSourceRoutes(api, services.FundingSource)
	registerSessionRoutes(api, services.Session)
	registerLedgerRoutes(api, services.Ledger)
	registerPaymentRoutes(api, services.Payment)
	registerStatementRoutes(api, services.Statement)
	registerReconciliationRoutes(api, services.Reconciliation)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/treasury"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
