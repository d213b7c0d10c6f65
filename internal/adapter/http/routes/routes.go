package routes

import (
	"context"
	"errors"
	"net/http"
	"time"

	_ "harambee_billing/docs" // swagger spec registration
	"harambee_billing/internal/adapter/http/handlers"
	"harambee_billing/internal/adapter/http/middleware"
	"harambee_billing/internal/infrastructure/logging"
	"harambee_billing/internal/infrastructure/metrics"
	"harambee_billing/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 10 * time.Second

// Dependencies are the collaborators wired by cmd/api.
type Dependencies struct {
	Reconciliation usecase.IReconciliationUseCase
	PaymentStatus  usecase.IPaymentStatusUseCase
	Campaigns      usecase.ICampaignUseCase
	Health         *handlers.HealthHandler
	CallbackOrigin middleware.CallbackOriginConfig
	TrustedProxies []string
	Log            logrus.FieldLogger
}

// NewRouter builds the gin engine with every public route registered.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}

	router := gin.New()
	if err := router.SetTrustedProxies(deps.TrustedProxies); err != nil {
		return nil, err
	}
	setMiddlewares(router, deps.Log)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	if deps.Health != nil {
		router.GET("/health", deps.Health.Health)
	}

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addPaymentRoutes(v1, deps)
	addCampaignRoutes(v1, handlers.NewCampaignHandler(deps.Campaigns))
	return router, nil
}

// Run serves router on addr until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, router http.Handler, addr string, log logrus.FieldLogger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("[http] listening")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("[http] shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-serveErr
	return nil
}

func setMiddlewares(router *gin.Engine, log logrus.FieldLogger) {
	router.Use(logging.GinLogger(log))
	router.Use(metrics.GinMiddleware())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.WithField("panic", recovered).Error("[http] recovered from panic")
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}
