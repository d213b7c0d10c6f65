package routes

import (
	"harambee_billing/internal/adapter/http/handlers"
	"harambee_billing/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
)

const (
	PathDonations = "/donations"
	PathPayments  = "/payments"
	PathCallback  = "/mpesa/callback"
	PathCampaigns = "/campaigns"
)

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", handlers.Ping)
}

func addPaymentRoutes(rg *gin.RouterGroup, deps Dependencies) {
	donationHandler := handlers.NewDonationHandler(deps.Reconciliation, deps.Log)
	callbackHandler := handlers.NewCallbackHandler(deps.Reconciliation, deps.Log)
	statusHandler := handlers.NewPaymentStatusHandler(deps.PaymentStatus)

	rg.POST(PathDonations, donationHandler.InitiateDonation)
	rg.POST(PathCallback, middleware.CallbackOrigin(deps.CallbackOrigin, deps.Log), callbackHandler.ReceiveCallback)

	payments := rg.Group(PathPayments)
	{
		payments.GET("/:correlation_id/status", statusHandler.GetPaymentStatus)
	}
}

func addCampaignRoutes(rg *gin.RouterGroup, h *handlers.CampaignHandler) {
	campaigns := rg.Group(PathCampaigns)
	{
		campaigns.GET("/:id", h.GetCampaign)
		campaigns.GET("/:id/donations", h.ListDonations)
	}
}
