package handlers

import (
	"net/http"
	"strconv"
	"strings"

	response "harambee_billing/internal/adapter/http/dto/response"
	"harambee_billing/internal/usecase"

	"github.com/gin-gonic/gin"
)

// CampaignHandler serves read-only campaign progress.
type CampaignHandler struct {
	usecase usecase.ICampaignUseCase
}

func NewCampaignHandler(uc usecase.ICampaignUseCase) *CampaignHandler {
	return &CampaignHandler{usecase: uc}
}

// GetCampaign godoc
// @Summary  Campaign progress
// @Tags     campaigns
// @Produce  json
// @Param    id   path      string  true  "Campaign id"
// @Success  200  {object}  response.CampaignResponse
// @Failure  404  {object}  pkg.HTTPError
// @Router   /v1/campaigns/{id} [get]
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	campaign, err := h.usecase.GetCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromCampaign(campaign))
}

// ListDonations godoc
// @Summary  Completed donations of a campaign, newest first
// @Tags     campaigns
// @Produce  json
// @Param    id     path      string  true   "Campaign id"
// @Param    limit  query     int     false  "Page size (max 100)"
// @Success  200    {object}  response.DonationListResponse
// @Failure  404    {object}  pkg.HTTPError
// @Router   /v1/campaigns/{id}/donations [get]
func (h *CampaignHandler) ListDonations(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(errInvalidRequest.HTTPStatus, errInvalidRequest.ToHTTPError())
			return
		}
		limit = n
	}

	campaignID := c.Param("id")
	donations, err := h.usecase.ListDonations(c.Request.Context(), campaignID, limit)
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromDonations(strings.TrimSpace(campaignID), donations))
}
