package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"marketly-backend/models"
	"marketly-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GenerationDefaults fills platform and tone when a request omits them
type GenerationDefaults struct {
	Platform string
	Tone     string
}

// CampaignHandler handles content generation and the campaign endpoints
type CampaignHandler struct {
	campaigns *service.CampaignService
	defaults  GenerationDefaults
	logger    *slog.Logger
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaigns *service.CampaignService, defaults GenerationDefaults, logger *slog.Logger) *CampaignHandler {
	return &CampaignHandler{
		campaigns: campaigns,
		defaults:  defaults,
		logger:    logger,
	}
}

// GenerateRequest represents the request body for content generation
type GenerateRequest struct {
	ProductName    string `json:"productName"`
	Description    string `json:"description"`
	Platform       string `json:"platform"`
	Tone           string `json:"tone"`
	TargetAudience string `json:"targetAudience"`
	Keywords       string `json:"keywords"`
}

// GenerateResponse is returned by POST /generate
type GenerateResponse struct {
	Result     string     `json:"result"`
	Saved      bool       `json:"saved"`
	CampaignID *uuid.UUID `json:"campaign_id,omitempty"`
}

// Generate handles POST /generate
func (h *CampaignHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, "Request body must be a JSON object")
		return
	}

	params := models.CampaignParams{
		ProductName:    req.ProductName,
		Description:    req.Description,
		TargetAudience: req.TargetAudience,
		Keywords:       req.Keywords,
		Platform:       req.Platform,
		Tone:           req.Tone,
	}
	if params.Platform == "" {
		params.Platform = h.defaults.Platform
	}
	if params.Tone == "" {
		params.Tone = h.defaults.Tone
	}

	serviceReq := service.GenerateCampaignRequest{Params: params}
	if userID, ok := UserIDFromContext(c); ok {
		serviceReq.OwnerID = &userID
	}

	result, err := h.campaigns.GenerateCampaign(c.Request.Context(), serviceReq)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	resp := GenerateResponse{Result: result.Content, Saved: result.Saved}
	if result.Campaign != nil {
		resp.CampaignID = &result.Campaign.ID
	}
	respondOK(c, http.StatusOK, resp)
}

// List handles GET /campaigns
func (h *CampaignHandler) List(c *gin.Context) {
	userID, ok := UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, CodeUnauthorized, "Missing or invalid token")
		return
	}

	campaigns, err := h.campaigns.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	respondOK(c, http.StatusOK, campaigns)
}

// Delete handles DELETE /campaigns/:id
func (h *CampaignHandler) Delete(c *gin.Context) {
	userID, ok := UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, CodeUnauthorized, "Missing or invalid token")
		return
	}

	// an id that cannot exist is reported like any other unknown campaign
	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondServiceError(c, h.logger, service.ErrCampaignNotFound)
		return
	}

	if err := h.campaigns.DeleteByOwnerAndID(c.Request.Context(), userID, campaignID); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"id": campaignID})
}

// Download handles GET /campaigns/:id/download
func (h *CampaignHandler) Download(c *gin.Context) {
	userID, ok := UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, CodeUnauthorized, "Missing or invalid token")
		return
	}

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondServiceError(c, h.logger, service.ErrCampaignNotFound)
		return
	}

	download, err := h.campaigns.Download(c.Request.Context(), userID, campaignID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	defer download.Body.Close()

	c.DataFromReader(http.StatusOK, -1, "text/plain; charset=utf-8", download.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=\"%s\"", download.Filename),
	})
}
