package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/services"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/middleware"
)

// configHandler exposes the institution's treasury configuration.
type configHandler struct {
	configService portssvc.ConfigSvcFacade
}

func newConfigHandler(cs portssvc.ConfigSvcFacade) *configHandler {
	return &configHandler{configService: cs}
}

// registerConfigRoutes registers the configuration routes.
func registerConfigRoutes(rg *gin.RouterGroup, configService portssvc.ConfigSvcFacade) {
	h := newConfigHandler(configService)

	cfg := rg.Group("/config")
	{
		cfg.GET("", h.getConfig)
		cfg.PUT("", h.updateConfig)
	}
}

// getConfig godoc
// @Summary Get the treasury configuration
// @Description Returns the institution's active configuration, creating the defaults on first access
// @Tags configuration
// @Produce json
// @Success 200 {object} dto.Response{data=dto.ConfigResponse}
// @Failure 500 {object} dto.Response
// @Router /config [get]
func (h *configHandler) getConfig(c *gin.Context) {
	institutionID, _, ok := tenantAndUser(c, false)
	if !ok {
		return
	}

	cfg, err := h.configService.GetOrCreate(c.Request.Context(), institutionID)
	if err != nil {
		respondError(c, err, "Failed to load treasury configuration")
		return
	}
	c.JSON(http.StatusOK, dto.OK("Configuration retrieved", dto.ToConfigResponse(cfg)))
}

// updateConfig godoc
// @Summary Update the treasury configuration
// @Description Applies a partial update; omitted fields keep their current value
// @Tags configuration
// @Accept json
// @Produce json
// @Param config body dto.UpdateConfigRequest true "Fields to change"
// @Success 200 {object} dto.Response{data=dto.ConfigResponse}
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Router /config [put]
func (h *configHandler) updateConfig(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	var req dto.UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateConfig", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	cfg, err := h.configService.Update(c.Request.Context(), institutionID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to update treasury configuration")
		return
	}

	logger.Info("Treasury configuration updated", slog.String("config_id", cfg.ConfigID))
	c.JSON(http.StatusOK, dto.OK("Configuration updated", dto.ToConfigResponse(cfg)))
}
