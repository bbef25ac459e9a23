package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/services"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/middleware"
)

// sessionHandler drives the cash desk open/close session protocol.
type sessionHandler struct {
	sessionService portssvc.SessionSvcFacade
}

func newSessionHandler(ss portssvc.SessionSvcFacade) *sessionHandler {
	return &sessionHandler{sessionService: ss}
}

// registerSessionRoutes registers session routes under /cash-desks.
func registerSessionRoutes(rg *gin.RouterGroup, sessionService portssvc.SessionSvcFacade) {
	h := newSessionHandler(sessionService)

	desks := rg.Group("/cash-desks/:sourceID/sessions")
	{
		desks.POST("/open", h.openSession)
		desks.POST("/close", h.closeSession)
		desks.GET("/open", h.getOpenSession)
		desks.GET("", h.listSessions)
	}
}

// openSession godoc
// @Summary Open a counting session on a cash desk
// @Tags sessions
// @Accept json
// @Produce json
// @Param sourceID path string true "Cash desk ID"
// @Param session body dto.OpenSessionRequest true "Opening count"
// @Success 201 {object} dto.Response{data=dto.SessionResponse}
// @Failure 409 {object} dto.Response "A session is already open"
// @Router /cash-desks/{sourceID}/sessions/open [post]
func (h *sessionHandler) openSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	var req dto.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for OpenSession", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	session, err := h.sessionService.OpenSession(c.Request.Context(), institutionID, c.Param("sourceID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to open session")
		return
	}

	logger.Info("Cash desk session opened", slog.String("session_id", session.SessionID))
	c.JSON(http.StatusCreated, dto.OK("Session opened", dto.ToSessionResponse(session)))
}

// closeSession godoc
// @Summary Close the desk's open session
// @Description Computes the discrepancy between the counted and expected amount; a discrepancy outside tolerance may lock the desk
// @Tags sessions
// @Accept json
// @Produce json
// @Param sourceID path string true "Cash desk ID"
// @Param session body dto.CloseSessionRequest true "Closing count"
// @Success 200 {object} dto.Response{data=dto.SessionResponse}
// @Failure 400 {object} dto.Response "Discrepancy note required"
// @Failure 422 {object} dto.Response "No open session"
// @Router /cash-desks/{sourceID}/sessions/close [post]
func (h *sessionHandler) closeSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	var req dto.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CloseSession", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	session, err := h.sessionService.CloseSession(c.Request.Context(), institutionID, c.Param("sourceID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to close session")
		return
	}

	logger.Info("Cash desk session closed", slog.String("session_id", session.SessionID))
	c.JSON(http.StatusOK, dto.OK("Session closed", dto.ToSessionResponse(session)))
}

// getOpenSession godoc
// @Summary Get the desk's open session
// @Tags sessions
// @Produce json
// @Param sourceID path string true "Cash desk ID"
// @Success 200 {object} dto.Response{data=dto.SessionResponse}
// @Failure 404 {object} dto.Response
// @Router /cash-desks/{sourceID}/sessions/open [get]
func (h *sessionHandler) getOpenSession(c *gin.Context) {
	institutionID, _, ok := tenantAndUser(c, false)
	if !ok {
		return
	}

	session, err := h.sessionService.GetOpenSession(c.Request.Context(), institutionID, c.Param("sourceID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve open session")
		return
	}
	c.JSON(http.StatusOK, dto.OK("Open session retrieved", dto.ToSessionResponse(session)))
}

// listSessions godoc
// @Summary List the desk's sessions
// @Tags sessions
// @Produce json
// @Param sourceID path string true "Cash desk ID"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.Response{data=dto.PagedList}
// @Router /cash-desks/{sourceID}/sessions [get]
func (h *sessionHandler) listSessions(c *gin.Context) {
	institutionID, _, ok := tenantAndUser(c, false)
	if !ok {
		return
	}

	p := pageFromQuery(c)
	sessions, total, err := h.sessionService.ListSessions(c.Request.Context(), institutionID, c.Param("sourceID"), p.Limit(), p.Offset())
	if err != nil {
		respondError(c, err, "Failed to list sessions")
		return
	}
	c.JSON(http.StatusOK, dto.OK("Sessions listed", pagedData(p, total, dto.ToListSessionResponse(sessions))))
}
