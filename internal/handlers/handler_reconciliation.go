package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/services"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/middleware"
)

// reconciliationHandler exposes the matcher and manual confirm/reject.
type reconciliationHandler struct {
	reconService portssvc.ReconciliationSvcFacade
}

func newReconciliationHandler(rs portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{reconService: rs}
}

// registerReconciliationRoutes registers matching routes.
func registerReconciliationRoutes(rg *gin.RouterGroup, reconService portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(reconService)

	stmts := rg.Group("/bank-statements/:statementID")
	{
		stmts.POST("/auto-match", h.autoMatch)
		stmts.GET("/matches", h.listMatchesByStatement)
	}

	rg.GET("/statement-lines/:lineID/matches", h.listMatchesByLine)

	matches := rg.Group("/matches")
	{
		matches.POST("/:matchID/confirm", h.confirmMatch)
		matches.POST("/:matchID/reject", h.rejectMatch)
	}
}

// rejectMatchBody carries the reviewer's reason.
type rejectMatchBody struct {
	Reason string `json:"reason" binding:"required"`
}

// autoMatch godoc
// @Summary Run the matcher over a statement
// @Description Proposes matches for every unmatched line, auto-confirming unambiguous candidates at or above the confidence threshold
// @Tags reconciliation
// @Produce json
// @Param statementID path string true "Statement ID"
// @Success 200 {object} dto.Response{data=dto.AutoMatchResult}
// @Failure 409 {object} dto.Response "Statement archived"
// @Failure 422 {object} dto.Response "Reconciliation disabled"
// @Router /bank-statements/{statementID}/auto-match [post]
func (h *reconciliationHandler) autoMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	result, err := h.reconService.AutoMatch(c.Request.Context(), institutionID, c.Param("statementID"), userID)
	if err != nil {
		respondError(c, err, "Failed to auto-match statement")
		return
	}

	logger.Info("Auto-match run finished",
		slog.String("statement_id", result.StatementID),
		slog.Int("suggested", result.Suggested),
		slog.Int("auto_confirmed", result.AutoConfirmed))
	c.JSON(http.StatusOK, dto.OK("Auto-match completed", result))
}

// listMatchesByStatement godoc
// @Summary List matches for a statement
// @Tags reconciliation
// @Produce json
// @Param statementID path string true "Statement ID"
// @Success 200 {object} dto.Response{data=[]dto.MatchResponse}
// @Router /bank-statements/{statementID}/matches [get]
func (h *reconciliationHandler) listMatchesByStatement(c *gin.Context) {
	institutionID, _, ok := tenantAndUser(c, false)
	if !ok {
		return
	}

	matches, err := h.reconService.ListMatchesByStatement(c.Request.Context(), institutionID, c.Param("statementID"))
	if err != nil {
		respondError(c, err, "Failed to list matches")
		return
	}
	c.JSON(http.StatusOK, dto.OK("Matches listed", dto.ToListMatchResponse(matches)))
}

// listMatchesByLine godoc
// @Summary List matches for a statement line
// @Tags reconciliation
// @Produce json
// @Param lineID path string true "Statement line ID"
// @Success 200 {object} dto.Response{data=[]dto.MatchResponse}
// @Router /statement-lines/{lineID}/matches [get]
func (h *reconciliationHandler) listMatchesByLine(c *gin.Context) {
	institutionID, _, ok := tenantAndUser(c, false)
	if !ok {
		return
	}

	matches, err := h.reconService.ListMatchesByLine(c.Request.Context(), institutionID, c.Param("lineID"))
	if err != nil {
		respondError(c, err, "Failed to list matches for line")
		return
	}
	c.JSON(http.StatusOK, dto.OK("Matches listed", dto.ToListMatchResponse(matches)))
}

// confirmMatch godoc
// @Summary Confirm a suggested match
// @Tags reconciliation
// @Produce json
// @Param matchID path string true "Match ID"
// @Success 200 {object} dto.Response{data=dto.MatchResponse}
// @Failure 409 {object} dto.Response "Match not in SUGGESTED"
// @Router /matches/{matchID}/confirm [post]
func (h *reconciliationHandler) confirmMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	match, err := h.reconService.Confirm(c.Request.Context(), institutionID, c.Param("matchID"), userID)
	if err != nil {
		respondError(c, err, "Failed to confirm match")
		return
	}

	logger.Info("Reconciliation match confirmed", slog.String("match_id", match.MatchID))
	c.JSON(http.StatusOK, dto.OK("Match confirmed", dto.ToMatchResponse(match)))
}

// rejectMatch godoc
// @Summary Reject a suggested match
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param matchID path string true "Match ID"
// @Param rejection body rejectMatchBody true "Rejection reason"
// @Success 200 {object} dto.Response{data=dto.MatchResponse}
// @Failure 409 {object} dto.Response "Match not in SUGGESTED"
// @Router /matches/{matchID}/reject [post]
func (h *reconciliationHandler) rejectMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	var body rejectMatchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		logger.Warn("Failed to bind JSON for RejectMatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	match, err := h.reconService.Reject(c.Request.Context(), institutionID, c.Param("matchID"), body.Reason, userID)
	if err != nil {
		respondError(c, err, "Failed to reject match")
		return
	}

	logger.Info("Reconciliation match rejected", slog.String("match_id", match.MatchID))
	c.JSON(http.StatusOK, dto.OK("Match rejected", dto.ToMatchResponse(match)))
}
