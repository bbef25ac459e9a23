package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/services"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/middleware"
)

// statementHandler ingests and serves bank statements.
type statementHandler struct {
	statementService portssvc.StatementSvcFacade
}

func newStatementHandler(ss portssvc.StatementSvcFacade) *statementHandler {
	return &statementHandler{statementService: ss}
}

// registerStatementRoutes registers statement routes.
func registerStatementRoutes(rg *gin.RouterGroup, statementService portssvc.StatementSvcFacade) {
	h := newStatementHandler(statementService)

	stmts := rg.Group("/bank-statements")
	{
		stmts.POST("", h.importStatement)
		stmts.GET("", h.listStatements)
		stmts.GET("/:statementID", h.getStatement)
		stmts.GET("/:statementID/lines", h.listLines)
		stmts.POST("/:statementID/archive", h.archiveStatement)
	}
}

// importStatement godoc
// @Summary Import a bank statement
// @Description Stores a pre-parsed statement and its lines as IMPORTED, ready for auto-matching
// @Tags bank-statements
// @Accept json
// @Produce json
// @Param statement body dto.ImportStatementRequest true "Statement details"
// @Success 201 {object} dto.Response{data=dto.StatementResponse}
// @Failure 400 {object} dto.Response "Zero-amount line or inverted period"
// @Failure 422 {object} dto.Response "Reconciliation disabled"
// @Router /bank-statements [post]
func (h *statementHandler) importStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	var req dto.ImportStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ImportStatement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	stmt, err := h.statementService.Import(c.Request.Context(), institutionID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to import bank statement")
		return
	}

	logger.Info("Bank statement imported",
		slog.String("statement_id", stmt.StatementID),
		slog.Int("lines", stmt.LineCount))
	c.JSON(http.StatusCreated, dto.OK("Bank statement imported", dto.ToStatementResponse(stmt)))
}

// getStatement godoc
// @Summary Get a bank statement
// @Tags bank-statements
// @Produce json
// @Param statementID path string true "Statement ID"
// @Success 200 {object} dto.Response{data=dto.StatementResponse}
// @Failure 404 {object} dto.Response
// @Router /bank-statements/{statementID} [get]
func (h *statementHandler) getStatement(c *gin.Context) {
	institutionID, _, ok := tenantAndUser(c, false)
	if !ok {
		return
	}

	stmt, err := h.statementService.GetStatement(c.Request.Context(), institutionID, c.Param("statementID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve bank statement")
		return
	}
	c.JSON(http.StatusOK, dto.OK("Bank statement retrieved", dto.ToStatementResponse(stmt)))
}

// listStatements godoc
// @Summary List bank statements
// @Tags bank-statements
// @Produce json
// @Param bankAccountID query string false "Bank account filter"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.Response{data=dto.PagedList}
// @Router /bank-statements [get]
func (h *statementHandler) listStatements(c *gin.Context) {
	institutionID, _, ok := tenantAndUser(c, false)
	if !ok {
		return
	}

	p := pageFromQuery(c)
	stmts, total, err := h.statementService.ListStatements(c.Request.Context(), institutionID, c.Query("bankAccountID"), p.Limit(), p.Offset())
	if err != nil {
		respondError(c, err, "Failed to list bank statements")
		return
	}
	c.JSON(http.StatusOK, dto.OK("Bank statements listed", pagedData(p, total, dto.ToListStatementResponse(stmts))))
}

// listLines godoc
// @Summary List statement lines
// @Tags bank-statements
// @Produce json
// @Param statementID path string true "Statement ID"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.Response{data=dto.PagedList}
// @Failure 404 {object} dto.Response
// @Router /bank-statements/{statementID}/lines [get]
func (h *statementHandler) listLines(c *gin.Context) {
	institutionID, _, ok := tenantAndUser(c, false)
	if !ok {
		return
	}

	p := pageFromQuery(c)
	lines, total, err := h.statementService.ListLines(c.Request.Context(), institutionID, c.Param("statementID"), p.Limit(), p.Offset())
	if err != nil {
		respondError(c, err, "Failed to list statement lines")
		return
	}
	c.JSON(http.StatusOK, dto.OK("Statement lines listed", pagedData(p, total, dto.ToListStatementLineResponse(lines))))
}

// archiveStatement godoc
// @Summary Archive a bank statement
// @Description Archived statements are excluded from auto-matching
// @Tags bank-statements
// @Produce json
// @Param statementID path string true "Statement ID"
// @Success 200 {object} dto.Response{data=dto.StatementResponse}
// @Failure 409 {object} dto.Response "Already archived"
// @Router /bank-statements/{statementID}/archive [post]
func (h *statementHandler) archiveStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	stmt, err := h.statementService.ArchiveStatement(c.Request.Context(), institutionID, c.Param("statementID"), userID)
	if err != nil {
		respondError(c, err, "Failed to archive bank statement")
		return
	}

	logger.Info("Bank statement archived", slog.String("statement_id", stmt.StatementID))
	c.JSON(http.StatusOK, dto.OK("Bank statement archived", dto.ToStatementResponse(stmt)))
}
