package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	portsrepo "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/repositories"
	portssvc "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/services"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/middleware"
)

// paymentHandler drives payment batches and lines through their lifecycle.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: ps}
}

// registerPaymentRoutes registers batch and line routes.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	batches := rg.Group("/batches")
	{
		batches.POST("", h.createBatch)
		batches.GET("", h.listBatches)
		batches.GET("/:batchID", h.getBatch)
		batches.POST("/:batchID/lines", h.addLine)
		batches.POST("/:batchID/submit-approval", h.submitForApproval)
		batches.POST("/:batchID/approve", h.approveBatch)
		batches.POST("/:batchID/cancel", h.cancelBatch)
		batches.POST("/:batchID/execute", h.executeBatch)
	}

	lines := rg.Group("/lines")
	{
		lines.POST("/:lineID/approve", h.approveLine)
		lines.POST("/:lineID/cancel", h.cancelLine)
		lines.POST("/:lineID/mark-paid", h.markLinePaid)
		lines.POST("/:lineID/fail", h.markLineFailed)
	}
}

// createBatch godoc
// @Summary Create a payment batch
// @Description Creates a DRAFT batch with its initial lines; the total is always the sum of non-cancelled lines
// @Tags payment-batches
// @Accept json
// @Produce json
// @Param batch body dto.CreateBatchRequest true "Batch details"
// @Success 201 {object} dto.Response{data=dto.BatchResponse}
// @Failure 400 {object} dto.Response "Missing beneficiary details"
// @Failure 422 {object} dto.Response "Payment method disabled"
// @Router /batches [post]
func (h *paymentHandler) createBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	var req dto.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	batch, err := h.paymentService.CreateBatch(c.Request.Context(), institutionID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to create payment batch")
		return
	}

	logger.Info("Payment batch created",
		slog.String("batch_id", batch.BatchID),
		slog.String("reference", batch.ReferenceNumber))
	c.JSON(http.StatusCreated, dto.OK("Payment batch created", dto.ToBatchResponse(batch, nil)))
}

// getBatch godoc
// @Summary Get a payment batch with its lines
// @Tags payment-batches
// @Produce json
// @Param batchID path string true "Batch ID"
// @Success 200 {object} dto.Response{data=dto.BatchResponse}
// @Failure 404 {object} dto.Response
// @Router /batches/{batchID} [get]
func (h *paymentHandler) getBatch(c *gin.Context) {
	institutionID, _, ok := tenantAndUser(c, false)
	if !ok {
		return
	}

	batch, lines, err := h.paymentService.GetBatch(c.Request.Context(), institutionID, c.Param("batchID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve payment batch")
		return
	}
	c.JSON(http.StatusOK, dto.OK("Payment batch retrieved", dto.ToBatchResponse(batch, lines)))
}

// listBatches godoc
// @Summary List payment batches
// @Tags payment-batches
// @Produce json
// @Param status query string false "Batch status filter"
// @Param sourceID query string false "Source filter"
// @Param branch query string false "Branch filter"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.Response{data=dto.PagedList}
// @Router /batches [get]
func (h *paymentHandler) listBatches(c *gin.Context) {
	institutionID, _, ok := tenantAndUser(c, false)
	if !ok {
		return
	}

	p := pageFromQuery(c)
	filter := portsrepo.ListBatchesFilter{
		SourceID: c.Query("sourceID"),
		Branch:   c.Query("branch"),
		Limit:    p.Limit(),
		Offset:   p.Offset(),
	}
	if v := c.Query("status"); v != "" {
		st := domain.BatchStatus(v)
		filter.Status = &st
	}

	batches, total, err := h.paymentService.ListBatches(c.Request.Context(), institutionID, filter)
	if err != nil {
		respondError(c, err, "Failed to list payment batches")
		return
	}
	c.JSON(http.StatusOK, dto.OK("Payment batches listed", pagedData(p, total, dto.ToListBatchResponse(batches))))
}

// addLine godoc
// @Summary Add a line to a batch
// @Description Appends a line while the batch is still editable; editing an approved batch drops it back to DRAFT when policy allows
// @Tags payment-batches
// @Accept json
// @Produce json
// @Param batchID path string true "Batch ID"
// @Param line body dto.CreateLineRequest true "Line details"
// @Success 201 {object} dto.Response{data=dto.LineResponse}
// @Failure 409 {object} dto.Response "Batch not editable"
// @Router /batches/{batchID}/lines [post]
func (h *paymentHandler) addLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	var req dto.CreateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddLine", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	line, err := h.paymentService.AddLine(c.Request.Context(), institutionID, c.Param("batchID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to add payment line")
		return
	}
	c.JSON(http.StatusCreated, dto.OK("Payment line added", dto.ToLineResponse(line)))
}

// submitForApproval godoc
// @Summary Submit a batch for approval
// @Description Moves the batch to APPROVAL_PENDING, or straight to APPROVED when no approval is required
// @Tags payment-batches
// @Produce json
// @Param batchID path string true "Batch ID"
// @Success 200 {object} dto.Response{data=dto.BatchResponse}
// @Failure 409 {object} dto.Response "Not in DRAFT"
// @Router /batches/{batchID}/submit-approval [post]
func (h *paymentHandler) submitForApproval(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	batch, err := h.paymentService.SubmitForApproval(c.Request.Context(), institutionID, c.Param("batchID"), userID)
	if err != nil {
		respondError(c, err, "Failed to submit payment batch")
		return
	}

	logger.Info("Payment batch submitted",
		slog.String("batch_id", batch.BatchID),
		slog.String("status", string(batch.Status)))
	c.JSON(http.StatusOK, dto.OK("Payment batch submitted", dto.ToBatchResponse(batch, nil)))
}

// approveBatch godoc
// @Summary Approve a pending batch
// @Tags payment-batches
// @Produce json
// @Param batchID path string true "Batch ID"
// @Success 200 {object} dto.Response{data=dto.BatchResponse}
// @Failure 422 {object} dto.Response "Self approval not allowed"
// @Router /batches/{batchID}/approve [post]
func (h *paymentHandler) approveBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	batch, err := h.paymentService.ApproveBatch(c.Request.Context(), institutionID, c.Param("batchID"), userID)
	if err != nil {
		respondError(c, err, "Failed to approve payment batch")
		return
	}

	logger.Info("Payment batch approved", slog.String("batch_id", batch.BatchID))
	c.JSON(http.StatusOK, dto.OK("Payment batch approved", dto.ToBatchResponse(batch, nil)))
}

// cancelBatch godoc
// @Summary Cancel a batch
// @Tags payment-batches
// @Produce json
// @Param batchID path string true "Batch ID"
// @Success 200 {object} dto.Response{data=dto.BatchResponse}
// @Failure 409 {object} dto.Response "Executed batches cannot be cancelled"
// @Router /batches/{batchID}/cancel [post]
func (h *paymentHandler) cancelBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	batch, err := h.paymentService.CancelBatch(c.Request.Context(), institutionID, c.Param("batchID"), userID)
	if err != nil {
		respondError(c, err, "Failed to cancel payment batch")
		return
	}

	logger.Info("Payment batch cancelled", slog.String("batch_id", batch.BatchID))
	c.JSON(http.StatusOK, dto.OK("Payment batch cancelled", dto.ToBatchResponse(batch, nil)))
}

// executeBatch godoc
// @Summary Execute an approved batch
// @Description Debits the funding source and pays out every pending line as one atomic unit
// @Tags payment-batches
// @Accept json
// @Produce json
// @Param batchID path string true "Batch ID"
// @Param execution body dto.ExecuteBatchRequest true "Execution details"
// @Success 200 {object} dto.Response{data=dto.BatchResponse}
// @Failure 400 {object} dto.Response "Proof reference required"
// @Failure 422 {object} dto.Response "Insufficient funds or unapproved lines"
// @Router /batches/{batchID}/execute [post]
func (h *paymentHandler) executeBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	var req dto.ExecuteBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ExecuteBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	batch, err := h.paymentService.ExecuteBatch(c.Request.Context(), institutionID, c.Param("batchID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to execute payment batch")
		return
	}

	logger.Info("Payment batch executed",
		slog.String("batch_id", batch.BatchID),
		slog.String("total", batch.TotalAmount.String()))
	c.JSON(http.StatusOK, dto.OK("Payment batch executed", dto.ToBatchResponse(batch, nil)))
}

// approveLine godoc
// @Summary Approve a payment line
// @Tags payment-lines
// @Produce json
// @Param lineID path string true "Line ID"
// @Success 200 {object} dto.Response{data=dto.LineResponse}
// @Failure 422 {object} dto.Response "Self approval not allowed"
// @Router /lines/{lineID}/approve [post]
func (h *paymentHandler) approveLine(c *gin.Context) {
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	line, err := h.paymentService.ApproveLine(c.Request.Context(), institutionID, c.Param("lineID"), userID)
	if err != nil {
		respondError(c, err, "Failed to approve payment line")
		return
	}
	c.JSON(http.StatusOK, dto.OK("Payment line approved", dto.ToLineResponse(line)))
}

// cancelLine godoc
// @Summary Cancel a pending payment line
// @Tags payment-lines
// @Produce json
// @Param lineID path string true "Line ID"
// @Success 200 {object} dto.Response{data=dto.LineResponse}
// @Failure 409 {object} dto.Response "Line is not cancellable"
// @Router /lines/{lineID}/cancel [post]
func (h *paymentHandler) cancelLine(c *gin.Context) {
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	line, err := h.paymentService.CancelLine(c.Request.Context(), institutionID, c.Param("lineID"), userID)
	if err != nil {
		respondError(c, err, "Failed to cancel payment line")
		return
	}
	c.JSON(http.StatusOK, dto.OK("Payment line cancelled", dto.ToLineResponse(line)))
}

// markLinePaid godoc
// @Summary Mark a line paid outside batch execution
// @Tags payment-lines
// @Accept json
// @Produce json
// @Param lineID path string true "Line ID"
// @Param payment body dto.MarkLinePaidRequest true "Settlement details"
// @Success 200 {object} dto.Response{data=dto.LineResponse}
// @Failure 409 {object} dto.Response "Line or batch not in a payable state"
// @Router /lines/{lineID}/mark-paid [post]
func (h *paymentHandler) markLinePaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	var req dto.MarkLinePaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for MarkLinePaid", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	line, err := h.paymentService.MarkLinePaid(c.Request.Context(), institutionID, c.Param("lineID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to mark payment line paid")
		return
	}
	c.JSON(http.StatusOK, dto.OK("Payment line marked paid", dto.ToLineResponse(line)))
}

// markLineFailed godoc
// @Summary Mark a line failed
// @Description A previously paid line gets its debit reversed by a counter-entry
// @Tags payment-lines
// @Accept json
// @Produce json
// @Param lineID path string true "Line ID"
// @Param failure body dto.MarkLineFailedRequest true "Failure reason"
// @Success 200 {object} dto.Response{data=dto.LineResponse}
// @Failure 409 {object} dto.Response "Line not in a failable state"
// @Router /lines/{lineID}/fail [post]
func (h *paymentHandler) markLineFailed(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	var req dto.MarkLineFailedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for MarkLineFailed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	line, err := h.paymentService.MarkLineFailed(c.Request.Context(), institutionID, c.Param("lineID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to mark payment line failed")
		return
	}
	c.JSON(http.StatusOK, dto.OK("Payment line marked failed", dto.ToLineResponse(line)))
}
