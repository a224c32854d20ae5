package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/resource_bank/internal/dto"
	"github.com/SscSPs/resource_bank/internal/middleware"
	"github.com/gin-gonic/gin"
)

func registerInstrumentAdminRoutes(rg *gin.RouterGroup, h *adminHandler) {
	deposits := rg.Group("/deposits")
	{
		deposits.POST("", h.createDeposit)
		deposits.POST("/process-matured", h.processMaturedDeposits)
		deposits.GET("/:id", h.getDeposit)
		deposits.POST("/:id/early-close", h.earlyCloseDeposit)
	}

	credits := rg.Group("/credits")
	{
		credits.POST("", h.createCredit)
		credits.POST("/process-overdue", h.processOverdueCredits)
		credits.GET("/:id", h.getCredit)
		credits.POST("/:id/early-repay", h.earlyRepayCredit)
	}
}

// createDeposit godoc
// @Summary Open a deposit
// @Description Moves the amount from the client to the treasury; interest is fixed at creation
// @Tags admin
// @Accept json
// @Produce json
// @Param deposit body dto.CreateInstrumentRequest true "Deposit terms"
// @Success 201 {object} domain.Deposit
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Client cannot fund the deposit"
// @Security BearerAuth
// @Router /admin/deposits [post]
func (h *adminHandler) createDeposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInstrumentRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	deposit, err := h.instrument.CreateDeposit(c.Request.Context(), req.ClientName, req.Amount, req.Days, req.InterestRate)
	if err != nil {
		respondError(c, logger, err, "Failed to create deposit")
		return
	}
	logger.Info("Deposit created", slog.String("deposit_id", deposit.DepositID), slog.String("client", deposit.ClientName))
	c.JSON(http.StatusCreated, deposit)
}

// processMaturedDeposits godoc
// @Summary Pay out matured deposits
// @Description Pays every active deposit whose payout time has passed. Failures are listed in the report.
// @Tags admin
// @Produce json
// @Success 200 {object} domain.DepositRunReport
// @Security BearerAuth
// @Router /admin/deposits/process-matured [post]
func (h *adminHandler) processMaturedDeposits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.instrument.ProcessMaturedDeposits(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to process matured deposits")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getDeposit godoc
// @Summary Get a deposit
// @Tags admin
// @Produce json
// @Param id path string true "Deposit ID"
// @Success 200 {object} domain.Deposit
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/deposits/{id} [get]
func (h *adminHandler) getDeposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	deposit, err := h.instrument.GetDeposit(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve deposit")
		return
	}
	c.JSON(http.StatusOK, deposit)
}

// earlyCloseDeposit godoc
// @Summary Close a deposit early
// @Description Pays principal plus interest prorated by elapsed time
// @Tags admin
// @Produce json
// @Param id path string true "Deposit ID"
// @Success 200 {object} domain.Deposit
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Deposit is not active or treasury cannot pay"
// @Security BearerAuth
// @Router /admin/deposits/{id}/early-close [post]
func (h *adminHandler) earlyCloseDeposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	deposit, err := h.instrument.EarlyCloseDeposit(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to close deposit")
		return
	}
	c.JSON(http.StatusOK, deposit)
}

// createCredit godoc
// @Summary Issue a credit
// @Description Moves the amount from the treasury to the client; interest owed is fixed at creation
// @Tags admin
// @Accept json
// @Produce json
// @Param credit body dto.CreateInstrumentRequest true "Credit terms"
// @Success 201 {object} domain.Credit
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Treasury cannot fund the credit"
// @Security BearerAuth
// @Router /admin/credits [post]
func (h *adminHandler) createCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInstrumentRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	credit, err := h.instrument.CreateCredit(c.Request.Context(), req.ClientName, req.Amount, req.Days, req.InterestRate)
	if err != nil {
		respondError(c, logger, err, "Failed to create credit")
		return
	}
	logger.Info("Credit issued", slog.String("credit_id", credit.CreditID), slog.String("client", credit.ClientName))
	c.JSON(http.StatusCreated, credit)
}

// processOverdueCredits godoc
// @Summary Expire overdue credits
// @Description Marks every active credit past its due time as expired; nothing is collected
// @Tags admin
// @Produce json
// @Success 200 {object} domain.CreditRunReport
// @Security BearerAuth
// @Router /admin/credits/process-overdue [post]
func (h *adminHandler) processOverdueCredits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.instrument.ProcessOverdueCredits(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to process overdue credits")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getCredit godoc
// @Summary Get a credit
// @Tags admin
// @Produce json
// @Param id path string true "Credit ID"
// @Success 200 {object} domain.Credit
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/credits/{id} [get]
func (h *adminHandler) getCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	credit, err := h.instrument.GetCredit(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve credit")
		return
	}
	c.JSON(http.StatusOK, credit)
}

// earlyRepayCredit godoc
// @Summary Repay a credit early
// @Description Collects principal plus interest prorated by elapsed time
// @Tags admin
// @Produce json
// @Param id path string true "Credit ID"
// @Success 200 {object} domain.Credit
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Credit is not active or client cannot pay"
// @Security BearerAuth
// @Router /admin/credits/{id}/early-repay [post]
func (h *adminHandler) earlyRepayCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	credit, err := h.instrument.EarlyRepayCredit(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to repay credit")
		return
	}
	c.JSON(http.StatusOK, credit)
}
