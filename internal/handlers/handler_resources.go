package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/resource_bank/internal/core/ports/services"
	"github.com/SscSPs/resource_bank/internal/dto"
	"github.com/SscSPs/resource_bank/internal/middleware"
	"github.com/gin-gonic/gin"
)

// resourceHandler serves public prices, quotes and price history.
type resourceHandler struct {
	marketService  portssvc.MarketReaderSvc
	historyService portssvc.PriceHistorySvc
}

func newResourceHandler(ms portssvc.MarketReaderSvc, hs portssvc.PriceHistorySvc) *resourceHandler {
	return &resourceHandler{marketService: ms, historyService: hs}
}

// registerResourceRoutes registers the public resource routes.
func registerResourceRoutes(rg *gin.RouterGroup, ms portssvc.MarketReaderSvc, hs portssvc.PriceHistorySvc) {
	h := newResourceHandler(ms, hs)

	resources := rg.Group("/resources")
	{
		resources.GET("/prices", h.listPrices)
		resources.GET("/:name/history", h.getHistory)
		resources.POST("/quotes/deposit", h.quoteDeposit)
		resources.POST("/quotes/deposit-units", h.quoteDepositUnits)
		resources.POST("/quotes/withdraw", h.quoteWithdraw)
		resources.POST("/quotes/withdraw-units", h.quoteWithdrawUnits)
	}
}

// listPrices godoc
// @Summary List resource prices
// @Description Returns the current unit price and treasury float of every resource
// @Tags resources
// @Produce json
// @Success 200 {array} domain.ResourcePrice
// @Failure 500 {object} ErrorResponse
// @Router /resources/prices [get]
func (h *resourceHandler) listPrices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	prices, err := h.marketService.ListPrices(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list prices")
		return
	}
	c.JSON(http.StatusOK, prices)
}

// getHistory godoc
// @Summary Get price history
// @Description Returns the latest recorded prices of a resource, most recent first
// @Tags resources
// @Produce json
// @Param name path string true "Resource name"
// @Param limit query int false "Number of points (1-100, default 20)"
// @Param before query string false "nextToken of the previous page"
// @Success 200 {object} dto.PriceHistoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /resources/{name}/history [get]
func (h *resourceHandler) getHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	name := c.Param("name")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			logger.Warn("Invalid history limit", slog.String("limit", raw))
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = parsed
	}

	points, next, err := h.historyService.QueryPage(c.Request.Context(), name, c.Query("before"), limit)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve price history")
		return
	}
	c.JSON(http.StatusOK, dto.ToPriceHistoryResponse(name, points, next))
}

// quoteDeposit godoc
// @Summary Quote a resource deposit
// @Description Prices depositing units of a resource into the treasury, commission included
// @Tags resources
// @Accept json
// @Produce json
// @Param quote body dto.QuoteUnitsRequest true "Resource and units"
// @Success 200 {object} domain.Quote
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /resources/quotes/deposit [post]
func (h *resourceHandler) quoteDeposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.QuoteUnitsRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	quote, err := h.marketService.QuoteDeposit(c.Request.Context(), req.Resource, req.Units)
	if err != nil {
		respondError(c, logger, err, "Failed to quote deposit")
		return
	}
	c.JSON(http.StatusOK, quote)
}

// quoteWithdraw godoc
// @Summary Quote a resource withdrawal
// @Description Prices withdrawing units of a resource; each unit is priced against the float it leaves behind
// @Tags resources
// @Accept json
// @Produce json
// @Param quote body dto.QuoteUnitsRequest true "Resource and units"
// @Success 200 {object} domain.Quote
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Not enough units in the float"
// @Router /resources/quotes/withdraw [post]
func (h *resourceHandler) quoteWithdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.QuoteUnitsRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	quote, err := h.marketService.QuoteWithdraw(c.Request.Context(), req.Resource, req.Units)
	if err != nil {
		respondError(c, logger, err, "Failed to quote withdrawal")
		return
	}
	c.JSON(http.StatusOK, quote)
}

// quoteDepositUnits godoc
// @Summary Units needed to earn a target
// @Description Finds the fewest units whose deposit earns at least the target amount
// @Tags resources
// @Accept json
// @Produce json
// @Param quote body dto.QuoteTargetRequest true "Resource and target"
// @Success 200 {object} domain.Quote
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /resources/quotes/deposit-units [post]
func (h *resourceHandler) quoteDepositUnits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.QuoteTargetRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	quote, err := h.marketService.QuoteDepositUnits(c.Request.Context(), req.Resource, req.Target)
	if err != nil {
		respondError(c, logger, err, "Failed to quote deposit units")
		return
	}
	if quote.CapacityExceeded {
		logger.Warn("Deposit units quote hit the iteration cap", slog.String("resource", req.Resource))
	}
	c.JSON(http.StatusOK, quote)
}

// quoteWithdrawUnits godoc
// @Summary Units affordable with a budget
// @Description Finds the most units whose withdrawal costs at most the budget
// @Tags resources
// @Accept json
// @Produce json
// @Param quote body dto.QuoteBudgetRequest true "Resource and budget"
// @Success 200 {object} domain.Quote
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /resources/quotes/withdraw-units [post]
func (h *resourceHandler) quoteWithdrawUnits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.QuoteBudgetRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	quote, err := h.marketService.QuoteWithdrawUnits(c.Request.Context(), req.Resource, req.Budget)
	if err != nil {
		respondError(c, logger, err, "Failed to quote withdraw units")
		return
	}
	c.JSON(http.StatusOK, quote)
}
