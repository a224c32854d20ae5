package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/resource_bank/internal/core/ports/services"
	"github.com/SscSPs/resource_bank/internal/dto"
	"github.com/SscSPs/resource_bank/internal/middleware"
	"github.com/gin-gonic/gin"
)

// adminHandler serves the JWT-protected administration routes.
type adminHandler struct {
	market     portssvc.MarketSvcFacade
	clients    portssvc.ClientSvcFacade
	instrument portssvc.InstrumentSvcFacade
	history    portssvc.PriceHistorySvc
}

// registerAdminRoutes registers the admin routes on a group already guarded by AuthMiddleware.
func registerAdminRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := &adminHandler{
		market:     services.Market,
		clients:    services.Client,
		instrument: services.Instrument,
		history:    services.History,
	}

	settlements := rg.Group("/settlements")
	{
		settlements.POST("/deposit", h.depositResource)
		settlements.POST("/withdraw", h.withdrawResource)
	}

	resources := rg.Group("/resources")
	{
		resources.POST("", h.addResource)
		resources.DELETE("/:name", h.deleteResource)
		resources.PUT("/:name/float", h.setFloat)
	}

	rates := rg.Group("/rates")
	{
		rates.GET("", h.listRates)
		rates.PUT("/:name", h.updateRate)
	}

	clients := rg.Group("/clients")
	{
		clients.POST("", h.addClient)
		clients.DELETE("/:name", h.deleteClient)
		clients.PUT("/:name/balance", h.setClientBalance)
	}

	treasury := rg.Group("/treasury")
	{
		treasury.GET("", h.getTreasury)
		treasury.PUT("", h.setTreasuryBalance)
	}

	registerInstrumentAdminRoutes(rg, h)

	rg.DELETE("/history", h.clearHistory)
}

// depositResource godoc
// @Summary Settle a resource deposit
// @Description Moves units from a client into the treasury float and credits the client
// @Tags admin
// @Accept json
// @Produce json
// @Param settlement body dto.SettlementRequest true "Settlement"
// @Success 200 {object} dto.SettlementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Treasury cannot pay"
// @Security BearerAuth
// @Router /admin/settlements/deposit [post]
func (h *adminHandler) depositResource(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SettlementRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	settlement, err := h.market.DepositResource(c.Request.Context(), req.ClientName, req.Resource, req.Units)
	if err != nil {
		respondError(c, logger, err, "Failed to settle deposit")
		return
	}
	admin, _ := middleware.GetAdminFromContext(c)
	logger.Info("Resource deposit settled", slog.String("client", req.ClientName), slog.String("resource", req.Resource),
		slog.Int64("units", req.Units), slog.String("amount", settlement.Amount.String()))
	c.JSON(http.StatusOK, dto.ToSettlementResponse(settlement, admin))
}

// withdrawResource godoc
// @Summary Settle a resource withdrawal
// @Description Moves units from the treasury float to a client and debits the client
// @Tags admin
// @Accept json
// @Produce json
// @Param settlement body dto.SettlementRequest true "Settlement"
// @Success 200 {object} dto.SettlementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Not enough float or client balance"
// @Security BearerAuth
// @Router /admin/settlements/withdraw [post]
func (h *adminHandler) withdrawResource(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SettlementRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	settlement, err := h.market.WithdrawResource(c.Request.Context(), req.ClientName, req.Resource, req.Units)
	if err != nil {
		respondError(c, logger, err, "Failed to settle withdrawal")
		return
	}
	admin, _ := middleware.GetAdminFromContext(c)
	logger.Info("Resource withdrawal settled", slog.String("client", req.ClientName), slog.String("resource", req.Resource),
		slog.Int64("units", req.Units), slog.String("amount", settlement.Amount.String()))
	c.JSON(http.StatusOK, dto.ToSettlementResponse(settlement, admin))
}

// addResource godoc
// @Summary Add a resource
// @Tags admin
// @Accept json
// @Produce json
// @Param resource body dto.AddResourceRequest true "Resource"
// @Success 201 {object} domain.Resource
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Resource already exists"
// @Security BearerAuth
// @Router /admin/resources [post]
func (h *adminHandler) addResource(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddResourceRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	resource, err := h.market.AddResource(c.Request.Context(), req.Name, *req.Float, req.BaseRate)
	if err != nil {
		respondError(c, logger, err, "Failed to add resource")
		return
	}
	c.JSON(http.StatusCreated, resource)
}

// deleteResource godoc
// @Summary Delete a resource
// @Tags admin
// @Param name path string true "Resource name"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/resources/{name} [delete]
func (h *adminHandler) deleteResource(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.market.DeleteResource(c.Request.Context(), c.Param("name")); err != nil {
		respondError(c, logger, err, "Failed to delete resource")
		return
	}
	c.Status(http.StatusNoContent)
}

// setFloat godoc
// @Summary Override a resource float
// @Tags admin
// @Accept json
// @Produce json
// @Param name path string true "Resource name"
// @Param float body dto.SetFloatRequest true "New float"
// @Success 200 {object} domain.Resource
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/resources/{name}/float [put]
func (h *adminHandler) setFloat(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetFloatRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	resource, err := h.market.SetResourceFloat(c.Request.Context(), c.Param("name"), *req.Float)
	if err != nil {
		respondError(c, logger, err, "Failed to set resource float")
		return
	}
	c.JSON(http.StatusOK, resource)
}

// listRates godoc
// @Summary List base rates
// @Tags admin
// @Produce json
// @Success 200 {array} domain.RateEntry
// @Security BearerAuth
// @Router /admin/rates [get]
func (h *adminHandler) listRates(c *gin.Context) {
	c.JSON(http.StatusOK, h.market.ListRates(c.Request.Context()))
}

// updateRate godoc
// @Summary Update a base rate
// @Tags admin
// @Accept json
// @Produce json
// @Param name path string true "Resource name"
// @Param rate body dto.UpdateRateRequest true "New rate"
// @Success 200 {object} domain.RateEntry
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/rates/{name} [put]
func (h *adminHandler) updateRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateRateRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	entry, err := h.market.UpdateRate(c.Request.Context(), c.Param("name"), req.Rate)
	if err != nil {
		respondError(c, logger, err, "Failed to update rate")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// addClient godoc
// @Summary Add a client with an explicit balance
// @Tags admin
// @Accept json
// @Produce json
// @Param client body dto.AddClientRequest true "Client"
// @Success 201 {object} domain.ClientAccount
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Client already exists"
// @Security BearerAuth
// @Router /admin/clients [post]
func (h *adminHandler) addClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddClientRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	client, err := h.clients.AddClient(c.Request.Context(), req.Name, *req.Balance)
	if err != nil {
		respondError(c, logger, err, "Failed to add client")
		return
	}
	c.JSON(http.StatusCreated, client)
}

// deleteClient godoc
// @Summary Delete a client
// @Description Removes a client that holds no active deposits or credits
// @Tags admin
// @Param name path string true "Client name"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Client has active instruments"
// @Security BearerAuth
// @Router /admin/clients/{name} [delete]
func (h *adminHandler) deleteClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.clients.DeleteClient(c.Request.Context(), c.Param("name")); err != nil {
		respondError(c, logger, err, "Failed to delete client")
		return
	}
	c.Status(http.StatusNoContent)
}

// setClientBalance godoc
// @Summary Override a client balance
// @Tags admin
// @Accept json
// @Produce json
// @Param name path string true "Client name"
// @Param balance body dto.SetBalanceRequest true "New balance"
// @Success 200 {object} domain.ClientAccount
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/clients/{name}/balance [put]
func (h *adminHandler) setClientBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetBalanceRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	client, err := h.clients.SetClientBalance(c.Request.Context(), c.Param("name"), *req.Balance)
	if err != nil {
		respondError(c, logger, err, "Failed to set client balance")
		return
	}
	c.JSON(http.StatusOK, client)
}

// getTreasury godoc
// @Summary Get the treasury balance
// @Tags admin
// @Produce json
// @Success 200 {object} domain.Treasury
// @Security BearerAuth
// @Router /admin/treasury [get]
func (h *adminHandler) getTreasury(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	treasury, err := h.clients.GetTreasury(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to read treasury")
		return
	}
	c.JSON(http.StatusOK, treasury)
}

// setTreasuryBalance godoc
// @Summary Override the treasury balance
// @Tags admin
// @Accept json
// @Produce json
// @Param balance body dto.SetBalanceRequest true "New balance"
// @Success 200 {object} domain.Treasury
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/treasury [put]
func (h *adminHandler) setTreasuryBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetBalanceRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	treasury, err := h.clients.SetTreasuryBalance(c.Request.Context(), *req.Balance)
	if err != nil {
		respondError(c, logger, err, "Failed to set treasury balance")
		return
	}
	c.JSON(http.StatusOK, treasury)
}

// clearHistory godoc
// @Summary Clear price history
// @Tags admin
// @Produce json
// @Success 200 {object} dto.ClearHistoryResponse
// @Security BearerAuth
// @Router /admin/history [delete]
func (h *adminHandler) clearHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	removed, err := h.history.Clear(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to clear price history")
		return
	}
	logger.Info("Price history cleared", slog.Int64("removed", removed))
	c.JSON(http.StatusOK, dto.ClearHistoryResponse{Removed: removed})
}
