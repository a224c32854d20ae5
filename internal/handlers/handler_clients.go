package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/resource_bank/internal/core/ports/services"
	"github.com/SscSPs/resource_bank/internal/dto"
	"github.com/SscSPs/resource_bank/internal/middleware"
	"github.com/gin-gonic/gin"
)

// clientHandler serves the public client routes.
type clientHandler struct {
	clientService     portssvc.ClientSvcFacade
	instrumentService portssvc.InstrumentSvcFacade
}

func newClientHandler(cs portssvc.ClientSvcFacade, is portssvc.InstrumentSvcFacade) *clientHandler {
	return &clientHandler{clientService: cs, instrumentService: is}
}

// registerClientRoutes registers the public client routes.
func registerClientRoutes(rg *gin.RouterGroup, cs portssvc.ClientSvcFacade, is portssvc.InstrumentSvcFacade) {
	h := newClientHandler(cs, is)

	clients := rg.Group("/clients")
	{
		clients.GET("/balances", h.listBalances)
		clients.POST("/register", h.register)
		clients.GET("/:name/deposits", h.listDeposits)
		clients.GET("/:name/credits", h.listCredits)
	}
}

// listBalances godoc
// @Summary List client balances
// @Tags clients
// @Produce json
// @Success 200 {array} domain.ClientAccount
// @Failure 500 {object} ErrorResponse
// @Router /clients/balances [get]
func (h *clientHandler) listBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	clients, err := h.clientService.ListClients(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list clients")
		return
	}
	c.JSON(http.StatusOK, clients)
}

// register godoc
// @Summary Register a client
// @Description Opens an account with the default starting balance. Registering an existing name returns it unchanged.
// @Tags clients
// @Accept json
// @Produce json
// @Param client body dto.RegisterClientRequest true "Client name"
// @Success 201 {object} dto.RegisterClientResponse "Account opened"
// @Success 200 {object} dto.RegisterClientResponse "Account already existed"
// @Failure 400 {object} ErrorResponse
// @Router /clients/register [post]
func (h *clientHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterClientRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	client, created, err := h.clientService.RegisterClient(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, logger, err, "Failed to register client")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		logger.Info("Client registered", slog.String("client", client.Name))
	}
	c.JSON(status, dto.RegisterClientResponse{Client: *client, Created: created})
}

// listDeposits godoc
// @Summary List a client's deposits
// @Tags clients
// @Produce json
// @Param name path string true "Client name"
// @Success 200 {array} domain.Deposit
// @Failure 404 {object} ErrorResponse
// @Router /clients/{name}/deposits [get]
func (h *clientHandler) listDeposits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	deposits, err := h.instrumentService.ListDeposits(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, logger, err, "Failed to list deposits")
		return
	}
	c.JSON(http.StatusOK, deposits)
}

// listCredits godoc
// @Summary List a client's credits
// @Tags clients
// @Produce json
// @Param name path string true "Client name"
// @Success 200 {array} domain.Credit
// @Failure 404 {object} ErrorResponse
// @Router /clients/{name}/credits [get]
func (h *clientHandler) listCredits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	credits, err := h.instrumentService.ListCredits(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, logger, err, "Failed to list credits")
		return
	}
	c.JSON(http.StatusOK, credits)
}
