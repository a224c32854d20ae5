package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/resource_bank/internal/apperrors"
	"github.com/SscSPs/resource_bank/internal/core/domain"
	portssvc "github.com/SscSPs/resource_bank/internal/core/ports/services"
	"github.com/SscSPs/resource_bank/internal/dto"
	"github.com/SscSPs/resource_bank/internal/handlers"
	"github.com/SscSPs/resource_bank/internal/middleware"
	"github.com/SscSPs/resource_bank/internal/platform/config"
	"github.com/SscSPs/resource_bank/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router     *gin.Engine
	cfg        *config.Config
	market     *MockMarketService
	clients    *MockClientService
	instrument *MockInstrumentService
	history    *MockHistoryService
	auth       *MockAuthService
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(dto.RegisterValidators())
	s.cfg = &config.Config{
		JWTSecret:         "test-secret",
		JWTIssuer:         "resource-bank-test",
		JWTExpiryDuration: time.Hour,
		PublicRateLimit:   "1000-M",
		IsProduction:      true,
	}
}

func (s *HandlerTestSuite) SetupTest() {
	s.market = new(MockMarketService)
	s.clients = new(MockClientService)
	s.instrument = new(MockInstrumentService)
	s.history = new(MockHistoryService)
	s.auth = new(MockAuthService)

	s.router = gin.New()
	s.router.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.Require().NoError(handlers.RegisterRoutes(s.router, s.cfg, &portssvc.ServiceContainer{
		Market:     s.market,
		Client:     s.clients,
		Instrument: s.instrument,
		History:    s.history,
		Auth:       s.auth,
	}))
}

func (s *HandlerTestSuite) TearDownTest() {
	s.market.AssertExpectations(s.T())
	s.clients.AssertExpectations(s.T())
	s.instrument.AssertExpectations(s.T())
	s.history.AssertExpectations(s.T())
	s.auth.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) token() string {
	token, _, err := utils.GenerateJWT("admin", s.cfg.JWTSecret, time.Hour, s.cfg.JWTIssuer, time.Now())
	s.Require().NoError(err)
	return token
}

func (s *HandlerTestSuite) do(method, path string, body any, authorized bool) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", "Bearer "+s.token())
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) errorBody(w *httptest.ResponseRecorder) string {
	var body handlers.ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func (s *HandlerTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", nil, false)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())
}

func (s *HandlerTestSuite) TestListPrices() {
	prices := []domain.ResourcePrice{{Name: "Diamond", Price: decimal.NewFromInt(10), Float: 100}}
	s.market.On("ListPrices", mock.Anything).Return(prices, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/resources/prices", nil, false)

	s.Equal(http.StatusOK, w.Code)
	s.NotEmpty(w.Header().Get("X-RateLimit-Limit"))
	var got []domain.ResourcePrice
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Require().Len(got, 1)
	s.Equal("Diamond", got[0].Name)
	s.True(got[0].Price.Equal(decimal.NewFromInt(10)))
}

func (s *HandlerTestSuite) TestQuoteWithdrawBeyondFloatIsConflict() {
	s.market.On("QuoteWithdraw", mock.Anything, "Diamond", int64(101)).
		Return(nil, fmt.Errorf("%w: only 100 units of Diamond in float", apperrors.ErrInsufficientFunds)).Once()

	w := s.do(http.MethodPost, "/api/v1/resources/quotes/withdraw", dto.QuoteUnitsRequest{Resource: "Diamond", Units: 101}, false)

	s.Equal(http.StatusConflict, w.Code)
	s.Contains(s.errorBody(w), "insufficient funds")
}

func (s *HandlerTestSuite) TestQuoteDepositUnknownResourceIsNotFound() {
	s.market.On("QuoteDeposit", mock.Anything, "Obsidian", int64(1)).
		Return(nil, fmt.Errorf("%w: resource Obsidian", apperrors.ErrNotFound)).Once()

	w := s.do(http.MethodPost, "/api/v1/resources/quotes/deposit", dto.QuoteUnitsRequest{Resource: "Obsidian", Units: 1}, false)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestQuoteDepositUnitsRejectsNonPositiveTarget() {
	w := s.do(http.MethodPost, "/api/v1/resources/quotes/deposit-units",
		map[string]any{"resource": "Diamond", "target": "0"}, false)

	s.Equal(http.StatusBadRequest, w.Code)
	s.market.AssertNotCalled(s.T(), "QuoteDepositUnits", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestQuoteDepositUnitsPassesTarget() {
	target := decimal.RequireFromString("47.5")
	quote := &domain.Quote{Resource: "Diamond", Operation: domain.OperationDeposit, Units: 5, Amount: target}
	s.market.On("QuoteDepositUnits", mock.Anything, "Diamond", mock.MatchedBy(target.Equal)).Return(quote, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/resources/quotes/deposit-units",
		map[string]any{"resource": "Diamond", "target": "47.5"}, false)

	s.Equal(http.StatusOK, w.Code)
	var got domain.Quote
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Equal(int64(5), got.Units)
}

func (s *HandlerTestSuite) TestHistoryLimit() {
	points := []domain.PricePoint{{ResourceName: "Diamond", Price: decimal.NewFromInt(10), Timestamp: time.Now()}}
	s.history.On("QueryPage", mock.Anything, "Diamond", "", 5).Return(points, "", nil).Once()
	s.history.On("QueryPage", mock.Anything, "Diamond", "tok", 0).Return(points, "next", nil).Once()

	w := s.do(http.MethodGet, "/api/v1/resources/Diamond/history?limit=5", nil, false)
	s.Equal(http.StatusOK, w.Code)
	var got dto.PriceHistoryResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Equal("Diamond", got.Resource)
	s.Len(got.Points, 1)
	s.Empty(got.NextToken)

	w = s.do(http.MethodGet, "/api/v1/resources/Diamond/history?before=tok", nil, false)
	s.Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Equal("next", got.NextToken)

	w = s.do(http.MethodGet, "/api/v1/resources/Diamond/history?limit=abc", nil, false)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestRegisterClient() {
	client := &domain.ClientAccount{Name: "sunny", Balance: decimal.NewFromInt(50)}
	s.clients.On("RegisterClient", mock.Anything, "sunny").Return(client, true, nil).Once()
	s.clients.On("RegisterClient", mock.Anything, "sunny").Return(client, false, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/clients/register", dto.RegisterClientRequest{Name: "sunny"}, false)
	s.Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/api/v1/clients/register", dto.RegisterClientRequest{Name: "sunny"}, false)
	s.Equal(http.StatusOK, w.Code)
	var got dto.RegisterClientResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.False(got.Created)
	s.Equal("sunny", got.Client.Name)
}

func (s *HandlerTestSuite) TestAdminRoutesRequireToken() {
	w := s.do(http.MethodGet, "/api/v1/admin/treasury", nil, false)
	s.Equal(http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/treasury", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerTestSuite) TestAdminTokenFromOtherIssuerIsRejected() {
	token, _, err := utils.GenerateJWT("admin", s.cfg.JWTSecret, time.Hour, "someone-else", time.Now())
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/treasury", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerTestSuite) TestAdminDepositSettlement() {
	settlement := &domain.Settlement{
		Operation:       domain.OperationDeposit,
		ClientName:      "sunny",
		Resource:        "Diamond",
		Units:           5,
		Amount:          decimal.RequireFromString("47.5"),
		ClientBalance:   decimal.RequireFromString("147.5"),
		TreasuryBalance: decimal.RequireFromString("9852.5"),
		Float:           105,
	}
	s.market.On("DepositResource", mock.Anything, "sunny", "Diamond", int64(5)).Return(settlement, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/admin/settlements/deposit",
		dto.SettlementRequest{ClientName: "sunny", Resource: "Diamond", Units: 5}, true)

	s.Equal(http.StatusOK, w.Code)
	var got dto.SettlementResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.True(got.Amount.Equal(decimal.RequireFromString("47.5")))
	s.Equal(int64(105), got.Float)
	s.Equal("admin", got.SettledBy)
}

func (s *HandlerTestSuite) TestAdminSettlementRejectsZeroUnits() {
	w := s.do(http.MethodPost, "/api/v1/admin/settlements/withdraw",
		dto.SettlementRequest{ClientName: "sunny", Resource: "Diamond", Units: 0}, true)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestDeleteClientWithActiveInstrumentsIsConflict() {
	s.clients.On("DeleteClient", mock.Anything, "sunny").
		Return(fmt.Errorf("%w: client sunny has 1 active instruments", apperrors.ErrInvalidState)).Once()

	w := s.do(http.MethodDelete, "/api/v1/admin/clients/sunny", nil, true)
	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlerTestSuite) TestSetFloatAcceptsZero() {
	resource := &domain.Resource{Name: "Diamond", Float: 0, BaseRate: decimal.NewFromInt(1)}
	s.market.On("SetResourceFloat", mock.Anything, "Diamond", int64(0)).Return(resource, nil).Once()

	w := s.do(http.MethodPut, "/api/v1/admin/resources/Diamond/float", map[string]any{"float": 0}, true)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPut, "/api/v1/admin/resources/Diamond/float", map[string]any{}, true)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestSetTreasuryBalanceRejectsNegative() {
	w := s.do(http.MethodPut, "/api/v1/admin/treasury", map[string]any{"balance": "-1"}, true)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestCreateDeposit() {
	deposit := &domain.Deposit{DepositID: "d-1", ClientName: "sunny", Amount: decimal.NewFromInt(100), Days: 10, Status: domain.DepositActive}
	s.instrument.On("CreateDeposit", mock.Anything, "sunny",
		mock.MatchedBy(decimal.NewFromInt(100).Equal), 10, mock.MatchedBy(decimal.NewFromInt(5).Equal)).
		Return(deposit, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/admin/deposits",
		map[string]any{"clientName": "sunny", "amount": "100", "days": 10, "interestRate": "5"}, true)

	s.Equal(http.StatusCreated, w.Code)
	var got domain.Deposit
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Equal("d-1", got.DepositID)
}

func (s *HandlerTestSuite) TestCreateDepositRejectsOverlongTerm() {
	w := s.do(http.MethodPost, "/api/v1/admin/deposits",
		map[string]any{"clientName": "sunny", "amount": "100", "days": 10_000_000, "interestRate": "5"}, true)

	s.Equal(http.StatusBadRequest, w.Code)
	s.instrument.AssertNotCalled(s.T(), "CreateDeposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestGetInstruments() {
	deposit := &domain.Deposit{DepositID: "d-1", ClientName: "sunny", Amount: decimal.NewFromInt(100), Days: 10, Status: domain.DepositActive}
	s.instrument.On("GetDeposit", mock.Anything, "d-1").Return(deposit, nil).Once()
	s.instrument.On("GetCredit", mock.Anything, "c-404").
		Return(nil, fmt.Errorf("%w: credit c-404", apperrors.ErrNotFound)).Once()

	w := s.do(http.MethodGet, "/api/v1/admin/deposits/d-1", nil, true)
	s.Equal(http.StatusOK, w.Code)
	var got domain.Deposit
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Equal("d-1", got.DepositID)

	w = s.do(http.MethodGet, "/api/v1/admin/credits/c-404", nil, true)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/v1/admin/deposits/d-1", nil, false)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerTestSuite) TestEarlyCloseInactiveDepositIsConflict() {
	s.instrument.On("EarlyCloseDeposit", mock.Anything, "d-1").
		Return(nil, fmt.Errorf("%w: deposit d-1 is MATURED", apperrors.ErrInvalidState)).Once()

	w := s.do(http.MethodPost, "/api/v1/admin/deposits/d-1/early-close", nil, true)
	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlerTestSuite) TestInternalErrorsAreHidden() {
	s.clients.On("ListClients", mock.Anything).Return(nil, fmt.Errorf("connection reset by peer")).Once()

	w := s.do(http.MethodGet, "/api/v1/clients/balances", nil, false)

	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal("Failed to list clients", s.errorBody(w))
}

func (s *HandlerTestSuite) TestLogin() {
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	s.auth.On("Login", mock.Anything, "admin", "secret").Return("signed-token", expires, nil).Once()
	s.auth.On("Login", mock.Anything, "admin", "wrong").Return("", time.Time{}, apperrors.ErrUnauthorized).Once()

	w := s.do(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Login: "admin", Password: "secret"}, false)
	s.Equal(http.StatusOK, w.Code)
	var got dto.LoginResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Equal("signed-token", got.Token)

	w = s.do(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Login: "admin", Password: "wrong"}, false)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerTestSuite) TestClearHistory() {
	s.history.On("Clear", mock.Anything).Return(int64(12), nil).Once()

	w := s.do(http.MethodDelete, "/api/v1/admin/history", nil, true)

	s.Equal(http.StatusOK, w.Code)
	var got dto.ClearHistoryResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Equal(int64(12), got.Removed)
}
