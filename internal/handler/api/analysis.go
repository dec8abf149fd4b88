package api

import (
	"context"
	"errors"
	"time"

	models "TradeLLM/internal/domain/models"
	domrepo "TradeLLM/internal/domain/repository"
	"TradeLLM/internal/service/metrics"
	"TradeLLM/internal/usecase"
	xhttp "TradeLLM/pkg/http"
	xlogger "TradeLLM/pkg/logger"

	"github.com/labstack/echo/v4"
)

type MarketAnalyzer interface {
	Analyze(ctx context.Context, instrument string, tf domrepo.Timeframe) (models.MarketAnalysis, error)
}

type SignalGenerator interface {
	Generate(ctx context.Context, instrument string) (models.TradeSignal, error)
}

type OnchainAnalyzer interface {
	Analyze(ctx context.Context, wallet string) (models.OnchainAnalysis, error)
}

type ProfileCreator interface {
	Create(ctx context.Context, p models.UserProfile) (models.ProfileResult, error)
}

type ChatAnalyzer interface {
	Analyze(ctx context.Context, message string) (models.ChatAnalysis, error)
}

// Usecases groups the analysis usecases served over HTTP.
type Usecases struct {
	Market  MarketAnalyzer
	Signals SignalGenerator
	Onchain OnchainAnalyzer
	Profile ProfileCreator
	Chat    ChatAnalyzer
}

// AnalysisHandler serves the /api/v1 analysis routes.
type AnalysisHandler struct {
	logger  *xlogger.Logger
	uc      Usecases
	metrics *metrics.Endpoints
	limiter echo.MiddlewareFunc
}

// NewAnalysisHandler builds the handler. limiter guards the LLM-backed
// routes and may be nil.
func NewAnalysisHandler(logger *xlogger.Logger, uc Usecases, m *metrics.Endpoints, limiter echo.MiddlewareFunc) *AnalysisHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &AnalysisHandler{logger: logger, uc: uc, metrics: m, limiter: limiter}
}

func (h *AnalysisHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	var limited []echo.MiddlewareFunc
	if h.limiter != nil {
		limited = append(limited, h.limiter)
	}

	g := e.Group("/api/v1")
	g.GET("/market/analysis/:instrument", h.MarketAnalysis)
	g.POST("/trades/signal", h.TradeSignal, limited...)
	g.POST("/onchain/analysis", h.OnchainAnalysis)
	g.POST("/users/profile", h.UserProfile, limited...)
	g.POST("/chat/analyze", h.ChatAnalyze)
}

func (h *AnalysisHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "healthy"})
}

func (h *AnalysisHandler) MarketAnalysis(c echo.Context) error {
	req := &models.MarketAnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.Timeframe)

	start := time.Now()
	res, err := h.uc.Market.Analyze(c.Request().Context(), req.Instrument, tf)
	h.metrics.Observe("market_analysis", start, &err)
	if err != nil {
		h.logger.Error("market analysis error", xlogger.String("instrument", req.Instrument), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) TradeSignal(c echo.Context) error {
	req := &models.TradeSignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	start := time.Now()
	res, err := h.uc.Signals.Generate(c.Request().Context(), req.Instrument)
	h.metrics.Observe("trade_signal", start, &err)
	if err != nil {
		h.logger.Error("trade signal error", xlogger.String("instrument", req.Instrument), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) OnchainAnalysis(c echo.Context) error {
	req := &models.OnchainRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	start := time.Now()
	res, err := h.uc.Onchain.Analyze(c.Request().Context(), req.WalletAddress)
	h.metrics.Observe("onchain_analysis", start, &err)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidWallet) {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()).WithError(err))
		}
		h.logger.Error("onchain analysis error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) UserProfile(c echo.Context) error {
	req := &models.UserProfile{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	start := time.Now()
	res, err := h.uc.Profile.Create(c.Request().Context(), *req)
	h.metrics.Observe("user_profile", start, &err)
	if err != nil {
		h.logger.Error("user profile error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) ChatAnalyze(c echo.Context) error {
	req := &models.ChatRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	start := time.Now()
	res, err := h.uc.Chat.Analyze(c.Request().Context(), req.Message)
	h.metrics.Observe("chat_analysis", start, &err)
	if err != nil {
		h.logger.Error("chat analysis error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
