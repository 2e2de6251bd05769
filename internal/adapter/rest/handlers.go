package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simaogato/tradeledger-backend/internal/adapter/dto"
	"github.com/simaogato/tradeledger-backend/internal/domain"
	"github.com/simaogato/tradeledger-backend/internal/usecase/ledger"
	"github.com/simaogato/tradeledger-backend/internal/usecase/report"
)

// Handler serves the /api/v1 routes
type Handler struct {
	Reports *report.ReportService
	Ledger  *ledger.LedgerService
}

// GetDailyPnl handles GET /api/v1/daily-pnl
func (h *Handler) GetDailyPnl(c *gin.Context) {
	var req dto.DailyPnlRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	query, err := req.Query()
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.Reports.DailyPnl(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewDailyPnlResponse(result))
}

// GetAttribution handles GET /api/v1/attribution
func (h *Handler) GetAttribution(c *gin.Context) {
	result, err := h.Reports.Attribution(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAttributionResponse(result))
}

// GetCapital handles GET /api/v1/capital?date=YYYY-MM-DD
func (h *Handler) GetCapital(c *gin.Context) {
	req := dto.CapitalRequest{Date: c.Query("date")}
	date, err := req.ParsedDate()
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.Reports.CapitalAt(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCapitalResponse(result))
}

// ListCashEvents handles GET /api/v1/cash-events
func (h *Handler) ListCashEvents(c *gin.Context) {
	var req dto.CashEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	query, err := req.Query()
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.Reports.CashEvents(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCashEventsResponse(result))
}

// RecordCashEvent handles POST /api/v1/cash-events
func (h *Handler) RecordCashEvent(c *gin.Context) {
	var req dto.CashEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, err := req.Input()
	if err != nil {
		respondError(c, err)
		return
	}

	event, err := h.Ledger.RecordCashEvent(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewCashEventResponse(event))
}

// UpdateCashEvent handles PUT /api/v1/cash-events/:id
func (h *Handler) UpdateCashEvent(c *gin.Context) {
	id, err := dto.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var req dto.CashEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, err := req.Input()
	if err != nil {
		respondError(c, err)
		return
	}

	event, err := h.Ledger.UpdateCashEvent(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCashEventResponse(event))
}

// DeleteCashEvent handles DELETE /api/v1/cash-events/:id
func (h *Handler) DeleteCashEvent(c *gin.Context) {
	id, err := dto.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Ledger.DeleteCashEvent(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteResponse{ID: id.String(), Deleted: true})
}

// ListTradeEvents handles GET /api/v1/trades
func (h *Handler) ListTradeEvents(c *gin.Context) {
	var req dto.TradeEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	query, err := req.Query()
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.Reports.TradeEvents(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTradeEventsResponse(result))
}

// RecordTradeEvent handles POST /api/v1/trades
func (h *Handler) RecordTradeEvent(c *gin.Context) {
	var req dto.TradeEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, err := req.Input()
	if err != nil {
		respondError(c, err)
		return
	}

	event, err := h.Ledger.RecordTradeEvent(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewTradeEventResponse(event))
}

// UpdateTradeEvent handles PUT /api/v1/trades/:id
func (h *Handler) UpdateTradeEvent(c *gin.Context) {
	id, err := dto.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var req dto.TradeEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, err := req.Input()
	if err != nil {
		respondError(c, err)
		return
	}

	event, err := h.Ledger.UpdateTradeEvent(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTradeEventResponse(event))
}

// DeleteTradeEvent handles DELETE /api/v1/trades/:id
func (h *Handler) DeleteTradeEvent(c *gin.Context) {
	id, err := dto.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Ledger.DeleteTradeEvent(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteResponse{ID: id.String(), Deleted: true})
}

// respondError maps domain errors to HTTP status codes
// UpdateProfile handles PUT /api/v1/profiles/:id with {"profitShareRatio": "0.5"}
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req dto.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ID = c.Param("id")
	input, err := req.Input()
	if err != nil {
		respondError(c, err)
		return
	}

	update, err := h.Ledger.UpdateProfile(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProfileResponse(update))
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidKind),
		errors.Is(err, domain.ErrInvalidRatio),
		errors.Is(err, domain.ErrUnknownOwner),
		errors.Is(err, domain.ErrMissingField),
		errors.Is(err, domain.ErrInvalidQuery):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
