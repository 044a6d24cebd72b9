package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgerline/bank/shared/cqrs"
	"github.com/ledgerline/bank/shared/middleware"
	"github.com/ledgerline/bank/shared/models"
)

// LedgerCommander defines the write-side operations used by LedgerHandler.
type LedgerCommander interface {
	CreateLedgerEntry(context.Context, cqrs.CreateLedgerEntryCommand) (*models.LedgerEntry, error)
	UpdateLedgerEntry(context.Context, cqrs.UpdateLedgerEntryCommand) (*models.LedgerEntry, error)
	DeleteLedgerEntry(context.Context, cqrs.DeleteLedgerEntryCommand) error
}

// LedgerQuerier defines the read-side operations used by LedgerHandler.
type LedgerQuerier interface {
	GetLedgerEntry(context.Context, cqrs.GetLedgerEntryQuery) (*models.LedgerEntryView, error)
	ListLedgerEntries(context.Context, cqrs.ListLedgerEntriesQuery) ([]models.LedgerEntryView, error)
	LedgerReport(context.Context, cqrs.LedgerReportQuery) ([]models.LedgerEntryView, error)
}

type LedgerHandler struct {
	commands LedgerCommander
	queries  LedgerQuerier
}

// LedgerEntryRequest is the body of create and update. A closingBalance in
// the body is ignored.
type LedgerEntryRequest struct {
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	AccountNumber  int64  `json:"accountNumber" validate:"required,gt=0"`
	Type           string `json:"type" validate:"required,max=50"`
	OpeningBalance *int64 `json:"openingBalance" validate:"required"`
	Amount         *int64 `json:"amount" validate:"required"`
	Active         *bool  `json:"active"`
}

type ReportRequest struct {
	StartDate string `json:"startDate" form:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" form:"endDate" validate:"required,datetime=2006-01-02"`
}

type ListLedgerEntriesResponse struct {
	Transactions []models.LedgerEntryView `json:"transactions"`
}

func NewLedgerHandler(commands LedgerCommander, queries LedgerQuerier) *LedgerHandler {
	return &LedgerHandler{commands: commands, queries: queries}
}

func (h *LedgerHandler) CreateLedgerEntry(c *gin.Context) {
	req, date, ok := bindEntryRequest(c)
	if !ok {
		return
	}

	entry, err := h.commands.CreateLedgerEntry(c.Request.Context(), cqrs.CreateLedgerEntryCommand{
		Date:           date,
		AccountNumber:  req.AccountNumber,
		Type:           req.Type,
		OpeningBalance: *req.OpeningBalance,
		Amount:         *req.Amount,
	})
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *LedgerHandler) UpdateLedgerEntry(c *gin.Context) {
	id, ok := middleware.ParseIDParam(c, "id")
	if !ok {
		return
	}
	req, date, ok := bindEntryRequest(c)
	if !ok {
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	entry, err := h.commands.UpdateLedgerEntry(c.Request.Context(), cqrs.UpdateLedgerEntryCommand{
		ID:             id,
		Date:           date,
		AccountNumber:  req.AccountNumber,
		Type:           req.Type,
		OpeningBalance: *req.OpeningBalance,
		Amount:         *req.Amount,
		Active:         active,
	})
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *LedgerHandler) DeleteLedgerEntry(c *gin.Context) {
	id, ok := middleware.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.commands.DeleteLedgerEntry(c.Request.Context(), cqrs.DeleteLedgerEntryCommand{ID: id}); err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *LedgerHandler) GetLedgerEntry(c *gin.Context) {
	id, ok := middleware.ParseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.queries.GetLedgerEntry(c.Request.Context(), cqrs.GetLedgerEntryQuery{ID: id})
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *LedgerHandler) ListLedgerEntries(c *gin.Context) {
	views, err := h.queries.ListLedgerEntries(c.Request.Context(), cqrs.ListLedgerEntriesQuery{})
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListLedgerEntriesResponse{Transactions: views})
}

func (h *LedgerHandler) LedgerReport(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}
	start, err := models.ParseDate(req.StartDate)
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}
	end, err := models.ParseDate(req.EndDate)
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	views, err := h.queries.LedgerReport(c.Request.Context(), cqrs.LedgerReportQuery{Start: start, End: end})
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListLedgerEntriesResponse{Transactions: views})
}

func bindEntryRequest(c *gin.Context) (LedgerEntryRequest, models.Date, bool) {
	var req LedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondMalformedJSON(c)
		return req, models.Date{}, false
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return req, models.Date{}, false
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return req, models.Date{}, false
	}
	return req, date, true
}
