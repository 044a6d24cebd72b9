package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgerline/bank/shared/cqrs"
	"github.com/ledgerline/bank/shared/middleware"
	"github.com/ledgerline/bank/shared/models"
	"github.com/shopspring/decimal"
)

// AccountCommander defines the write-side operations used by AccountHandler.
type AccountCommander interface {
	CreateAccount(context.Context, cqrs.CreateAccountCommand) (*models.Account, error)
	UpdateAccount(context.Context, cqrs.UpdateAccountCommand) (*models.Account, error)
	DeleteAccount(context.Context, cqrs.DeleteAccountCommand) error
}

// AccountQuerier defines the read-side operations used by AccountHandler.
type AccountQuerier interface {
	GetAccount(context.Context, cqrs.GetAccountQuery) (*models.AccountView, error)
	ListAccounts(context.Context, cqrs.ListAccountsQuery) ([]models.AccountView, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	commands AccountCommander
	queries  AccountQuerier
}

type AccountRequest struct {
	AccountType    string           `json:"accountType" validate:"required,max=50"`
	InitialBalance *decimal.Decimal `json:"initialBalance" validate:"required"`
	ClientID       int64            `json:"clientId" validate:"required,gt=0"`
	Active         *bool            `json:"active"`
}

type ListAccountsRequest struct {
	ClientID int64 `form:"clientId" validate:"omitempty,gt=0"`
}

type ListAccountsResponse struct {
	Accounts []models.AccountView `json:"accounts"`
}

func NewAccountHandler(commands AccountCommander, queries AccountQuerier) *AccountHandler {
	return &AccountHandler{commands: commands, queries: queries}
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	req, ok := bindAccountRequest(c)
	if !ok {
		return
	}

	account, err := h.commands.CreateAccount(c.Request.Context(), cqrs.CreateAccountCommand{
		AccountType:    req.AccountType,
		InitialBalance: *req.InitialBalance,
		ClientID:       req.ClientID,
	})
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, account)
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	var req ListAccountsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Parameter 'clientId' must be a number")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	views, err := h.queries.ListAccounts(c.Request.Context(), cqrs.ListAccountsQuery{ClientID: req.ClientID})
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListAccountsResponse{Accounts: views})
}

// GetAccount is also the endpoint other services resolve accounts through.
func (h *AccountHandler) GetAccount(c *gin.Context) {
	accountNumber, ok := middleware.ParseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.queries.GetAccount(c.Request.Context(), cqrs.GetAccountQuery{AccountNumber: accountNumber})
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	accountNumber, ok := middleware.ParseIDParam(c, "id")
	if !ok {
		return
	}
	req, ok := bindAccountRequest(c)
	if !ok {
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	account, err := h.commands.UpdateAccount(c.Request.Context(), cqrs.UpdateAccountCommand{
		AccountNumber:  accountNumber,
		AccountType:    req.AccountType,
		InitialBalance: *req.InitialBalance,
		ClientID:       req.ClientID,
		Active:         active,
	})
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	accountNumber, ok := middleware.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.commands.DeleteAccount(c.Request.Context(), cqrs.DeleteAccountCommand{AccountNumber: accountNumber}); err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func bindAccountRequest(c *gin.Context) (AccountRequest, bool) {
	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondMalformedJSON(c)
		return req, false
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return req, false
	}
	return req, true
}
