package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgerline/bank/shared/cqrs"
	"github.com/ledgerline/bank/shared/middleware"
	"github.com/ledgerline/bank/shared/models"
)

// ClientCommander defines the write-side operations used by ClientHandler.
type ClientCommander interface {
	CreateClient(context.Context, cqrs.CreateClientCommand) (*models.Client, error)
	UpdateClient(context.Context, cqrs.UpdateClientCommand) (*models.Client, error)
	DeleteClient(context.Context, cqrs.DeleteClientCommand) error
}

// ClientQuerier defines the read-side operations used by ClientHandler.
type ClientQuerier interface {
	GetClient(context.Context, cqrs.GetClientQuery) (*models.ClientView, error)
	ListClients(context.Context, cqrs.ListClientsQuery) ([]models.ClientView, error)
}

// ClientHandler routes requests to the command or query service as appropriate.
type ClientHandler struct {
	commands ClientCommander
	queries  ClientQuerier
}

// ClientRequest is the body of create and update; update replaces every field.
type ClientRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Gender         string `json:"gender" validate:"omitempty,max=20"`
	Age            int    `json:"age" validate:"gte=0,lte=150"`
	Identification string `json:"identification" validate:"required,max=20"`
	Address        string `json:"address" validate:"required,max=200"`
	PhoneNumber    string `json:"phoneNumber" validate:"required,max=20"`
	Password       string `json:"password" validate:"required,min=4,max=72"`
}

func (r ClientRequest) person() models.Person {
	return models.Person{
		Name:           r.Name,
		Gender:         r.Gender,
		Age:            r.Age,
		Identification: r.Identification,
		Address:        r.Address,
		PhoneNumber:    r.PhoneNumber,
	}
}

type ListClientsResponse struct {
	Clients []models.ClientView `json:"clients"`
}

func NewClientHandler(commands ClientCommander, queries ClientQuerier) *ClientHandler {
	return &ClientHandler{commands: commands, queries: queries}
}

func (h *ClientHandler) CreateClient(c *gin.Context) {
	req, ok := bindClientRequest(c)
	if !ok {
		return
	}

	client, err := h.commands.CreateClient(c.Request.Context(), cqrs.CreateClientCommand{
		Person:   req.person(),
		Password: req.Password,
	})
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) ListClients(c *gin.Context) {
	views, err := h.queries.ListClients(c.Request.Context(), cqrs.ListClientsQuery{})
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListClientsResponse{Clients: views})
}

// GetClient is also the endpoint the account service resolves clients through.
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, ok := middleware.ParseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.queries.GetClient(c.Request.Context(), cqrs.GetClientQuery{ClientID: id})
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, ok := middleware.ParseIDParam(c, "id")
	if !ok {
		return
	}
	req, ok := bindClientRequest(c)
	if !ok {
		return
	}

	client, err := h.commands.UpdateClient(c.Request.Context(), cqrs.UpdateClientCommand{
		ClientID: id,
		Person:   req.person(),
		Password: req.Password,
	})
	if err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, ok := middleware.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.commands.DeleteClient(c.Request.Context(), cqrs.DeleteClientCommand{ClientID: id}); err != nil {
		middleware.RespondWithDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func bindClientRequest(c *gin.Context) (ClientRequest, bool) {
	var req ClientRequest
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
