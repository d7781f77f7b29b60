package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/edvin/customerapi/internal/api/request"
	"github.com/edvin/customerapi/internal/api/response"
	"github.com/edvin/customerapi/internal/core"
	"github.com/edvin/customerapi/internal/db"
	"github.com/edvin/customerapi/internal/model"
)

const (
	msgConnectionFailed = "Database connection failed"
	msgNotFound         = "Customer was not found."
	msgCreated          = "New customer added successfully!"
)

// ConnProvider hands out a database connection per request.
type ConnProvider interface {
	Acquire(ctx context.Context) (db.Conn, error)
}

type Customer struct {
	db ConnProvider
}

func NewCustomer(db ConnProvider) *Customer {
	return &Customer{db: db}
}

// List godoc
//
//	@Summary		List customers
//	@Tags			Customers
//	@Success		200 {array} model.Customer
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/customers [get]
func (h *Customer) List(w http.ResponseWriter, r *http.Request) {
	conn, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer conn.Release()

	customers, err := core.NewCustomerRepository(conn).ListAll(r.Context())
	if err != nil {
		h.storageError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, response.Customers(customers))
}

// Create godoc
//
//	@Summary		Create a customer
//	@Description	Only customer_name is required. Unknown keys and id are ignored.
//	@Tags			Customers
//	@Param			body body customerRequest true "Customer details"
//	@Success		201 {object} response.Message
//	@Failure		400 {object} map[string][]string
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/customers [post]
func (h *Customer) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeCustomer(w, r)
	if !ok {
		return
	}

	conn, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer conn.Release()

	id, err := core.NewCustomerRepository(conn).Insert(r.Context(), in)
	if err != nil {
		h.storageError(w, r, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().Int64("customer_id", id).Msg("customer created")
	response.WriteJSON(w, http.StatusCreated, response.Message{Message: msgCreated, ID: lo.ToPtr(id)})
}

// Update godoc
//
//	@Summary		Replace a customer
//	@Description	Overwrites customer_name, email and phone together. Omitted optional fields are cleared.
//	@Tags			Customers
//	@Param			id path int true "Customer ID"
//	@Param			body body customerRequest true "Customer details"
//	@Success		200 {object} response.Message
//	@Failure		400 {object} map[string][]string
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/customers/{id} [put]
func (h *Customer) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	in, ok := decodeCustomer(w, r)
	if !ok {
		return
	}

	conn, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer conn.Release()

	if err := core.NewCustomerRepository(conn).UpdateByID(r.Context(), id, in); err != nil {
		h.writeMutationError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, response.Message{Message: fmt.Sprintf("Successfully updated customer %d", id)})
}

// Delete godoc
//
//	@Summary		Delete a customer
//	@Tags			Customers
//	@Param			id path int true "Customer ID"
//	@Success		200 {object} response.Message
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/customers/{id} [delete]
func (h *Customer) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	conn, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer conn.Release()

	if err := core.NewCustomerRepository(conn).DeleteByID(r.Context(), id); err != nil {
		h.writeMutationError(w, r, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().Int64("customer_id", id).Msg("customer deleted")
	response.WriteJSON(w, http.StatusOK, response.Message{Message: fmt.Sprintf("Customer %d was successfully destroyed!", id)})
}

// customerRequest documents the write body for the API reference.
type customerRequest struct {
	CustomerName string  `json:"customer_name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
}

func (h *Customer) acquire(w http.ResponseWriter, r *http.Request) (db.Conn, bool) {
	conn, err := h.db.Acquire(r.Context())
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, msgConnectionFailed)
		return nil, false
	}
	return conn, true
}

func (h *Customer) storageError(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("customer storage error")
	response.WriteError(w, http.StatusInternalServerError, err.Error())
}

func (h *Customer) writeMutationError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, core.ErrNotFound) {
		response.WriteError(w, http.StatusNotFound, msgNotFound)
		return
	}
	h.storageError(w, r, err)
}

// customerID reads the {id} path parameter. An id that cannot name a stored
// customer is reported as not found.
func customerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := request.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusNotFound, msgNotFound)
		return 0, false
	}
	return id, true
}

func decodeCustomer(w http.ResponseWriter, r *http.Request) (model.CustomerInput, bool) {
	in, err := request.DecodeCustomer(r)
	if err == nil {
		return in, true
	}

	var fieldErrs request.FieldErrors
	if errors.As(err, &fieldErrs) {
		response.WriteFieldErrors(w, fieldErrs)
	} else {
		response.WriteError(w, http.StatusBadRequest, err.Error())
	}
	return model.CustomerInput{}, false
}
