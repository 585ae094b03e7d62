package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/hverma21/order-fulfillment-platform/internal/customer/application"
	"github.com/hverma21/order-fulfillment-platform/internal/customer/domain"
	"github.com/hverma21/order-fulfillment-platform/pkg/httperr"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("customer-http"),
	}
}

type customerReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Street    string `json:"street"`
	City      string `json:"city"`
	ZipCode   string `json:"zip_code"`
}

type customerResp struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Street    string `json:"street"`
	City      string `json:"city"`
	ZipCode   string `json:"zip_code"`
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/api/v1/customers", h.create)
	r.Get("/api/v1/customers", h.list)
	r.Get("/api/v1/customers/{id}", h.get)
	r.Put("/api/v1/customers/{id}", h.update)
	r.Delete("/api/v1/customers/{id}", h.delete)

	return r
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateCustomer")
	defer span.End()

	var req customerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, http.StatusBadRequest, "invalid body")
		return
	}

	id, err := h.service.Create(ctx, toCustomer("", req))
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"id": id})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListCustomers")
	defer span.End()

	customers, err := h.service.FindAll(ctx)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]customerResp, 0, len(customers))
	for _, c := range customers {
		out = append(out, toResp(c))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetCustomer")
	defer span.End()

	c, err := h.service.FindByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toResp(c))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateCustomer")
	defer span.End()

	var req customerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, http.StatusBadRequest, "invalid body")
		return
	}

	if err := h.service.Update(ctx, toCustomer(chi.URLParam(r, "id"), req)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DeleteCustomer")
	defer span.End()

	if err := h.service.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCustomer):
		httperr.Write(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httperr.Write(w, http.StatusNotFound, "customer not found")
	default:
		h.log.Error("customer request failed", "err", err)
		httperr.Write(w, http.StatusBadGateway, "store unavailable")
	}
}

func toCustomer(id string, req customerReq) domain.Customer {
	return domain.Customer{
		ID:        id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Address: domain.Address{
			Street:  req.Street,
			City:    req.City,
			ZipCode: req.ZipCode,
		},
	}
}

func toResp(c domain.Customer) customerResp {
	return customerResp{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Street:    c.Address.Street,
		City:      c.Address.City,
		ZipCode:   c.Address.ZipCode,
	}
}
