package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/hverma21/order-fulfillment-platform/internal/payment/application"
	"github.com/hverma21/order-fulfillment-platform/internal/payment/domain"
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
		tracer:  otel.Tracer("payment-http"),
	}
}

type createPaymentReq struct {
	OrderRef    string       `json:"order_ref"`
	AmountCents int64        `json:"amount_cents"`
	Method      string       `json:"method"`
	Customer    *customerDTO `json:"customer"`
}

type customerDTO struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/api/v1/payments", h.createPayment)
	r.Get("/api/v1/payments/{id}", h.getPayment)

	return r
}

func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := h.tracer.Start(ctx, "RecordPayment")
	defer span.End()

	var req createPaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, http.StatusBadRequest, "invalid body")
		return
	}

	in := application.RecordPaymentInput{
		OrderRef:    req.OrderRef,
		AmountCents: req.AmountCents,
		Method:      req.Method,
	}
	if req.Customer != nil {
		in.Customer = &domain.Customer{
			ID:        req.Customer.ID,
			FirstName: req.Customer.FirstName,
			LastName:  req.Customer.LastName,
			Email:     req.Customer.Email,
		}
	}

	id, err := h.service.RecordPayment(ctx, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPayment) {
			httperr.Write(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error("record payment failed", "order_ref", req.OrderRef, "err", err)
		httperr.Write(w, http.StatusBadGateway, "store unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"id": id})
}

func (h *Handler) getPayment(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetPayment")
	defer span.End()

	p, err := h.service.GetPayment(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httperr.Write(w, http.StatusNotFound, "payment not found")
			return
		}
		h.log.Error("get payment failed", "err", err)
		httperr.Write(w, http.StatusBadGateway, "store unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":           p.ID,
		"order_ref":    p.OrderRef,
		"amount_cents": p.AmountCents,
		"method":       p.Method,
	})
}
