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

	"github.com/hverma21/order-fulfillment-platform/internal/order/application"
	"github.com/hverma21/order-fulfillment-platform/internal/order/domain"
	"github.com/hverma21/order-fulfillment-platform/pkg/httperr"
	"github.com/hverma21/order-fulfillment-platform/pkg/tracing"
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
		tracer:  otel.Tracer("order-http"),
	}
}

type createOrderReq struct {
	CustomerID    string         `json:"customer_id"`
	PaymentMethod string         `json:"payment_method"`
	Items         []orderLineReq `json:"items"`
}

type orderLineReq struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type orderResp struct {
	ID         string          `json:"id"`
	Reference  string          `json:"reference"`
	CustomerID string          `json:"customer_id"`
	TotalCents int64           `json:"total_cents"`
	Status     string          `json:"status"`
	Lines      []orderLineResp `json:"lines"`
}

type orderLineResp struct {
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/api/v1/orders", h.createOrder)
	r.Get("/api/v1/orders/{id}", h.getOrder)

	return r
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := h.tracer.Start(ctx, "PlaceOrder")
	defer span.End()

	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.CustomerID == "" {
		httperr.Write(w, http.StatusBadRequest, "customer_id is required")
		return
	}

	lines := make([]domain.LineRequest, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, domain.LineRequest{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	traceparent := r.Header.Get(tracing.TraceparentHeader)
	headers := map[string]string{"source": "order-service"}

	o, err := h.service.PlaceOrder(ctx, application.PlaceOrderInput{
		CustomerID:    req.CustomerID,
		PaymentMethod: req.PaymentMethod,
		Lines:         lines,
	}, headers, traceparent)
	if err != nil {
		h.writeOrderError(w, o, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toOrderResp(o))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetOrder")
	defer span.End()

	o, err := h.service.GetOrder(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httperr.Write(w, http.StatusNotFound, "order not found")
			return
		}
		h.log.Error("get order failed", "err", err)
		httperr.Write(w, http.StatusBadGateway, "store unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toOrderResp(o))
}

func (h *Handler) writeOrderError(w http.ResponseWriter, o domain.Order, err error) {
	var notFound *domain.ProductsNotFoundError
	var insufficient *domain.InsufficientStockError

	switch {
	case errors.Is(err, domain.ErrEmptyOrder), errors.Is(err, domain.ErrInvalidQuantity):
		httperr.Write(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCustomerNotFound):
		httperr.Write(w, http.StatusNotFound, "customer not found")
	case errors.As(err, &notFound):
		httperr.WriteDetails(w, http.StatusNotFound, "one or more products do not exist", map[string][]int64{"missing_ids": notFound.Missing})
	case errors.As(err, &insufficient):
		httperr.WriteDetails(w, http.StatusConflict, "insufficient stock", map[string]int64{"product_id": insufficient.ProductID})
	case errors.Is(err, domain.ErrPaymentFailed):
		// Order row exists in FAILED state; hand its id back for follow-up.
		httperr.WriteDetails(w, http.StatusBadGateway, "payment initiation failed", map[string]string{"order_id": o.ID})
	default:
		h.log.Error("place order failed", "err", err)
		httperr.Write(w, http.StatusBadGateway, err.Error())
	}
}

func toOrderResp(o domain.Order) orderResp {
	lines := make([]orderLineResp, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, orderLineResp{
			ProductID:  l.ProductID,
			Name:       l.Name,
			PriceCents: l.PriceCents,
			Quantity:   l.Quantity,
		})
	}
	return orderResp{
		ID:         o.ID,
		Reference:  o.Reference,
		CustomerID: o.CustomerID,
		TotalCents: o.TotalCents,
		Status:     string(o.Status),
		Lines:      lines,
	}
}
