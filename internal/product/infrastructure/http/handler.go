package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/hverma21/order-fulfillment-platform/internal/product/application"
	"github.com/hverma21/order-fulfillment-platform/internal/product/domain"
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
		tracer:  otel.Tracer("product-http"),
	}
}

type createProductReq struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	CategoryID        int64  `json:"category_id"`
	PriceCents        int64  `json:"price_cents"`
	AvailableQuantity int    `json:"available_quantity"`
}

type productResp struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	CategoryID        int64  `json:"category_id"`
	PriceCents        int64  `json:"price_cents"`
	AvailableQuantity int    `json:"available_quantity"`
}

type purchaseLineReq struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type purchaseReq struct {
	Items []purchaseLineReq `json:"items"`
}

type purchasedLineResp struct {
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/api/v1/products", h.createProduct)
	r.Get("/api/v1/products", h.listProducts)
	r.Get("/api/v1/products/{id}", h.getProduct)
	r.Post("/api/v1/products/purchase", h.purchase)

	return r
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateProduct")
	defer span.End()

	var req createProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, http.StatusBadRequest, "invalid body")
		return
	}

	id, err := h.service.CreateProduct(ctx, domain.Product{
		Name:              req.Name,
		Description:       req.Description,
		CategoryID:        req.CategoryID,
		PriceCents:        req.PriceCents,
		AvailableQuantity: req.AvailableQuantity,
	})
	if err != nil {
		if errors.Is(err, application.ErrInvalidProduct) {
			httperr.Write(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error("create product failed", "err", err)
		httperr.Write(w, http.StatusBadGateway, "store unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]int64{"id": id})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListProducts")
	defer span.End()

	products, err := h.service.FindAll(ctx)
	if err != nil {
		h.log.Error("list products failed", "err", err)
		httperr.Write(w, http.StatusBadGateway, "store unavailable")
		return
	}

	out := make([]productResp, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResp(p))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetProduct")
	defer span.End()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httperr.Write(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := h.service.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httperr.Write(w, http.StatusNotFound, "product not found")
			return
		}
		h.log.Error("get product failed", "id", id, "err", err)
		httperr.Write(w, http.StatusBadGateway, "store unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toProductResp(p))
}

func (h *Handler) purchase(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PurchaseProducts")
	defer span.End()

	var req purchaseReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, http.StatusBadRequest, "invalid body")
		return
	}

	lines := make([]domain.PurchaseLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, domain.PurchaseLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	purchased, err := h.service.Purchase(ctx, lines)
	if err != nil {
		h.writePurchaseError(w, err)
		return
	}

	out := make([]purchasedLineResp, 0, len(purchased))
	for _, p := range purchased {
		out = append(out, purchasedLineResp{
			ProductID:  p.ProductID,
			Name:       p.Name,
			PriceCents: p.PriceCents,
			Quantity:   p.Quantity,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (h *Handler) writePurchaseError(w http.ResponseWriter, err error) {
	var notFound *domain.ProductsNotFoundError
	var insufficient *domain.InsufficientStockError

	switch {
	case errors.Is(err, domain.ErrEmptyBatch), errors.Is(err, domain.ErrInvalidQuantity):
		httperr.Write(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFound):
		httperr.WriteDetails(w, http.StatusNotFound, "one or more products do not exist", map[string][]int64{"missing_ids": notFound.Missing})
	case errors.As(err, &insufficient):
		httperr.WriteDetails(w, http.StatusConflict, "insufficient stock", map[string]int64{"product_id": insufficient.ProductID})
	default:
		h.log.Error("purchase failed", "err", err)
		httperr.Write(w, http.StatusBadGateway, "store unavailable")
	}
}

func toProductResp(p domain.Product) productResp {
	return productResp{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		CategoryID:        p.CategoryID,
		PriceCents:        p.PriceCents,
		AvailableQuantity: p.AvailableQuantity,
	}
}
