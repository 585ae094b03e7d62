package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/hverma21/order-fulfillment-platform/internal/order/domain"
)

// PurchaseClient calls the product service purchase endpoint and translates
// its structured error bodies back into the typed errors the coordinator
// expects.
type PurchaseClient struct {
	log     *slog.Logger
	baseURL string
	hc      *http.Client
}

func NewPurchaseClient(log *slog.Logger, baseURL string) *PurchaseClient {
	return &PurchaseClient{
		log:     log,
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
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

type errorBody struct {
	Error   string `json:"error"`
	Details struct {
		MissingIDs []int64 `json:"missing_ids"`
		ProductID  int64   `json:"product_id"`
	} `json:"details"`
}

func (c *PurchaseClient) Purchase(ctx context.Context, lines []domain.LineRequest) ([]domain.OrderLine, error) {
	req := purchaseReq{Items: make([]purchaseLineReq, 0, len(lines))}
	for _, l := range lines {
		req.Items = append(req.Items, purchaseLineReq{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.post(ctx, c.baseURL+"/api/v1/products/purchase", body)
	if err != nil {
		return nil, fmt.Errorf("product service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodePurchaseError(resp)
	}

	var out []purchasedLineResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode purchase response: %w", err)
	}
	result := make([]domain.OrderLine, 0, len(out))
	for _, l := range out {
		result = append(result, domain.OrderLine{
			ProductID:  l.ProductID,
			Name:       l.Name,
			PriceCents: l.PriceCents,
			Quantity:   l.Quantity,
		})
	}
	return result, nil
}

func (c *PurchaseClient) post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	return c.hc.Do(req)
}

func decodePurchaseError(resp *http.Response) error {
	var eb errorBody
	_ = json.NewDecoder(resp.Body).Decode(&eb)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return &domain.ProductsNotFoundError{Missing: eb.Details.MissingIDs}
	case http.StatusConflict:
		return &domain.InsufficientStockError{ProductID: eb.Details.ProductID}
	case http.StatusBadRequest:
		if eb.Error != "" {
			return fmt.Errorf("purchase rejected: %s", eb.Error)
		}
		return fmt.Errorf("purchase rejected")
	default:
		return fmt.Errorf("product service error: status %d: %s", resp.StatusCode, eb.Error)
	}
}
