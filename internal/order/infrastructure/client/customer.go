package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/hverma21/order-fulfillment-platform/internal/order/application"
	"github.com/hverma21/order-fulfillment-platform/internal/order/domain"
)

type CustomerClient struct {
	log     *slog.Logger
	baseURL string
	hc      *http.Client
}

func NewCustomerClient(log *slog.Logger, baseURL string) *CustomerClient {
	return &CustomerClient{
		log:     log,
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *CustomerClient) Find(ctx context.Context, id string) (application.CustomerInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/customers/"+id, nil)
	if err != nil {
		return application.CustomerInfo{}, err
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.hc.Do(req)
	if err != nil {
		return application.CustomerInfo{}, fmt.Errorf("customer service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return application.CustomerInfo{}, domain.ErrCustomerNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return application.CustomerInfo{}, fmt.Errorf("customer service error: status %d", resp.StatusCode)
	}

	var out struct {
		ID        string `json:"id"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return application.CustomerInfo{}, fmt.Errorf("decode customer response: %w", err)
	}
	return application.CustomerInfo{
		ID:        out.ID,
		FirstName: out.FirstName,
		LastName:  out.LastName,
		Email:     out.Email,
	}, nil
}
