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

	"github.com/hverma21/order-fulfillment-platform/internal/order/application"
)

type PaymentClient struct {
	log     *slog.Logger
	baseURL string
	hc      *http.Client
}

func NewPaymentClient(log *slog.Logger, baseURL string) *PaymentClient {
	return &PaymentClient{
		log:     log,
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
}

type createPaymentReq struct {
	OrderRef    string       `json:"order_ref"`
	AmountCents int64        `json:"amount_cents"`
	Method      string       `json:"method"`
	Customer    *customerDTO `json:"customer,omitempty"`
}

type customerDTO struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func (c *PaymentClient) RecordPayment(ctx context.Context, in application.PaymentRequest) (string, error) {
	req := createPaymentReq{
		OrderRef:    in.OrderRef,
		AmountCents: in.AmountCents,
		Method:      in.Method,
	}
	if in.Customer != nil {
		req.Customer = &customerDTO{
			ID:        in.Customer.ID,
			FirstName: in.Customer.FirstName,
			LastName:  in.Customer.LastName,
			Email:     in.Customer.Email,
		}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/payments", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("payment service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("payment service error: status %d", resp.StatusCode)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode payment response: %w", err)
	}
	return out.ID, nil
}
