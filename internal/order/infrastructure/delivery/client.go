// Package delivery integrates the courier dispatch service. Dispatch is
// fire-and-forget: the order service logs failures and proceeds.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Client struct {
	log     *slog.Logger
	baseURL string
	hc      *http.Client
}

func NewClient(log *slog.Logger, baseURL string) *Client {
	return &Client{
		log:     log,
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 5 * time.Second},
	}
}

type dispatchRequest struct {
	OrderID         uuid.UUID `json:"order_id"`
	TotalPrice      int64     `json:"total_price"`
	DeliveryAddress string    `json:"delivery_address"`
}

func (c *Client) RequestDelivery(ctx context.Context, orderID uuid.UUID, totalPrice int64, deliveryAddress string) error {
	payload, err := json.Marshal(dispatchRequest{
		OrderID:         orderID,
		TotalPrice:      totalPrice,
		DeliveryAddress: deliveryAddress,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/deliveries", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("courier service returned %d", resp.StatusCode)
	}
	c.log.Info("delivery requested", "order_id", orderID, "total_price", totalPrice)
	return nil
}
