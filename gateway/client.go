package gateway

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

type ChargeStatus = string

var (
	StatusPending   ChargeStatus = "pending"
	StatusConfirmed ChargeStatus = "confirmed"
	StatusFailed    ChargeStatus = "failed"
)

type Charge struct {
	PaymentID string          `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    ChargeStatus    `json:"status"`
	QRCode    string          `json:"qr_code,omitempty"`
}

// Client is the external payment processor. The core only ever sees the
// opaque payment id and status; confirmation arrives through the webhook
// surface.
type Client interface {
	CreateCharge(member_uid string, amount decimal.Decimal, description string) (*Charge, error)
	FetchStatus(payment_id string) (ChargeStatus, error)
}

var Default Client = NewPixClient()

type PixClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

func NewPixClient() *PixClient {
	return &PixClient{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: os.Getenv("GATEWAY_URL"),
		apiKey:  os.Getenv("GATEWAY_API_KEY"),
	}
}

type createChargeRequest struct {
	ExternalRef string          `json:"external_ref"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (c *PixClient) CreateCharge(member_uid string, amount decimal.Decimal, description string) (*Charge, error) {
	payload, err := json.Marshal(createChargeRequest{
		ExternalRef: member_uid,
		Amount:      amount,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", c.baseURL+"/v1/charges", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var charge Charge
	if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
		return nil, err
	}

	return &charge, nil
}

func (c *PixClient) FetchStatus(payment_id string) (ChargeStatus, error) {
	req, err := http.NewRequest("GET", c.baseURL+"/v1/charges/"+payment_id, nil)
	if err != nil {
		return StatusFailed, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return StatusFailed, err
	}
	defer resp.Body.Close()

	var charge Charge
	if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
		return StatusFailed, err
	}

	return charge.Status, nil
}
