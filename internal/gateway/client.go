package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	testBaseURL = "https://checkout-test.adyen.com/v71"
	liveBaseURL = "https://checkout-live.adyen.com/checkout/v71"
)

// Client talks to the checkout gateway's HTTP API.
type Client struct {
	r        *resty.Client
	testMode bool
	baseURL  string
}

// NewClient creates a gateway client. The test-mode flag selects the
// sandbox endpoint; credentials go into the X-API-Key header.
func NewClient(apiKey string, testMode bool) *Client {
	r := resty.New().
		SetTimeout(30 * time.Second).
		SetHeader("X-API-Key", apiKey).
		SetHeader("Content-Type", "application/json")

	return &Client{r: r, testMode: testMode}
}

// WithBaseURL overrides endpoint selection, used by tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

// BaseURL returns the endpoint all requests are issued against.
func (c *Client) BaseURL() string {
	if c.baseURL != "" {
		return c.baseURL
	}
	if c.testMode {
		return testBaseURL
	}
	return liveBaseURL
}

// CreatePaymentLink requests a gateway-hosted checkout page.
func (c *Client) CreatePaymentLink(ctx context.Context, req *PaymentLinkRequest) (*PaymentLinkResponse, error) {
	var out PaymentLinkResponse
	if err := c.post(ctx, "/paymentLinks", req, &out); err != nil {
		return nil, fmt.Errorf("create payment link: %w", err)
	}
	if out.URL == "" || out.ID == "" {
		return nil, fmt.Errorf("create payment link: gateway returned no link")
	}
	return &out, nil
}

// GetPaymentLink fetches the current state of a payment link.
func (c *Client) GetPaymentLink(ctx context.Context, linkID string) (*PaymentLinkResponse, error) {
	resp, err := c.r.R().
		SetContext(ctx).
		Get(c.BaseURL() + "/paymentLinks/" + linkID)
	if err != nil {
		return nil, fmt.Errorf("get payment link: %w", err)
	}
	if resp.IsError() {
		return nil, gatewayError(resp)
	}
	var out PaymentLinkResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("get payment link: parse response: %w", err)
	}
	return &out, nil
}

// Capture captures a previously authorized payment.
func (c *Client) Capture(ctx context.Context, pspReference string, req *ModificationRequest) (*ModificationResponse, error) {
	return c.modify(ctx, pspReference, "captures", req)
}

// Cancel voids a previously authorized payment.
func (c *Client) Cancel(ctx context.Context, pspReference string, req *ModificationRequest) (*ModificationResponse, error) {
	return c.modify(ctx, pspReference, "cancels", req)
}

// Refund returns funds for a captured payment.
func (c *Client) Refund(ctx context.Context, pspReference string, req *ModificationRequest) (*ModificationResponse, error) {
	return c.modify(ctx, pspReference, "refunds", req)
}

func (c *Client) modify(ctx context.Context, pspReference, action string, req *ModificationRequest) (*ModificationResponse, error) {
	var out ModificationResponse
	path := "/payments/" + pspReference + "/" + action
	if err := c.post(ctx, path, req, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	resp, err := c.r.R().
		SetContext(ctx).
		SetBody(body).
		Post(c.BaseURL() + path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return gatewayError(resp)
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// gatewayError extracts the gateway's error message from a non-2xx reply.
func gatewayError(resp *resty.Response) error {
	var body struct {
		Status    int    `json:"status"`
		ErrorCode string `json:"errorCode"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Message != "" {
		return fmt.Errorf("gateway error %s (%s): %s", resp.Status(), body.ErrorCode, body.Message)
	}
	return fmt.Errorf("gateway error %s", resp.Status())
}
