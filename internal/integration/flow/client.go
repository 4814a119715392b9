package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/npavezibarra/flow-sub/internal/config"
	"github.com/npavezibarra/flow-sub/internal/domain/subscription"
	ierr "github.com/npavezibarra/flow-sub/internal/errors"
	"github.com/npavezibarra/flow-sub/internal/logger"
)

const (
	// DefaultBaseURL is Flow's production API endpoint.
	DefaultBaseURL = "https://www.flow.cl/api"

	// PayBaseURL is the hosted payment page an invoice token resolves to.
	PayBaseURL = "https://www.flow.cl/app/web/pay.php?token="
)

// FlowClient defines the interface for Flow API operations
type FlowClient interface {
	// Configured reports whether API credentials are present. Callers must
	// treat false as "cannot determine access", never as a hard failure.
	Configured() bool
	GetSubscription(ctx context.Context, subscriptionID string) (*subscription.SubscriptionRecord, error)
	GetInvoice(ctx context.Context, invoiceID string) (*InvoiceDetail, error)
	GetPlans(ctx context.Context) ([]Plan, error)
	CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*Customer, error)
	CreateSubscription(ctx context.Context, req *CreateSubscriptionRequest) (*subscription.SubscriptionRecord, error)
	CancelSubscription(ctx context.Context, subscriptionID string, atPeriodEnd bool) (*subscription.SubscriptionRecord, error)
	// VerifyWebhookSignature validates Flow's sorted-param HMAC signature
	// on inbound webhook parameters (signature excluded from params).
	VerifyWebhookSignature(params map[string]string, signature string) error
}

// Client talks to the Flow API. Every request carries the apiKey parameter
// plus the HMAC signature over the sorted params. Calls are bounded by the
// configured timeout and are never retried; the access service copes with
// individual fetch failures.
type Client struct {
	cfg        config.FlowConfig
	logger     *logger.Logger
	httpClient *http.Client
}

// NewClient creates a new Flow client
func NewClient(cfg *config.Configuration, log *logger.Logger) FlowClient {
	baseURL := cfg.Flow.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	flowCfg := cfg.Flow
	flowCfg.BaseURL = strings.TrimRight(baseURL, "/")

	return &Client{
		cfg:    flowCfg,
		logger: log,
		httpClient: &http.Client{
			Timeout: flowCfg.Timeout,
		},
	}
}

func (c *Client) Configured() bool {
	return c.cfg.Configured()
}

// GetSubscription fetches one subscription with its embedded invoices and
// normalizes it into the domain record.
func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (*subscription.SubscriptionRecord, error) {
	if subscriptionID == "" {
		return nil, ierr.NewError("subscription id is required").
			WithHint("Subscription ID is required").
			Mark(ierr.ErrValidation)
	}

	body, err := c.request(ctx, http.MethodGet, "subscription/get", map[string]string{
		"subscriptionId": subscriptionID,
	})
	if err != nil {
		return nil, err
	}

	var resp SubscriptionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid response from Flow API").
			Mark(ierr.ErrHTTPClient)
	}

	record := resp.ToDomain()

	c.logger.Debugw("fetched subscription from Flow",
		"subscription_id", record.SubscriptionID,
		"status", record.Status,
		"morose", record.Morose,
		"invoices", len(record.Invoices))

	return record, nil
}

// GetInvoice fetches one invoice, including its hosted payment link.
func (c *Client) GetInvoice(ctx context.Context, invoiceID string) (*InvoiceDetail, error) {
	if invoiceID == "" {
		return nil, ierr.NewError("invoice id is required").
			WithHint("Invoice ID is required").
			Mark(ierr.ErrValidation)
	}

	body, err := c.request(ctx, http.MethodGet, "invoice/get", map[string]string{
		"invoiceId": invoiceID,
	})
	if err != nil {
		return nil, err
	}

	var detail InvoiceDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid response from Flow API").
			Mark(ierr.ErrHTTPClient)
	}

	return &detail, nil
}

// GetPlans lists the subscription plans configured in Flow.
func (c *Client) GetPlans(ctx context.Context) ([]Plan, error) {
	body, err := c.request(ctx, http.MethodGet, "plans/list", map[string]string{})
	if err != nil {
		return nil, err
	}

	var resp PlanListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid response from Flow API").
			Mark(ierr.ErrHTTPClient)
	}

	return resp.Data, nil
}

// CreateCustomer registers a customer in Flow.
func (c *Client) CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*Customer, error) {
	if req == nil || req.Email == "" || req.ExternalID == "" {
		return nil, ierr.NewError("customer email and external id are required").
			WithHint("Customer email and external ID are required").
			Mark(ierr.ErrValidation)
	}

	body, err := c.request(ctx, http.MethodPost, "customer/create", map[string]string{
		"name":       req.Name,
		"email":      req.Email,
		"externalId": req.ExternalID,
	})
	if err != nil {
		return nil, err
	}

	var customer Customer
	if err := json.Unmarshal(body, &customer); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid response from Flow API").
			Mark(ierr.ErrHTTPClient)
	}

	c.logger.Infow("created customer in Flow",
		"customer_id", customer.CustomerID,
		"external_id", customer.ExternalID)

	return &customer, nil
}

// CreateSubscription subscribes a Flow customer to a plan.
func (c *Client) CreateSubscription(ctx context.Context, req *CreateSubscriptionRequest) (*subscription.SubscriptionRecord, error) {
	if req == nil || req.CustomerID == "" || req.PlanID == "" {
		return nil, ierr.NewError("customer id and plan id are required").
			WithHint("Customer ID and plan ID are required").
			Mark(ierr.ErrValidation)
	}

	params := map[string]string{
		"customerId": req.CustomerID,
		"planId":     req.PlanID,
	}
	if req.CouponID != "" {
		params["couponId"] = req.CouponID
	}
	if req.TrialDays > 0 {
		params["trial_period_days"] = strconv.Itoa(req.TrialDays)
	}

	body, err := c.request(ctx, http.MethodPost, "subscription/create", params)
	if err != nil {
		return nil, err
	}

	var resp SubscriptionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid response from Flow API").
			Mark(ierr.ErrHTTPClient)
	}

	record := resp.ToDomain()

	c.logger.Infow("created subscription in Flow",
		"subscription_id", record.SubscriptionID,
		"customer_id", record.CustomerID,
		"plan_id", record.PlanID)

	return record, nil
}

// CancelSubscription cancels a subscription, optionally keeping access
// until the end of the paid period.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string, atPeriodEnd bool) (*subscription.SubscriptionRecord, error) {
	if subscriptionID == "" {
		return nil, ierr.NewError("subscription id is required").
			WithHint("Subscription ID is required").
			Mark(ierr.ErrValidation)
	}

	atEnd := "0"
	if atPeriodEnd {
		atEnd = "1"
	}

	body, err := c.request(ctx, http.MethodPost, "subscription/cancel", map[string]string{
		"subscriptionId": subscriptionID,
		"at_period_end":  atEnd,
	})
	if err != nil {
		return nil, err
	}

	var resp SubscriptionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid response from Flow API").
			Mark(ierr.ErrHTTPClient)
	}

	record := resp.ToDomain()

	c.logger.Infow("cancelled subscription in Flow",
		"subscription_id", record.SubscriptionID,
		"at_period_end", atPeriodEnd)

	return record, nil
}

// VerifyWebhookSignature validates an inbound webhook signature.
func (c *Client) VerifyWebhookSignature(params map[string]string, signature string) error {
	if !c.Configured() {
		return ierr.NewError("flow credentials not configured").
			WithHint("Configure the Flow API and secret keys").
			Mark(ierr.ErrValidation)
	}
	if signature == "" || !VerifySignature(params, c.cfg.SecretKey, signature) {
		return ierr.NewError("webhook signature verification failed").
			WithHint("Invalid webhook signature").
			Mark(ierr.ErrPermissionDenied)
	}
	return nil
}

// request signs and executes one API call, returning the raw body on a
// 2xx response. Exactly one attempt is made per call.
func (c *Client) request(ctx context.Context, method, endpoint string, params map[string]string) ([]byte, error) {
	if !c.Configured() {
		return nil, ierr.NewError("flow credentials not configured").
			WithHint("Configure the Flow API and secret keys").
			Mark(ierr.ErrValidation)
	}

	signed := make(map[string]string, len(params)+2)
	for k, v := range params {
		signed[k] = v
	}
	signed["apiKey"] = c.cfg.APIKey
	signed[SignatureParam] = SignParams(signed, c.cfg.SecretKey)

	values := url.Values{}
	for k, v := range signed {
		values.Set(k, v)
	}

	requestURL := c.cfg.BaseURL + "/" + strings.TrimLeft(endpoint, "/")

	var httpReq *http.Request
	var err error
	if method == http.MethodGet {
		httpReq, err = http.NewRequestWithContext(ctx, method, requestURL+"?"+values.Encode(), nil)
	} else {
		httpReq, err = http.NewRequestWithContext(ctx, method, requestURL, strings.NewReader(values.Encode()))
		if httpReq != nil {
			httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to create HTTP request").
			Mark(ierr.ErrInternal)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Errorw("flow API request failed", "endpoint", endpoint, "error", err)
		return nil, ierr.WithError(err).
			WithHint("Unable to connect to Flow API").
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read Flow response").
			Mark(ierr.ErrHTTPClient)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusNotFound {
			return nil, ierr.NewErrorf("flow resource not found at %s", endpoint).
				WithHint("Resource not found in Flow").
				Mark(ierr.ErrNotFound)
		}

		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
			c.logger.Errorw("flow API error",
				"endpoint", endpoint,
				"status", resp.StatusCode,
				"code", errResp.Code,
				"message", errResp.Message)
			return nil, ierr.NewError(errResp.Message).
				WithHint("Flow API request failed").
				WithReportableDetails(map[string]interface{}{
					"code": errResp.Code,
				}).
				Mark(ierr.ErrHTTPClient)
		}

		return nil, ierr.NewError("flow API error").
			WithHint(fmt.Sprintf("HTTP status %d", resp.StatusCode)).
			Mark(ierr.ErrHTTPClient)
	}

	return body, nil
}
