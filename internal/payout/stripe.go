package payout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/TapStake_Go/internal/logger"
)

type transferRequest struct {
	Amount      decimal.Decimal   `json:"amount"`
	Currency    string            `json:"currency"`
	Destination string            `json:"destination"`
	Metadata    map[string]string `json:"metadata"`
}

type transferResponse struct {
	ID    string `json:"id"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// StripeProvider posts a transfer to a card-processor style HTTP API.
// The cashout id is the idempotency key, so retries never pay twice.
type StripeProvider struct {
	endpoint   string
	apiKey     string
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
}

func NewStripeProvider(endpoint, apiKey string) *StripeProvider {
	return &StripeProvider{
		endpoint:   endpoint,
		apiKey:     apiKey,
		client:     &http.Client{Timeout: DefaultHTTPTimeout},
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
	}
}

func (p *StripeProvider) Name() string { return ProviderStripe }

func (p *StripeProvider) CreatePayout(ctx context.Context, req Request) (string, error) {
	if p.endpoint == "" || p.apiKey == "" {
		return "", failure(ProviderStripe, ErrMsgNotConfigured)
	}

	body, err := json.Marshal(transferRequest{
		Amount:      req.Amount,
		Currency:    string(req.Currency),
		Destination: req.PlayerID,
		Metadata:    map[string]string{"cashoutId": req.CashoutID},
	})
	if err != nil {
		return "", failure(ProviderStripe, err.Error())
	}

	resp, err := p.doWithRetry(ctx, req.CashoutID, body)
	if err != nil {
		return "", failure(ProviderStripe, err.Error())
	}
	defer resp.Body.Close()

	var out transferResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	_ = json.Unmarshal(data, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("status %d", resp.StatusCode)
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return "", failure(ProviderStripe, msg)
	}
	if out.ID == "" {
		return "", failure(ProviderStripe, ErrMsgMissingTransferID)
	}
	return out.ID, nil
}

// doWithRetry retries transport errors and 5xx responses with backoff
func (p *StripeProvider) doWithRetry(ctx context.Context, idempotencyKey string, body []byte) (*http.Response, error) {
	log := logger.FromContext(ctx)

	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			delay := p.retryDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			log.Info(LogMsgRetryingPayout, "attempt", attempt, "delay", delay)
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
		httpReq.Header.Set("Idempotency-Key", idempotencyKey)

		resp, err := p.client.Do(httpReq)
		if err != nil {
			lastErr = err
			log.Warn(LogMsgPayoutRequestFailed, "error", err, "attempt", attempt)
			continue
		}
		if resp.StatusCode < 500 {
			return resp, nil
		}
		resp.Body.Close()
		lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
		log.Warn(LogMsgPayoutRequestFailed, "status", resp.StatusCode, "attempt", attempt)
	}
	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
