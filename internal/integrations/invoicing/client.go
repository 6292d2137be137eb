package invoicing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// invoiceSeries is the series requested for membership invoices.
const invoiceSeries = "MEM"

// Logger is the logging interface used by the client.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client talks to the central invoice numbering service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient creates an invoicing service client.
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// NextNumber requests the next invoice number in the membership series.
func (c *Client) NextNumber(ctx context.Context, memberID int64) (string, error) {
	url := fmt.Sprintf("%s/internal/invoices/numbers", c.baseURL)

	body, err := json.Marshal(NumberRequest{MemberID: memberID, Series: invoiceSeries})
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var numberResp NumberResponse
	if err := json.NewDecoder(resp.Body).Decode(&numberResp); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if numberResp.Number == "" {
		return "", fmt.Errorf("%w: empty invoice number", ErrInvalidResponse)
	}

	return numberResp.Number, nil
}

// NextNumberWithGracefulDegradation requests the next invoice number and
// falls back to a locally generated one when the numbering service is
// unavailable. The fallback number is unique but outside the sequential
// series; the degradation is logged at ERROR level so it gets noticed.
func (c *Client) NextNumberWithGracefulDegradation(ctx context.Context, memberID int64) (string, error) {
	number, err := c.NextNumber(ctx, memberID)
	if err != nil {
		c.log.Error("Invoicing service unavailable, falling back to local invoice number for member_id=%d: %v", memberID, err)
		return FallbackNumber(), fmt.Errorf("%w: member_id=%d, error=%v", ErrServiceDegraded, memberID, err)
	}

	c.log.Info("Fetched invoice number=%s for member_id=%d", number, memberID)
	return number, nil
}

// FallbackNumber generates a locally unique invoice number for use when
// the numbering service is down.
func FallbackNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:12]
	return fmt.Sprintf("%s-LOCAL-%s", invoiceSeries, suffix)
}
