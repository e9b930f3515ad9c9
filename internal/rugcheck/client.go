// internal/rugcheck/client.go
package rugcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/solwatch/screener-bot/internal/token"
)

const (
	requestTimeout = 10 * time.Second

	// Reports scoring below this are accepted regardless of risk tags.
	scoreThreshold = 300
)

// dealbreakerRisks are the named risk tags that reject a token outright.
var dealbreakerRisks = map[string]struct{}{
	"Copycat":                 {},
	"High holder correlation": {},
	"Mutable metadata":        {},
	"Symbol Mismatch":         {},
	"Name Mismatch":           {},
}

// Client queries an external risk-report service for one token at a time.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

// NewClient creates a risk-report client for the given API base URL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: requestTimeout},
		logger:  logger.Named("rugcheck"),
	}
}

type reportSummary struct {
	Risks []struct {
		Name string `json:"name"`
	} `json:"risks"`
	Score float64 `json:"score"`
}

// Verify fetches the token's risk-report summary and decides whether the
// token is acceptable, recording the outcome on the token. The call is
// never retried; any failure rejects the token with status "error".
func (c *Client) Verify(ctx context.Context, t *token.Token) bool {
	summary, err := c.fetchSummary(ctx, t.Address)
	if err != nil {
		c.logger.Error("risk report error",
			zap.String("token", t.Address),
			zap.Error(err))
		t.RugcheckStatus = token.RugcheckError
		return false
	}

	if len(summary.Risks) == 0 || summary.Score < scoreThreshold {
		t.RugcheckStatus = token.RugcheckGood
		return true
	}

	for _, risk := range summary.Risks {
		if _, ok := dealbreakerRisks[risk.Name]; ok {
			c.logger.Info("dealbreaker risk found",
				zap.String("token", t.Address),
				zap.String("risk", risk.Name))
			t.RugcheckStatus = token.RugcheckRug
			return false
		}
	}

	// Risks exist but none are dealbreakers.
	t.RugcheckStatus = token.RugcheckGood
	return true
}

func (c *Client) fetchSummary(ctx context.Context, address string) (*reportSummary, error) {
	url := fmt.Sprintf("%s/%s/report/summary", c.baseURL, address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var summary reportSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("decode report summary: %w", err)
	}
	return &summary, nil
}
