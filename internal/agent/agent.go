// Package agent calls the conversational agent gateway. The gateway runs the
// agent's own reasoning; this client only delivers one request/response pair.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/leadwireai/leadwire/internal/auth"
)

// Client detects intent for one inbound text within a session.
type Client interface {
	DetectIntent(ctx context.Context, req DetectIntentRequest) ([]string, error)
	SessionPath(tenantID, userID string) string
}

// DetectIntentRequest carries one user turn plus the flattened session
// parameters. Parameters are string-valued only; the gateway forwards them to
// the agent verbatim.
type DetectIntentRequest struct {
	Session      string            `json:"session"`
	Text         string            `json:"text"`
	LanguageCode string            `json:"language_code"`
	Parameters   map[string]string `json:"parameters,omitempty"`
}

type detectIntentResponse struct {
	Messages []string `json:"messages"`
}

// GatewayClient is the HTTP implementation of Client.
type GatewayClient struct {
	baseURL     string
	agentID     string
	tokenSecret string
	tokenTTL    time.Duration
	httpClient  *http.Client
	logger      *slog.Logger
}

func NewGatewayClient(log *slog.Logger, baseURL, agentID, tokenSecret string, tokenTTL, timeout time.Duration) *GatewayClient {
	return &GatewayClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		agentID:     agentID,
		tokenSecret: tokenSecret,
		tokenTTL:    tokenTTL,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      log.With(slog.String("service", "agent")),
	}
}

// SessionPath builds the per-user session identifier, scoped by tenant so
// concurrent conversations never share agent state.
func (c *GatewayClient) SessionPath(tenantID, userID string) string {
	return fmt.Sprintf("tenants/%s/agents/%s/sessions/%s", tenantID, c.agentID, userID)
}

func (c *GatewayClient) DetectIntent(ctx context.Context, req DetectIntentRequest) ([]string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	url := c.baseURL + "/v1/detect-intent"
	c.logger.Info("gateway request", slog.String("session", req.Session))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(c.tokenSecret) != "" {
		token, err := auth.ServiceToken("leadwire", c.tokenSecret, c.tokenTTL)
		if err != nil {
			return nil, fmt.Errorf("service token: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("agent gateway: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("gateway error",
			slog.Int("status", resp.StatusCode),
			slog.String("body_prefix", truncate(string(respBody), 300)),
		)
		return nil, fmt.Errorf("agent gateway error: %s", strings.TrimSpace(string(respBody)))
	}

	var parsed detectIntentResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parse gateway response: %w", err)
	}

	var replies []string
	for _, msg := range parsed.Messages {
		if strings.TrimSpace(msg) != "" {
			replies = append(replies, msg)
		}
	}
	return replies, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
