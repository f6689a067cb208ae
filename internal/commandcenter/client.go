// Package commandcenter implements the REST client for the remote
// LLM-backed command center. The client is the only component that
// talks to the peer; the orchestrator drives it strictly sequentially
// within a conversation.
package commandcenter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/voicekit/voicenode/internal/logging"
	"github.com/voicekit/voicenode/internal/monitoring"
	"github.com/voicekit/voicenode/internal/protocol"
	"github.com/voicekit/voicenode/internal/resilience"
	"github.com/voicekit/voicenode/internal/types"
)

// NodeContext identifies this node in every payload sent to the peer.
type NodeContext struct {
	NodeID   string `json:"node_id"`
	Room     string `json:"room"`
	Timezone string `json:"timezone"`
}

// Config holds client settings.
type Config struct {
	BaseURL        string
	APIKey         string
	CommandTimeout time.Duration
	StartTimeout   time.Duration
}

// Client talks HTTP+JSON to the command center. Command and continue
// calls are single-shot: a failed round-trip is terminal for the
// conversation, so no transport retries apply there. Conversation
// start is best-effort and retried.
type Client struct {
	http    *resty.Client
	retrier *retryablehttp.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	cfg     Config
	node    NodeContext
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// WithMetrics attaches a metrics collector.
func (c *Client) WithMetrics(m *monitoring.Metrics) *Client {
	c.metrics = m
	return c
}

// New creates a command center client.
func New(cfg Config, node NodeContext, logger *logging.Logger) *Client {
	if cfg.CommandTimeout == 0 {
		cfg.CommandTimeout = 30 * time.Second
	}
	if cfg.StartTimeout == 0 {
		cfg.StartTimeout = 10 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.CommandTimeout).
		SetHeader("User-Agent", "voicenode/1.0")
	if cfg.APIKey != "" {
		httpClient.SetAuthToken(cfg.APIKey)
	}

	// Best-effort registration calls go through a retrying client.
	retrier := retryablehttp.NewClient()
	retrier.RetryMax = 2
	retrier.RetryWaitMin = 500 * time.Millisecond
	retrier.RetryWaitMax = 2 * time.Second
	retrier.HTTPClient.Timeout = cfg.StartTimeout
	retrier.Logger = nil

	breaker := resilience.New("command-center", resilience.Settings{
		MaxRequests: 2,
		Interval:    60 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		http:    httpClient,
		retrier: retrier,
		limiter: rate.NewLimiter(rate.Limit(10), 10),
		breaker: breaker,
		cfg:     cfg,
		node:    node,
		logger:  logger,
	}
}

// SendCommand submits the initial utterance and returns the peer's
// first response.
func (c *Client) SendCommand(ctx context.Context, utterance, conversationID string) (*protocol.Response, error) {
	payload := map[string]any{
		"voice_command":   utterance,
		"conversation_id": conversationID,
		"node_context":    c.node,
	}
	return c.post(ctx, "/api/v0/voice/command", payload)
}

// SendToolResults sends a batch of tool results (or a single synthetic
// validation answer) on the continue endpoint and returns the next
// response.
func (c *Client) SendToolResults(ctx context.Context, conversationID string, results []protocol.ToolResult) (*protocol.Response, error) {
	payload := map[string]any{
		"conversation_id": conversationID,
		"tool_results":    results,
	}
	return c.post(ctx, "/api/v0/voice/command/continue", payload)
}

func (c *Client) post(ctx context.Context, path string, payload any) (*protocol.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	var decoded protocol.Response
	err := c.breaker.Execute(func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(payload).
			SetResult(&decoded).
			Post(path)
		if err != nil {
			return err
		}
		if resp.IsError() {
			return fmt.Errorf("command center returned %s", resp.Status())
		}
		return nil
	})
	if c.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		c.metrics.RecordPeerCall(path, status, time.Since(start))
	}
	if err != nil {
		return nil, err
	}
	return &decoded, nil
}

// StartConversation registers the node's tools for a conversation.
// Best-effort: callers log failures and continue.
func (c *Client) StartConversation(ctx context.Context, conversationID string, schemas []types.Schema) error {
	names := make([]string, 0, len(schemas))
	for _, s := range schemas {
		names = append(names, s.Name)
	}
	payload := map[string]any{
		"conversation_id":    conversationID,
		"node_context":       c.node,
		"available_commands": schemas,
		"client_tools":       names,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/api/v0/conversation/start", body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.retrier.Do(req)
	if err != nil {
		return fmt.Errorf("conversation start failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("conversation start returned %s", resp.Status)
	}
	return nil
}
