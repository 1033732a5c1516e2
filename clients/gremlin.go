package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"hotel-review-graphrag/config"
	"hotel-review-graphrag/errors"
	"hotel-review-graphrag/services"
)

// mimeType is the Gremlin Server message serialization. The frame is binary:
// one length byte, the mime type, then the JSON payload.
const mimeType = "application/vnd.gremlin-v2.0+json"

// GremlinClient submits traversals to a Gremlin Server over websocket.
type GremlinClient interface {
	Submit(ctx context.Context, query string) ([]interface{}, error)
	Ping(ctx context.Context) error
	Close() error
}

// gremlinRequest is the Gremlin Server eval message.
type gremlinRequest struct {
	RequestID string                 `json:"requestId"`
	Op        string                 `json:"op"`
	Processor string                 `json:"processor"`
	Args      map[string]interface{} `json:"args"`
}

// gremlinResponse is the Gremlin Server response envelope.
type gremlinResponse struct {
	RequestID string `json:"requestId"`
	Status    struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"status"`
	Result struct {
		Data []interface{} `json:"data"`
	} `json:"result"`
}

// Gremlin Server status codes.
const (
	statusSuccess        = 200
	statusNoContent      = 204
	statusPartialContent = 206
)

// WebsocketGremlinClient implements GremlinClient over one websocket
// connection. Requests are serialized on the connection; the circuit breaker
// rejects traffic while the server is failing.
type WebsocketGremlinClient struct {
	cfg     *config.GraphConfig
	logger  services.Logger
	breaker *errors.CircuitBreaker
	retry   *errors.RetryConfig

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewGremlinClient creates a client for the configured Gremlin Server. The
// connection is established lazily on first use.
func NewGremlinClient(cfg *config.GraphConfig, logger services.Logger) *WebsocketGremlinClient {
	if logger == nil {
		logger = services.NewDefaultLogger()
	}
	return &WebsocketGremlinClient{
		cfg:    cfg,
		logger: logger.With(services.String("component", "gremlin_client")),
		breaker: errors.NewCircuitBreaker(&errors.CircuitBreakerConfig{
			FailureThreshold: 5,
			ResetTimeout:     30 * time.Second,
			MaxRequests:      2,
		}),
		retry: errors.GremlinRetryConfig(),
	}
}

// Submit evaluates one traversal and returns its result rows. Transient
// failures (lost connections, server timeouts) are retried with backoff; a
// traversal the server rejects is not. The breaker sees the net outcome, so
// a request that succeeds on a retry does not count against it.
func (c *WebsocketGremlinClient) Submit(ctx context.Context, query string) ([]interface{}, error) {
	var rows []interface{}
	err := c.breaker.Execute(ctx, func() error {
		var submitErr error
		rows, submitErr = errors.ExecuteWithResult(ctx, c.retry, func() ([]interface{}, error) {
			return c.submit(ctx, query)
		})
		return submitErr
	})
	return rows, err
}

// Ping verifies connectivity with a trivial traversal.
func (c *WebsocketGremlinClient) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, c.cfg.PingTimeout)
	defer cancel()

	_, err := c.submit(pingCtx, "g.inject(0)")
	return err
}

// Close shuts the websocket connection down.
func (c *WebsocketGremlinClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *WebsocketGremlinClient) submit(ctx context.Context, query string) ([]interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, err := c.connLocked(ctx)
	if err != nil {
		return nil, err
	}

	request := gremlinRequest{
		RequestID: uuid.New().String(),
		Op:        "eval",
		Processor: "",
		Args: map[string]interface{}{
			"gremlin":  query,
			"language": "gremlin-groovy",
			"aliases":  map[string]string{"g": c.cfg.TraversalName},
		},
	}

	frame, err := encodeFrame(request)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(c.cfg.RequestTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	conn.SetWriteDeadline(deadline)
	if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		c.dropConnLocked()
		return nil, errors.NewNetworkError(
			errors.ErrCodeNetworkConnection,
			"Failed to send Gremlin request",
			err,
		)
	}

	var rows []interface{}
	for {
		if err := conn.SetReadDeadline(deadline); err != nil {
			c.dropConnLocked()
			return nil, errors.NewNetworkError(
				errors.ErrCodeNetworkConnection,
				"Failed to arm Gremlin read deadline",
				err,
			)
		}

		_, payload, err := conn.ReadMessage()
		if err != nil {
			c.dropConnLocked()
			return nil, errors.NewTimeoutError(
				errors.ErrCodeGremlinTimeout,
				"Gremlin Server did not respond in time",
				err,
			)
		}

		var response gremlinResponse
		if err := json.Unmarshal(payload, &response); err != nil {
			c.dropConnLocked()
			return nil, errors.NewInternalError(
				errors.ErrCodeSerializationError,
				"Failed to decode Gremlin response",
				err,
			)
		}

		// Responses for other requests cannot appear: submissions are
		// serialized on the connection.
		if response.RequestID != request.RequestID {
			continue
		}

		switch response.Status.Code {
		case statusPartialContent:
			rows = append(rows, response.Result.Data...)
		case statusSuccess:
			rows = append(rows, response.Result.Data...)
			return rows, nil
		case statusNoContent:
			return rows, nil
		default:
			// A rejected traversal fails identically on every attempt.
			rejection := errors.NewDatabaseError(
				errors.ErrCodeGremlinQuery,
				fmt.Sprintf("Gremlin Server rejected the traversal: %s", response.Status.Message),
				nil,
			)
			rejection.Retryable = false
			return nil, rejection
		}
	}
}

// connLocked returns the live connection, dialing if needed. Caller holds mu.
func (c *WebsocketGremlinClient) connLocked(ctx context.Context) (*websocket.Conn, error) {
	if c.conn != nil {
		return c.conn, nil
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: c.cfg.RequestTimeout,
	}
	conn, resp, err := dialer.DialContext(ctx, c.cfg.Endpoint, http.Header{})
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		return nil, errors.NewDatabaseError(
			errors.ErrCodeGremlinConnection,
			fmt.Sprintf("Failed to connect to Gremlin Server (HTTP %d)", status),
			err,
		)
	}

	c.logger.Info("connected to gremlin server",
		services.String("endpoint", c.cfg.Endpoint))
	c.conn = conn
	return conn, nil
}

// dropConnLocked discards a broken connection so the next call redials.
// Caller holds mu.
func (c *WebsocketGremlinClient) dropConnLocked() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// encodeFrame wraps the request JSON in the Gremlin Server binary frame.
func encodeFrame(request gremlinRequest) ([]byte, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, errors.NewInternalError(
			errors.ErrCodeSerializationError,
			"Failed to marshal Gremlin request",
			err,
		)
	}

	frame := make([]byte, 0, 1+len(mimeType)+len(payload))
	frame = append(frame, byte(len(mimeType)))
	frame = append(frame, mimeType...)
	frame = append(frame, payload...)
	return frame, nil
}
