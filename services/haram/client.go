package haram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"haram/models"
	"haram/services/reservation"
)

// envelope is the response wrapper every Haram endpoint uses.
type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to the Haram backend. It satisfies reservation.Repository.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

var _ reservation.Repository = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.Named("haram"),
	}
}

// FetchReservationAvailability loads the schedule and policies of one room.
func (c *Client) FetchReservationAvailability(ctx context.Context, roomSeq int) (*models.ReservationAvailability, error) {
	var out models.ReservationAvailability
	if err := c.do(ctx, routeReservationAvailability(roomSeq), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitReservation books the requested slots.
func (c *Client) SubmitReservation(ctx context.Context, roomSeq int, req models.ReserveStudyRoomRequest) error {
	return c.do(ctx, routeReserveStudyRoom(roomSeq), req, nil)
}

// FindRoom returns the room info of roomSeq.
func (c *Client) FindRoom(ctx context.Context, roomSeq int) (*models.RoomResponse, error) {
	var out models.RoomResponse
	if err := c.do(ctx, routeRoomInfo(roomSeq), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListRooms(ctx context.Context) ([]models.RoomResponse, error) {
	var out []models.RoomResponse
	if err := c.do(ctx, routeAllRooms(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, r route, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s body: %w", r.path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", r.path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := AccessTokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("Haram request failed",
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.Error(err),
		)
		return reservation.NewNetworkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return reservation.NewNetworkError(err)
	}

	c.logger.Debug("Haram request completed",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := upstreamMessage(raw, resp.Status)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return reservation.NewUnauthorizedError(msg)
		}
		c.logger.Warn("Haram returned non-2xx status",
			zap.String("path", r.path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
		)
		return reservation.NewRequestFailedError(resp.StatusCode, msg)
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return reservation.NewDecodingError(err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return reservation.NewDecodingError(fmt.Errorf("%s: empty data", r.path))
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return reservation.NewDecodingError(err)
	}
	return nil
}

// upstreamMessage extracts the envelope message from an error body, falling
// back to the HTTP status text.
func upstreamMessage(raw []byte, status string) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return status
}
