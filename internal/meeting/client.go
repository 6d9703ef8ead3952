// Package meeting talks to the external meeting-room provider. A room is
// created exactly once per booking, at approval time, and the returned URLs
// are stored verbatim on the booking.
package meeting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Room holds the URL pair returned by the provider.
type Room struct {
	HostURL string `json:"host_url"`
	JoinURL string `json:"join_url"`
}

// RoomCreator is the collaborator interface the scheduling engine depends on.
type RoomCreator interface {
	CreateRoom(ctx context.Context, bookingID uint) (*Room, error)
}

// Client is the HTTP implementation of RoomCreator.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

type createRoomRequest struct {
	BookingID uint `json:"booking_id"`
}

func (c *Client) CreateRoom(ctx context.Context, bookingID uint) (*Room, error) {
	body, err := json.Marshal(createRoomRequest{BookingID: bookingID})
	if err != nil {
		return nil, fmt.Errorf("marshal room request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rooms", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build room request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("meeting api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("meeting api: unexpected status %d", resp.StatusCode)
	}

	var room Room
	if err := json.NewDecoder(resp.Body).Decode(&room); err != nil {
		return nil, fmt.Errorf("decode room response: %w", err)
	}
	if room.HostURL == "" || room.JoinURL == "" {
		return nil, fmt.Errorf("meeting api: incomplete room payload")
	}
	return &room, nil
}
