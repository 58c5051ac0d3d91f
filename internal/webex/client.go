// Package webex is the chat platform REST client: room listing, message
// polling and lookup, and posting replies.
package webex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"webexbot/internal/domain"
)

// Client talks to the Webex REST API. All calls carry the bearer token.
type Client struct {
	base   string
	token  string
	http   *http.Client
	logger *slog.Logger
}

func NewClient(base, token string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		base:   base,
		token:  token,
		http:   httpClient,
		logger: logger,
	}
}

// Room is one chat space visible to the bot.
type Room struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// Message is a room message as returned by the platform.
type Message struct {
	ID          string    `json:"id"`
	RoomID      string    `json:"roomId"`
	PersonEmail string    `json:"personEmail"`
	Text        string    `json:"text"`
	Created     time.Time `json:"created"`
}

type roomList struct {
	Items []Room `json:"items"`
}

type messageList struct {
	Items []Message `json:"items"`
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	return c.http.Do(req)
}

// ListRooms returns the rooms the bot can see.
func (c *Client) ListRooms(ctx context.Context) ([]Room, error) {
	resp, err := c.get(ctx, c.base+"/rooms")
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("list rooms: HTTP %d: %s", resp.StatusCode, body)
	}
	var list roomList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("list rooms: decode: %w", err)
	}
	return list.Items, nil
}

// LatestMessage polls the single most recent message in a room. Returns
// (nil, nil) when the room has no messages yet.
func (c *Client) LatestMessage(ctx context.Context, roomID string) (*Message, error) {
	q := url.Values{}
	q.Set("roomId", roomID)
	q.Set("max", "1")

	resp, err := c.get(ctx, c.base+"/messages?"+q.Encode())
	if err != nil {
		return nil, &domain.IngestionError{Op: "poll", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("poll returned non-OK", "status", resp.StatusCode, "body", string(body))
		return nil, &domain.IngestionError{Op: "poll", Status: resp.StatusCode}
	}
	var list messageList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, &domain.IngestionError{Op: "poll", Err: err}
	}
	if len(list.Items) == 0 {
		return nil, nil
	}
	return &list.Items[0], nil
}

// GetMessage fetches one message by id. Webhook pushes carry only a message
// reference; the body has to be fetched separately.
func (c *Client) GetMessage(ctx context.Context, id string) (*Message, error) {
	resp, err := c.get(ctx, c.base+"/messages/"+url.PathEscape(id))
	if err != nil {
		return nil, &domain.IngestionError{Op: "fetch", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("message fetch returned non-OK", "id", id, "status", resp.StatusCode, "body", string(body))
		return nil, &domain.IngestionError{Op: "fetch", Status: resp.StatusCode}
	}
	var msg Message
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return nil, &domain.IngestionError{Op: "fetch", Err: err}
	}
	return &msg, nil
}

type postBody struct {
	RoomID   string `json:"roomId"`
	Text     string `json:"text,omitempty"`
	Markdown string `json:"markdown,omitempty"`
}

// Send posts a reply to a room. Markdown-format messages go out in the
// platform's markdown field, everything else as plain text.
func (c *Client) Send(ctx context.Context, msg domain.OutboundMessage) error {
	body := postBody{RoomID: msg.RoomID}
	if msg.Format == domain.FormatMarkdown {
		body.Markdown = msg.Text
	} else {
		body.Text = msg.Text
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return &domain.SendError{RoomID: msg.RoomID, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/messages", bytes.NewReader(payload))
	if err != nil {
		return &domain.SendError{RoomID: msg.RoomID, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.SendError{RoomID: msg.RoomID, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("message post returned non-OK", "room", msg.RoomID, "status", resp.StatusCode, "body", string(respBody))
		return &domain.SendError{RoomID: msg.RoomID, Status: resp.StatusCode}
	}
	return nil
}
