package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"report-bot-be/internal/dto"
)

// Client talks to the chat platform messaging API: replies to events and
// streams inbound attachment content. A reply token is single use, so every
// inbound event gets exactly one Reply call.
type Client struct {
	apiBaseURL     string // message endpoints
	contentBaseURL string // attachment content endpoints
	channelToken   string
	httpClient     *http.Client
}

func NewClient(apiBaseURL, contentBaseURL, channelToken string) *Client {
	return &Client{
		apiBaseURL:     apiBaseURL,
		contentBaseURL: contentBaseURL,
		channelToken:   channelToken,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
	}
}

type replyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []dto.Message `json:"messages"`
}

// Reply sends one message group back on the reply token.
func (c *Client) Reply(ctx context.Context, replyToken string, messages []dto.Message) error {
	payload, err := json.Marshal(replyRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiBaseURL+"/v2/bot/message/reply", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.channelToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("chat reply failed: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}

// Content opens the attachment byte stream for an inbound message. The caller
// owns the ReadCloser.
func (c *Client) Content(ctx context.Context, messageID string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/v2/bot/message/%s/content", c.contentBaseURL, messageID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.channelToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("chat content fetch failed: status=%d", resp.StatusCode)
	}
	return resp.Body, nil
}
