package backendsvc

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ecowaste/dashboard/core/chat"
)

const (
	chatPath        = "/api/chat/chat"
	chatHistoryPath = "/api/chat/chat/history"
	chatStatsPath   = "/api/chat/chat/stats"
)

func (c *Client) SendChat(ctx context.Context, token string, msg chat.Message) (chat.Reply, error) {
	var reply chat.Reply
	err := c.do(c.request(ctx, token), http.MethodPost, chatPath, msg, &reply)
	return reply, err
}

func (c *Client) ChatHistory(ctx context.Context, token string, limit int) (chat.History, error) {
	var h chat.History
	req := c.request(ctx, token).SetQueryParam("limit", strconv.Itoa(limit))
	err := c.do(req, http.MethodGet, chatHistoryPath, nil, &h)
	return h, err
}

func (c *Client) ClearChatHistory(ctx context.Context, token string) (chat.Cleared, error) {
	var cl chat.Cleared
	err := c.do(c.request(ctx, token), http.MethodDelete, chatHistoryPath, nil, &cl)
	return cl, err
}

func (c *Client) ChatStats(ctx context.Context, token string) (chat.Stats, error) {
	var s chat.Stats
	err := c.do(c.request(ctx, token), http.MethodGet, chatStatsPath, nil, &s)
	return s, err
}
