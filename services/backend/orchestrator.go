package backendsvc

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ecowaste/dashboard/core/chat"
	"github.com/ecowaste/dashboard/core/classify"
	"github.com/ecowaste/dashboard/core/orchestrator"
	"github.com/ecowaste/dashboard/core/quiz"
	"github.com/ecowaste/dashboard/core/rewards"
)

const (
	handlePath      = "/api/orchestrator/handle"
	handleImagePath = "/api/orchestrator/handle/image"
	quizAnswerPath  = "/api/orchestrator/quiz/answer"
	healthPath      = "/health"
)

var (
	_ orchestrator.Client = (*Client)(nil)
	_ quiz.Backend        = (*Client)(nil)
	_ classify.Backend    = (*Client)(nil)
	_ chat.Backend        = (*Client)(nil)
	_ rewards.Backend     = (*Client)(nil)
)

// handleReply is a HandleResponse that may carry an error instead of steps.
type handleReply struct {
	orchestrator.HandleResponse
	ErrorType string          `json:"error_type"`
	Detail    json.RawMessage `json:"detail"`
}

func (r *handleReply) response() (*orchestrator.HandleResponse, error) {
	if r.ErrorType != "" && len(r.Steps) == 0 {
		return nil, &APIError{Status: http.StatusUnprocessableEntity, Detail: r.ErrorType + ": " + gjson.ParseBytes(r.Detail).String()}
	}
	return &r.HandleResponse, nil
}

func (c *Client) Handle(ctx context.Context, token string, req orchestrator.HandleRequest) (*orchestrator.HandleResponse, error) {
	if req.Payload == nil {
		req.Payload = map[string]interface{}{}
	}
	var reply handleReply
	if err := c.do(c.request(ctx, token), http.MethodPost, handlePath, req, &reply); err != nil {
		return nil, err
	}
	return reply.response()
}

// HandleImage uploads img as the multipart "file" field.
func (c *Client) HandleImage(ctx context.Context, token string, img orchestrator.Image, needs ...string) (*orchestrator.HandleResponse, error) {
	req := c.request(ctx, token).SetFileReader("file", img.Filename, img.Body)
	if len(needs) > 0 {
		req.SetQueryParam("needs", strings.Join(needs, ","))
	}
	var reply handleReply
	if err := c.do(req, http.MethodPost, handleImagePath, nil, &reply); err != nil {
		return nil, err
	}
	return reply.response()
}

func (c *Client) SubmitQuizAnswer(ctx context.Context, token string, req quiz.AnswerRequest) (*orchestrator.HandleResponse, error) {
	var reply handleReply
	if err := c.do(c.request(ctx, token), http.MethodPost, quizAnswerPath, req, &reply); err != nil {
		return nil, err
	}
	return reply.response()
}

func (c *Client) Health(ctx context.Context) (*orchestrator.Health, error) {
	var h orchestrator.Health
	if err := c.do(c.request(ctx, ""), http.MethodGet, healthPath, nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}
