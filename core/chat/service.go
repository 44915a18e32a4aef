package chat

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/ecowaste/dashboard/core"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
)

type (
	// Backend is the remote chat assistant.
	Backend interface {
		SendChat(ctx context.Context, token string, msg Message) (Reply, error)
		ChatHistory(ctx context.Context, token string, limit int) (History, error)
		ClearChatHistory(ctx context.Context, token string) (Cleared, error)
		ChatStats(ctx context.Context, token string) (Stats, error)
	}

	Service struct {
		backend Backend
	}

	// SendRequest is a message typed by the user, with the guide it is about, if any.
	SendRequest struct {
		Message        string `json:"message" validate:"required,notblank,max=4000"`
		RecyclingGuide string `json:"recycling_guide"`
		WasteCategory  string `json:"waste_category"`
		IncludeHistory *bool  `json:"include_history"` // default: true
	}

	// Message is what the assistant receives.
	Message struct {
		Message        string  `json:"message"`
		RecyclingGuide *string `json:"recycling_guide"`
		WasteCategory  *string `json:"waste_category"`
		IncludeHistory bool    `json:"include_history"`
	}

	Reply struct {
		Response string   `json:"response"`
		Metadata Metadata `json:"metadata"`
	}

	Metadata struct {
		HasGuideContext bool   `json:"has_guide_context"`
		WasteCategory   string `json:"waste_category,omitempty"`
		UsedHistory     bool   `json:"used_history"`
	}

	// Interaction is one exchange of the history, oldest first.
	Interaction struct {
		ID                string `json:"_id,omitempty"`
		Timestamp         string `json:"timestamp,omitempty"`
		UserMessage       string `json:"user_message"`
		AssistantResponse string `json:"assistant_response"`
		RecyclingGuide    string `json:"recycling_guide,omitempty"`
	}

	History struct {
		History []Interaction `json:"history"`
		Stats   Stats         `json:"stats"`
	}

	Stats struct {
		TotalMessages int  `json:"total_messages"`
		HasHistory    bool `json:"has_history"`
	}

	Cleared struct {
		Message string `json:"message"`
	}

	HistoryQuery struct {
		Limit int `json:"limit" query:"limit" validate:"omitempty,min=1,max=100"`
	}
)

func (sr *SendRequest) Validate(validate *validator.Validate) error {
	sr.Message = core.CleanString(sr.Message)
	sr.RecyclingGuide = core.CleanString(sr.RecyclingGuide)
	sr.WasteCategory = core.CleanString(sr.WasteCategory)
	return validate.Struct(sr)
}

func (hq *HistoryQuery) Validate(validate *validator.Validate) error {
	if err := validate.Struct(hq); err != nil {
		return err
	}
	if hq.Limit == 0 {
		hq.Limit = DefaultHistoryLimit
	}
	return nil
}

func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// Send forwards a message to the assistant. Empty guide and category are sent as null.
func (svc *Service) Send(ctx context.Context, token string, req SendRequest) (Reply, error) {
	msg := Message{Message: req.Message, IncludeHistory: true}
	if req.IncludeHistory != nil {
		msg.IncludeHistory = *req.IncludeHistory
	}
	if req.RecyclingGuide != "" {
		msg.RecyclingGuide = &req.RecyclingGuide
	}
	if req.WasteCategory != "" {
		msg.WasteCategory = &req.WasteCategory
	}

	reply, err := svc.backend.SendChat(ctx, token, msg)
	return reply, errors.Wrap(err, "sending chat message")
}

// History returns the last limit interactions. limit is clamped to [1, MaxHistoryLimit];
// 0 means DefaultHistoryLimit.
func (svc *Service) History(ctx context.Context, token string, limit int) (History, error) {
	switch {
	case limit == 0:
		limit = DefaultHistoryLimit
	case limit < 1:
		limit = 1
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	h, err := svc.backend.ChatHistory(ctx, token, limit)
	if err != nil {
		return History{}, errors.Wrap(err, "fetching chat history")
	}
	if h.History == nil {
		h.History = []Interaction{}
	}
	return h, nil
}

func (svc *Service) Clear(ctx context.Context, token string) (Cleared, error) {
	c, err := svc.backend.ClearChatHistory(ctx, token)
	return c, errors.Wrap(err, "clearing chat history")
}

func (svc *Service) Stats(ctx context.Context, token string) (Stats, error) {
	s, err := svc.backend.ChatStats(ctx, token)
	return s, errors.Wrap(err, "fetching chat stats")
}
