package orchestrator

import (
	"context"
	"encoding/json"
	"io"
	"strings"
)

// Agents
const (
	AgentClassifier    = "classifier"
	AgentRecycling     = "recycling"
	AgentAwareness     = "awareness"
	AgentQuiz          = "quiz"
	AgentResponsibleAI = "responsible_ai"
)

// Tasks
const (
	TaskCustom    = "custom"
	TaskClassify  = "classify"
	TaskRecycle   = "recycle"
	TaskAwareness = "awareness"
	TaskQuiz      = "quiz"
)

// Needs of a custom task
const (
	NeedClassify  = "classify"
	NeedRecycle   = "recycle"
	NeedAwareness = "awareness"
	NeedQuiz      = "quiz"
)

type (
	// HandleRequest asks the orchestrator to run a task through one or more agents.
	HandleRequest struct {
		Task    string                 `json:"task"`
		Need    []string               `json:"need,omitempty"`
		Payload map[string]interface{} `json:"payload"`
	}

	// HandleResponse is the sequence of agent steps the orchestrator ran.
	HandleResponse struct {
		Task  string `json:"task,omitempty"`
		Steps []Step `json:"steps"`
	}

	// Step is the output of one agent. Output is kept raw: agents answer
	// with strings, objects or strings holding JSON.
	Step struct {
		Agent  string          `json:"agent"`
		Output json.RawMessage `json:"output"`
	}

	// Image is an image to classify.
	Image struct {
		Filename string
		Body     io.Reader
	}

	// Health is the status reported by the backend.
	Health struct {
		Status  string `json:"status"`
		Service string `json:"service,omitempty"`
	}

	// Client is the remote orchestrator.
	Client interface {
		Handle(ctx context.Context, token string, req HandleRequest) (*HandleResponse, error)
		HandleImage(ctx context.Context, token string, img Image, needs ...string) (*HandleResponse, error)
		Health(ctx context.Context) (*Health, error)
	}
)

// Step returns the first step run by agent, ignoring case.
func (r *HandleResponse) Step(agent string) (Step, bool) {
	if r == nil {
		return Step{}, false
	}
	for _, s := range r.Steps {
		if strings.EqualFold(strings.TrimSpace(s.Agent), agent) {
			return s, true
		}
	}
	return Step{}, false
}

// First returns the first step, whatever its agent.
func (r *HandleResponse) First() (Step, bool) {
	if r == nil || len(r.Steps) == 0 {
		return Step{}, false
	}
	return r.Steps[0], true
}

// Empty reports whether the step carries no output at all.
func (s Step) Empty() bool {
	out := strings.TrimSpace(string(s.Output))
	return out == "" || out == "null" || out == `""`
}

// Text returns the output as display text: strings are unquoted, anything else is raw JSON.
func (s Step) Text() string {
	if s.Empty() {
		return ""
	}
	var str string
	if err := json.Unmarshal(s.Output, &str); err == nil {
		return strings.TrimSpace(str)
	}
	return strings.TrimSpace(string(s.Output))
}
