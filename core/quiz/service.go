package quiz

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/ecowaste/dashboard/core"
	"github.com/ecowaste/dashboard/core/orchestrator"
)

const defaultTopic = "recycling"

var (
	// errors
	ErrNoQuiz      = errors.New("no quiz data received from backend")
	ErrNoAwareness = errors.New("no awareness tip received from backend")

	errUnknownOption = "selected answer is not one of the options"
)

type (
	// Backend is the part of the orchestrator the quiz pages talk to.
	Backend interface {
		Handle(ctx context.Context, token string, req orchestrator.HandleRequest) (*orchestrator.HandleResponse, error)
		SubmitQuizAnswer(ctx context.Context, token string, req AnswerRequest) (*orchestrator.HandleResponse, error)
	}

	// Recorder counts how quizzes get parsed.
	Recorder interface {
		QuizParsed(method Method, issues []Issue)
	}

	Option func(*Service)

	Service struct {
		backend  Backend
		recorder Recorder
		log      core.Logger
		topic    string
	}

	// Fetched is a normalized quiz ready to render, with what was found wrong with it.
	Fetched struct {
		Quiz            Quiz    `json:"quiz"`
		Topic           string  `json:"topic"`
		Available       bool    `json:"available"`
		AnswerInOptions bool    `json:"answer_in_options"`
		ResolvedAnswer  string  `json:"resolved_answer,omitempty"`
		Issues          []Issue `json:"issues"`
		Method          Method  `json:"parse_method"`
	}

	// AnswerRequest is what the answer endpoint grades.
	AnswerRequest struct {
		QuizData       Quiz   `json:"quiz_data"`
		SelectedAnswer string `json:"selected_answer" validate:"required,notblank"`
	}

	// AnswerResult is the grading of an answer. Graded is false when the backend said nothing
	// about correctness.
	AnswerResult struct {
		IsCorrect     bool   `json:"is_correct"`
		Graded        bool   `json:"graded"`
		CorrectAnswer string `json:"correct_answer,omitempty"`
		Explanation   string `json:"explanation,omitempty"`
		PointsAwarded int64  `json:"points_awarded,omitempty"`
	}
)

func (ar *AnswerRequest) Validate(validate *validator.Validate) error {
	ar.SelectedAnswer = strings.TrimSpace(ar.SelectedAnswer)
	return validate.Struct(ar)
}

// WithRecorder counts every parsed quiz with rec.
func WithRecorder(rec Recorder) Option {
	return func(s *Service) { s.recorder = rec }
}

// WithLogger reports inconsistent quizzes to log.
func WithLogger(log core.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithDefaultTopic sets the topic asked for when none is given.
func WithDefaultTopic(topic string) Option {
	return func(s *Service) {
		if topic = core.CleanString(topic); topic != "" {
			s.topic = topic
		}
	}
}

func NewService(backend Backend, opts ...Option) *Service {
	s := &Service{backend: backend, topic: defaultTopic}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Inspect checks a parse result and packs it for rendering.
func Inspect(res Result) Fetched {
	issues := Check(res.Quiz)
	if issues == nil {
		issues = []Issue{}
	}
	f := Fetched{
		Quiz:            res.Quiz,
		Available:       res.Quiz.Available(),
		AnswerInOptions: res.Quiz.HasOption(res.Quiz.CorrectAnswer),
		Issues:          issues,
		Method:          res.Method,
	}
	if resolved, ok := Resolve(res.Quiz, res.Quiz.CorrectAnswer); ok {
		f.ResolvedAnswer = resolved
	}
	return f
}

// Fetch asks the quiz agent for a question on topic and normalizes it.
func (svc *Service) Fetch(ctx context.Context, token, topic string) (Fetched, error) {
	if topic = core.CleanString(topic); topic == "" {
		topic = svc.topic
	}

	resp, err := svc.backend.Handle(ctx, token, orchestrator.HandleRequest{
		Task:    orchestrator.TaskCustom,
		Need:    []string{orchestrator.NeedQuiz},
		Payload: map[string]interface{}{"topic": topic},
	})
	if err != nil {
		return Fetched{}, errors.Wrap(err, "requesting quiz")
	}
	step, ok := resp.Step(orchestrator.AgentQuiz)
	if !ok || step.Empty() {
		return Fetched{}, ErrNoQuiz
	}

	res := Parse(step.Output)
	f := Inspect(res)
	f.Topic = topic

	if svc.recorder != nil {
		svc.recorder.QuizParsed(res.Method, f.Issues)
	}
	if svc.log != nil && len(f.Issues) > 0 {
		svc.log.Warn("inconsistent quiz", map[string]interface{}{
			"topic":  topic,
			"method": res.Method,
			"issues": f.Issues,
		})
	}
	return f, nil
}

// Awareness asks the awareness agent for a message about topic and splits it into its parts.
func (svc *Service) Awareness(ctx context.Context, token, topic string) (Awareness, error) {
	payload := map[string]interface{}{}
	if topic = core.CleanString(topic); topic != "" {
		payload["context"] = topic
	}
	resp, err := svc.backend.Handle(ctx, token, orchestrator.HandleRequest{
		Task:    orchestrator.TaskAwareness,
		Payload: payload,
	})
	if err != nil {
		return Awareness{}, errors.Wrap(err, "requesting awareness tip")
	}
	step, ok := resp.Step(orchestrator.AgentAwareness)
	if !ok || step.Empty() {
		return Awareness{}, ErrNoAwareness
	}
	return ParseAwareness(step.Text()), nil
}

// Submit sends the selected answer for grading. Grading is left to the backend.
func (svc *Service) Submit(ctx context.Context, token string, req AnswerRequest) (AnswerResult, error) {
	req.SelectedAnswer = strings.TrimSpace(req.SelectedAnswer)
	if !req.QuizData.HasOption(req.SelectedAnswer) {
		return AnswerResult{}, core.NewValidationError(nil, core.FieldError{Field: "selected_answer", Error: errUnknownOption})
	}

	resp, err := svc.backend.SubmitQuizAnswer(ctx, token, req)
	if err != nil {
		return AnswerResult{}, errors.Wrap(err, "submitting quiz answer")
	}
	step, ok := resp.First()
	if !ok || step.Empty() {
		return AnswerResult{}, nil
	}
	return parseAnswerResult(step), nil
}

func parseAnswerResult(step orchestrator.Step) AnswerResult {
	v := gjson.ParseBytes(step.Output)
	if v.Type == gjson.String {
		v = gjson.Parse(StripFences(v.Str))
	}
	if !v.IsObject() {
		return AnswerResult{}
	}

	correct := v.Get("is_correct")
	return AnswerResult{
		IsCorrect:     correct.Bool(),
		Graded:        correct.Exists(),
		CorrectAnswer: text(v.Get("correct_answer")),
		Explanation:   text(v.Get("explanation")),
		PointsAwarded: v.Get("points_awarded").Int(),
	}
}
