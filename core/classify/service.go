package classify

import (
	"context"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/ecowaste/dashboard/core"
	"github.com/ecowaste/dashboard/core/orchestrator"
)

const (
	defaultItem     = "waste item"
	defaultCategory = "general"

	NoGuide     = "No recycling guide found."
	NoAwareness = "No awareness tip found."
)

var (
	// errors
	ErrNoClassification = errors.New("no classification received from backend")
)

type (
	// Backend is the part of the orchestrator the classifier and guide pages talk to.
	Backend interface {
		Handle(ctx context.Context, token string, req orchestrator.HandleRequest) (*orchestrator.HandleResponse, error)
		HandleImage(ctx context.Context, token string, img orchestrator.Image, needs ...string) (*orchestrator.HandleResponse, error)
	}

	Service struct {
		backend Backend
	}

	ClassifyRequest struct {
		Item string `json:"item" validate:"required,notblank"`
	}

	GuideRequest struct {
		Item     string `json:"item"`
		Category string `json:"category"`
		Location string `json:"location"`
	}

	// Classification is what the classifier agent made of an item.
	Classification struct {
		Item     string `json:"item,omitempty"`
		Category string `json:"category"`
		Details  string `json:"details,omitempty"`
		// Note is the responsible AI review of the answer, if any.
		Note string `json:"note,omitempty"`
	}

	// Guide is a recycling guide with an awareness tip.
	Guide struct {
		Item      string `json:"item"`
		Category  string `json:"category"`
		Recycling string `json:"recycling"`
		Awareness string `json:"awareness"`
		Found     bool   `json:"found"`
	}
)

func (cr *ClassifyRequest) Validate(validate *validator.Validate) error {
	cr.Item = core.CleanString(cr.Item)
	return validate.Struct(cr)
}

func (gr *GuideRequest) Clean() {
	gr.Item = core.CleanString(gr.Item)
	gr.Category = core.CleanString(gr.Category)
	gr.Location = core.CleanString(gr.Location)
	if gr.Item == "" {
		gr.Item = defaultItem
	}
	if gr.Category == "" {
		gr.Category = defaultCategory
	}
}

func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// ClassifyText runs the classifier agent on an item description.
func (svc *Service) ClassifyText(ctx context.Context, token string, req ClassifyRequest) (Classification, error) {
	resp, err := svc.backend.Handle(ctx, token, orchestrator.HandleRequest{
		Task:    orchestrator.TaskCustom,
		Need:    []string{orchestrator.NeedClassify},
		Payload: map[string]interface{}{"item": req.Item},
	})
	if err != nil {
		return Classification{}, errors.Wrap(err, "classifying item")
	}
	c, err := classification(resp)
	if err != nil {
		return Classification{}, err
	}
	c.Item = req.Item
	return c, nil
}

// ClassifyImage uploads an image for the classifier agent.
func (svc *Service) ClassifyImage(ctx context.Context, token, filename string, body io.Reader) (Classification, error) {
	resp, err := svc.backend.HandleImage(ctx, token, orchestrator.Image{Filename: filename, Body: body}, orchestrator.NeedClassify)
	if err != nil {
		return Classification{}, errors.Wrap(err, "classifying image")
	}
	return classification(resp)
}

// Guide asks for a recycling guide and an awareness tip for an item.
// Missing steps are replaced by placeholder texts.
func (svc *Service) Guide(ctx context.Context, token string, req GuideRequest) (Guide, error) {
	req.Clean()

	payload := map[string]interface{}{"item": req.Item, "category": req.Category}
	if req.Location != "" {
		payload["location"] = req.Location
	}
	resp, err := svc.backend.Handle(ctx, token, orchestrator.HandleRequest{
		Task:    orchestrator.TaskCustom,
		Need:    []string{orchestrator.NeedRecycle, orchestrator.NeedAwareness},
		Payload: payload,
	})
	if err != nil {
		return Guide{}, errors.Wrap(err, "requesting recycling guide")
	}

	g := Guide{Item: req.Item, Category: req.Category, Recycling: NoGuide, Awareness: NoAwareness}
	if step, ok := resp.Step(orchestrator.AgentRecycling); ok && !step.Empty() {
		g.Recycling = step.Text()
		g.Found = true
	}
	if step, ok := resp.Step(orchestrator.AgentAwareness); ok && !step.Empty() {
		g.Awareness = step.Text()
	}
	return g, nil
}

func classification(resp *orchestrator.HandleResponse) (Classification, error) {
	step, ok := resp.Step(orchestrator.AgentClassifier)
	if !ok || step.Empty() {
		return Classification{}, ErrNoClassification
	}

	var c Classification
	if v := gjson.ParseBytes(step.Output); v.IsObject() {
		for _, key := range []string{"category", "classification", "waste_category"} {
			if cat := v.Get(key); cat.Exists() && cat.String() != "" {
				c.Category = core.CleanString(cat.String())
				break
			}
		}
		c.Details = core.CleanString(v.Get("details").String())
	}
	if c.Category == "" {
		c.Category = step.Text()
	}
	if note, ok := resp.Step(orchestrator.AgentResponsibleAI); ok {
		c.Note = note.Text()
	}
	return c, nil
}
