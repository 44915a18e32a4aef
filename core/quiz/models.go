package quiz

import "strings"

// MissingQuestion replaces the question of a payload nothing could be read from.
const MissingQuestion = "Question could not be parsed."

// Quiz is the canonical, renderable multiple-choice question.
// The answer endpoint consumes it verbatim, hence the snake_case field names.
type Quiz struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"required,min=1,dive,required"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// Available reports whether q can be rendered as a selectable question.
// A degenerate record (sentinel question or no options) is the "no question available" state.
func (q Quiz) Available() bool {
	question := strings.TrimSpace(q.Question)
	return question != "" && question != MissingQuestion && len(q.Options) > 0
}

// HasOption reports whether opt is one of the options, verbatim.
func (q Quiz) HasOption(opt string) bool {
	for _, o := range q.Options {
		if o == opt {
			return true
		}
	}
	return false
}

// complete reports whether every field of q was read.
func (q Quiz) complete() bool {
	return q.Question != MissingQuestion && len(q.Options) > 0 && q.CorrectAnswer != "" && q.Explanation != ""
}

// degenerate reports whether nothing at all was read into q.
func (q Quiz) degenerate() bool {
	return q.Question == MissingQuestion && len(q.Options) == 0 && q.CorrectAnswer == "" && q.Explanation == ""
}

// fill takes the fields q lacks from other.
func (q Quiz) fill(other Quiz) Quiz {
	if q.Question == MissingQuestion {
		q.Question = other.Question
	}
	if len(q.Options) == 0 {
		q.Options = other.Options
	}
	if q.CorrectAnswer == "" {
		q.CorrectAnswer = other.CorrectAnswer
	}
	if q.Explanation == "" {
		q.Explanation = other.Explanation
	}
	return q
}

func empty() Quiz {
	return finish(Quiz{})
}

// finish applies the record invariants every parse path ends with.
func finish(q Quiz) Quiz {
	q.Question = strings.TrimSpace(q.Question)
	if q.Question == "" {
		q.Question = MissingQuestion
	}
	q.Options = compact(q.Options)
	q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)
	q.Explanation = strings.TrimSpace(q.Explanation)
	return q
}

// compact trims options, drops empty ones and keeps the first of duplicates.
// The result is never nil so it encodes as [].
func compact(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		if _, dup := seen[it]; dup {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
