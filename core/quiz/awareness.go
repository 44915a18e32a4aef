package quiz

import (
	"bufio"
	"strings"
)

// awareness message labels
const (
	labelFact     = "fact"
	labelTip      = "tip"
	labelQuestion = "quiz question"
	labelOptions  = "quiz options"
	labelAnswer   = "quiz answer"
)

// Awareness is a plain text awareness message split into its parts.
type Awareness struct {
	Fact string `json:"fact"`
	Tip  string `json:"tip"`
	Quiz Quiz   `json:"quiz"`
}

// ParseAwareness reads a labelled awareness message:
//
//	Fact: ...
//	Tip: ...
//	Quiz Question: ...
//	Quiz Options: A) ... | B) ... | C) ...
//	Quiz Answer: ...
//
// Labels are matched case-insensitively and may be wrapped in markdown emphasis.
// The first occurrence of a label wins; unlabelled lines are ignored.
func ParseAwareness(msg string) Awareness {
	fields := make(map[string]string, 5)

	scanner := bufio.NewScanner(strings.NewReader(msg))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.Trim(strings.TrimSpace(key), "*_#- "))
		value = strings.TrimSpace(strings.Trim(strings.TrimSpace(value), "*_"))
		if _, seen := fields[key]; seen {
			continue
		}
		switch key {
		case labelFact, labelTip, labelQuestion, labelOptions, labelAnswer:
			fields[key] = value
		}
	}

	return Awareness{
		Fact: fields[labelFact],
		Tip:  fields[labelTip],
		Quiz: finish(Quiz{
			Question:      fields[labelQuestion],
			Options:       awarenessOptions(fields[labelOptions]),
			CorrectAnswer: fields[labelAnswer],
		}),
	}
}

// awarenessOptions splits on pipes when there are any, so "A) 1,000 years" stays whole.
func awarenessOptions(s string) []string {
	if strings.Contains(s, "|") {
		return compact(strings.Split(s, "|"))
	}
	return DelimitedOptions(s).Render()
}
