package quiz

import (
	"regexp"
	"strings"
)

// Issue is a consistency problem found in a normalized quiz.
type Issue string

const (
	IssueNoQuestion         Issue = "question_missing"
	IssueNoOptions          Issue = "options_missing"
	IssueNoAnswer           Issue = "correct_answer_missing"
	IssueAnswerNotInOptions Issue = "correct_answer_not_in_options"
)

// "B) Green", "b. Green", "2: Green"
var optionLabelRegex = regexp.MustCompile(`^\s*([A-Za-z]|\d{1,2})\s*[).:]\s*(.*)$`)

// Check lists the issues of q. The correct answer is compared to the options verbatim,
// so an answer "Green" next to an option "B) Green" is reported.
func Check(q Quiz) []Issue {
	var issues []Issue
	if strings.TrimSpace(q.Question) == "" || q.Question == MissingQuestion {
		issues = append(issues, IssueNoQuestion)
	}
	if len(q.Options) == 0 {
		issues = append(issues, IssueNoOptions)
	}
	switch {
	case q.CorrectAnswer == "":
		issues = append(issues, IssueNoAnswer)
	case len(q.Options) > 0 && !q.HasOption(q.CorrectAnswer):
		issues = append(issues, IssueAnswerNotInOptions)
	}
	return issues
}

// Resolve finds the option answer most likely refers to: the option itself, the same
// text ignoring case, the same text ignoring an "X)" label, or a bare label such as "B".
func Resolve(q Quiz, answer string) (string, bool) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", false
	}
	if q.HasOption(answer) {
		return answer, true
	}
	for _, opt := range q.Options {
		if strings.EqualFold(opt, answer) {
			return opt, true
		}
	}

	aLabel, aValue := splitLabel(answer)
	bare := aLabel == "" && isBareLabel(answer)
	for _, opt := range q.Options {
		oLabel, oValue := splitLabel(opt)
		switch {
		case aValue != "" && strings.EqualFold(aValue, oValue):
			return opt, true
		case bare && oLabel != "" && strings.EqualFold(answer, oLabel):
			return opt, true
		case aLabel != "" && aValue == "" && strings.EqualFold(aLabel, oLabel):
			return opt, true
		}
	}
	return "", false
}

// splitLabel separates "B) Green" into "B" and "Green". Text without a label is all value.
func splitLabel(s string) (string, string) {
	m := optionLabelRegex.FindStringSubmatch(s)
	if m == nil {
		return "", strings.TrimSpace(s)
	}
	return strings.ToUpper(m[1]), strings.TrimSpace(m[2])
}

func isBareLabel(s string) bool {
	if len(s) == 1 {
		c := s[0]
		return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
	}
	return len(s) == 2 && s[0] >= '0' && s[0] <= '9' && s[1] >= '0' && s[1] <= '9'
}
