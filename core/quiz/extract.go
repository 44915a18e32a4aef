package quiz

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	questionRegex    = fieldRegex("question")
	answerRegex      = fieldRegex("correct_answer")
	explanationRegex = fieldRegex("explanation")
	optionsRegex     = regexp.MustCompile(`(?s)"options"\s*:\s*\[(.*?)\]`)
	optionSplitRegex = regexp.MustCompile(`"\s*,\s*"`)

	optionJunk = strings.NewReplacer(`"`, "", "[", "", "]", "")
)

func fieldRegex(name string) *regexp.Regexp {
	return regexp.MustCompile(`"` + name + `"\s*:\s*"((?:[^"\\]|\\.)*)"`)
}

// extract reads each field of a broken JSON document on its own.
// A field that cannot be found is left empty.
func extract(s string) Quiz {
	return finish(Quiz{
		Question:      extractString(questionRegex, s),
		Options:       extractOptions(s),
		CorrectAnswer: extractString(answerRegex, s),
		Explanation:   extractString(explanationRegex, s),
	})
}

func extractString(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(unescape(m[1]))
}

func extractOptions(s string) []string {
	m := optionsRegex.FindStringSubmatch(s)
	if m == nil {
		return []string{}
	}
	if list := "[" + m[1] + "]"; gjson.Valid(list) {
		return ListOptions(gjson.Parse(list).Array()).Render()
	}

	parts := optionSplitRegex.Split(m[1], -1)
	for i, p := range parts {
		parts[i] = strings.Trim(optionJunk.Replace(p), " \t\r\n,")
	}
	return compact(parts)
}

// unescape decodes JSON escapes; text that does not decode is kept as found.
func unescape(s string) string {
	var out string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &out); err != nil {
		return s
	}
	return out
}
