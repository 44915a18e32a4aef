package quiz

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"
)

const fence = "```"

var langTagRegex = regexp.MustCompile(`^[A-Za-z][\w+.-]*`)

type (
	// Payload is the raw output of the quiz agent: either Structured or Text.
	Payload interface {
		isPayload()
	}

	// Structured is a payload that already arrived as JSON (object, array or scalar).
	Structured struct {
		Value gjson.Result
	}

	// Text is a payload that arrived as a string. It may hold JSON, fenced JSON or free text.
	Text string
)

func (Structured) isPayload() {}
func (Text) isPayload()       {}

// ParsePayload classifies the raw output field of an agent step.
// A JSON string becomes Text (unquoted), any other valid JSON is Structured
// and bytes that are not JSON at all are taken as Text.
func ParsePayload(raw []byte) Payload {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || !gjson.ValidBytes(trimmed) {
		return Text(raw)
	}
	res := gjson.ParseBytes(trimmed)
	if res.Type == gjson.String {
		return Text(res.Str)
	}
	return Structured{Value: res}
}

// StripFences removes a fenced code-block wrapper, with or without a language tag, and trims.
// When the block follows some preface text, the content of the first complete block is returned.
// Strings without a fence are only trimmed.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	start := strings.Index(s, fence)
	if start < 0 {
		return s
	}
	if start > 0 {
		end := strings.Index(s[start+len(fence):], fence)
		if end < 0 {
			return s
		}
		s = s[start : start+len(fence)+end+len(fence)]
	}

	body := s[len(fence):]
	if tag := langTagRegex.FindString(body); tag != "" && startsContent(body[len(tag):]) {
		body = body[len(tag):]
	}
	if end := strings.Index(body, fence); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// startsContent tells a language tag ("```json\n{") from fenced text ("```Glass, Metal```").
func startsContent(rest string) bool {
	if rest == "" {
		return true
	}
	r := rune(rest[0])
	return unicode.IsSpace(r) || r == '{' || r == '['
}
