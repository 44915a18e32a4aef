package quiz

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Method names the step of the fallback chain a quiz was read with.
type Method string

const (
	MethodStructured Method = "structured" // payload was already JSON
	MethodJSON       Method = "json"       // text payload holding strict JSON
	MethodEmbedded   Method = "embedded"   // JSON object surrounded by other text
	MethodRegex      Method = "regex"      // field by field extraction
)

// maxDepth bounds unwrapping of JSON strings that encode JSON again.
const maxDepth = 3

// Result is a normalized quiz and the way it was obtained.
type Result struct {
	Quiz   Quiz
	Method Method
}

// Normalize turns a raw agent output into a canonical Quiz. It never fails:
// a payload nothing can be read from yields the sentinel question and no options.
func Normalize(raw []byte) Quiz {
	return Parse(raw).Quiz
}

// NormalizeText is Normalize for a payload known to be text.
func NormalizeText(s string) Quiz {
	return ParseText(s).Quiz
}

// Parse runs the fallback chain on a raw agent output.
func Parse(raw []byte) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Quiz: empty(), Method: MethodRegex}
		}
	}()

	switch p := ParsePayload(raw).(type) {
	case Structured:
		return Result{Quiz: fromJSON(p.Value), Method: MethodStructured}
	case Text:
		return parseText(string(p), 0)
	}
	return Result{Quiz: empty(), Method: MethodRegex}
}

// ParseText runs the text part of the fallback chain.
func ParseText(s string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Quiz: empty(), Method: MethodRegex}
		}
	}()
	return parseText(s, 0)
}

func parseText(s string, depth int) Result {
	cleaned := StripFences(s)

	if gjson.Valid(cleaned) {
		v := gjson.Parse(cleaned)
		if v.Type == gjson.String && depth < maxDepth {
			return parseText(v.Str, depth+1)
		}
		return Result{Quiz: fromJSON(v), Method: MethodJSON}
	}
	if obj, ok := embeddedObject(cleaned); ok {
		q := fromJSON(obj)
		if q.complete() {
			return Result{Quiz: q, Method: MethodEmbedded}
		}
		// the object may be unrelated to the quiz fields around it
		found := extract(cleaned)
		if q.degenerate() {
			return Result{Quiz: found, Method: MethodRegex}
		}
		return Result{Quiz: q.fill(found), Method: MethodEmbedded}
	}
	return Result{Quiz: extract(cleaned), Method: MethodRegex}
}

// embeddedObject finds the outermost JSON object inside s, if it is valid on its own.
func embeddedObject(s string) (gjson.Result, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return gjson.Result{}, false
	}
	candidate := s[start : end+1]
	if !gjson.Valid(candidate) {
		return gjson.Result{}, false
	}
	return gjson.Parse(candidate), true
}

func fromJSON(v gjson.Result) Quiz {
	if !v.IsObject() {
		return empty()
	}
	return finish(Quiz{
		Question:      text(lastField(v, "question")),
		Options:       OptionsOf(lastField(v, "options")).Render(),
		CorrectAnswer: text(lastField(v, "correct_answer")),
		Explanation:   text(lastField(v, "explanation")),
	})
}

// lastField is the value of the last key of obj named key, as JSON decoders resolve duplicates.
func lastField(obj gjson.Result, key string) gjson.Result {
	var out gjson.Result
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.Str == key {
			out = v
		}
		return true
	})
	return out
}
