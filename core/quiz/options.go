package quiz

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var optionDelimRegex = regexp.MustCompile(`\r?\n|[,;]`)

type (
	// Options is the shape the options field was found in.
	// Variants: ListOptions, MappingOptions, DelimitedOptions and NoOptions.
	Options interface {
		Render() []string
	}

	// ListOptions is an ordered JSON array of options.
	ListOptions []gjson.Result

	// MappingOptions is a JSON object of label -> option, e.g. {"A": "Glass"}.
	MappingOptions struct {
		Value gjson.Result
	}

	// DelimitedOptions is a single string holding all the options.
	DelimitedOptions string

	// NoOptions stands for a missing, null or unusable options field.
	NoOptions struct{}
)

// OptionsOf picks the Options variant for the value of an options field.
func OptionsOf(v gjson.Result) Options {
	switch {
	case v.IsArray():
		return ListOptions(v.Array())
	case v.IsObject():
		return MappingOptions{Value: v}
	case v.Type == gjson.String:
		return DelimitedOptions(v.Str)
	default:
		return NoOptions{}
	}
}

// Render maps each item to display text; single-pair objects become "<key>) <value>".
func (opts ListOptions) Render() []string {
	out := make([]string, 0, len(opts))
	for _, item := range opts {
		if item.IsObject() {
			out = append(out, firstPair(item))
			continue
		}
		out = append(out, text(item))
	}
	return compact(out)
}

// Render yields "<key>) <value>" for every pair, in the order of the source document.
func (opts MappingOptions) Render() []string {
	var out []string
	opts.Value.ForEach(func(key, value gjson.Result) bool {
		out = append(out, label(key.String(), value))
		return true
	})
	return compact(out)
}

// Render splits on newlines, commas and semicolons.
func (opts DelimitedOptions) Render() []string {
	return compact(optionDelimRegex.Split(string(opts), -1))
}

func (NoOptions) Render() []string {
	return []string{}
}

func firstPair(obj gjson.Result) string {
	var out string
	obj.ForEach(func(key, value gjson.Result) bool {
		out = label(key.String(), value)
		return false
	})
	return out
}

func label(key string, value gjson.Result) string {
	return strings.TrimSpace(strings.TrimSpace(key) + ") " + text(value))
}

// text coerces any JSON value to trimmed display text. null and missing values are empty.
func text(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return strings.TrimSpace(v.Str)
	default:
		return strings.TrimSpace(v.Raw)
	}
}
