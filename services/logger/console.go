package logsvc

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/ecowaste/dashboard/core"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// Entry is a logged message, kept by ConsoleLogger when recording.
type Entry struct {
	Level   Level
	Message string
	Person  *core.Person
	Args    []interface{}
}

// ConsoleLogger writes entries at or above its level to std only.
type ConsoleLogger struct {
	std    *log.Logger
	min    Level
	record bool

	mu      sync.Mutex
	entries []Entry
}

var _ core.Logger = (*ConsoleLogger)(nil)

func NewConsoleLogger(std *log.Logger, min Level) *ConsoleLogger {
	return &ConsoleLogger{std: std, min: min}
}

// NewConsoleLoggerMock keeps every entry in memory and prints nothing.
func NewConsoleLoggerMock() *ConsoleLogger {
	return &ConsoleLogger{min: LevelDebug, record: true}
}

// Entries returns what was logged so far, oldest first.
func (l *ConsoleLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

func (l *ConsoleLogger) log(level Level, msg string, args []interface{}) {
	if level < l.min {
		return
	}
	if l.record {
		person, rest := splitPerson(args)
		l.mu.Lock()
		l.entries = append(l.entries, Entry{Level: level, Message: msg, Person: person, Args: rest})
		l.mu.Unlock()
	}
	if l.std != nil {
		printEntry(l.std, level, msg, args)
	}
}

func (l *ConsoleLogger) Debug(msg string, args ...interface{}) { l.log(LevelDebug, msg, args) }
func (l *ConsoleLogger) Info(msg string, args ...interface{})  { l.log(LevelInfo, msg, args) }
func (l *ConsoleLogger) Warn(msg string, args ...interface{})  { l.log(LevelWarn, msg, args) }
func (l *ConsoleLogger) Error(msg string, args ...interface{}) { l.log(LevelError, msg, args) }

func (l *ConsoleLogger) Fatal(msg string, args ...interface{}) {
	l.log(LevelFatal, msg, args)
	if l.std != nil {
		l.std.Fatal(msg)
	}
}

func splitPerson(args []interface{}) (*core.Person, []interface{}) {
	var person *core.Person
	rest := make([]interface{}, 0, len(args))
	for _, arg := range args {
		switch p := arg.(type) {
		case core.Person:
			if person == nil {
				person = &p
			}
		case *core.Person:
			if person == nil && p != nil {
				person = p
			}
		default:
			rest = append(rest, arg)
		}
	}
	return person, rest
}

// printEntry writes `LEVEL msg key=value ...` then one line per error, with its stack.
func printEntry(std *log.Logger, level Level, msg string, args []interface{}) {
	person, rest := splitPerson(args)

	line := new(strings.Builder)
	_, _ = fmt.Fprintf(line, "%s %s", level, msg)
	if person != nil {
		_, _ = fmt.Fprintf(line, " person=%s", person.ID)
	}

	var errs []error
	for _, arg := range rest {
		switch a := arg.(type) {
		case error:
			errs = append(errs, a)
		case map[string]interface{}:
			keys := make([]string, 0, len(a))
			for k := range a {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				_, _ = fmt.Fprintf(line, " %s=%v", k, a[k])
			}
		default:
			_, _ = fmt.Fprintf(line, " %v", a)
		}
	}
	std.Println(line.String())
	for _, err := range errs {
		std.Printf("%+v\n", err)
	}
}
