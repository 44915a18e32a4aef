package logsvc

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecowaste/dashboard/core"
)

func TestConsoleLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	l := NewConsoleLogger(log.New(buf, "", 0), LevelInfo)

	l.Debug("hidden")
	l.Warn("inconsistent quiz", map[string]interface{}{"topic": "glass", "method": "regex"}, core.Person{ID: "u1"})
	l.Error("upstream", errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "WARN inconsistent quiz person=u1 method=regex topic=glass", lines[0])
	assert.Equal(t, "ERROR upstream", lines[1])
	assert.Equal(t, "boom", lines[2])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestConsoleLoggerMock(t *testing.T) {
	l := NewConsoleLoggerMock()
	err := errors.New("boom")

	l.Info("started")
	l.Error("failed", err, &core.Person{ID: "u1", Email: "a@b.c"}, core.Person{ID: "u2"})

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Level: LevelInfo, Message: "started", Args: []interface{}{}}, entries[0])
	assert.Equal(t, LevelError, entries[1].Level)
	assert.Equal(t, &core.Person{ID: "u1", Email: "a@b.c"}, entries[1].Person)
	assert.Equal(t, []interface{}{err}, entries[1].Args)
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "FATAL", LevelFatal.String())
}
