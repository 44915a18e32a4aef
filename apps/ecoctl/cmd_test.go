package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecowaste/dashboard/core/quiz"
	backendsvc "github.com/ecowaste/dashboard/services/backend"
	"github.com/ecowaste/dashboard/tests"
)

const glassQuiz = `{"question":"Which bin for glass?","options":["Blue","Green"],"correct_answer":"Green"}`

func setup(t *testing.T, stdin string) (*commandLine, *bytes.Buffer, *testutil.Upstream) {
	upstream := testutil.NewUpstream(t)
	client := backendsvc.New(upstream.URL)
	out := new(bytes.Buffer)

	// start CLI
	return &commandLine{
		quizSvc:  quiz.NewService(client),
		upstream: client,
		in:       strings.NewReader(stdin),
		out:      out,
	}, out, upstream
}

type cliTest struct {
	name       string
	args       []string // without program name
	stdin      string
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_run(t *testing.T) {
	tests := []cliTest{
		{name: "no command", args: []string{}, wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "bad flag", args: []string{"normalize", "-nope"}, wantErr: errHelp},
		{name: "missing file", args: []string{"normalize", "-file", "does-not-exist.json"}, wantErrStr: "open does-not-exist.json: no such file or directory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, _, _ := setup(t, tt.stdin)
			err := cli.run(append([]string{"ecoctl"}, tt.args...))
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
			} else {
				assert.EqualError(t, err, tt.wantErrStr)
			}
		})
	}
}

func Test_commandLine_normalize(t *testing.T) {
	file := filepath.Join(t.TempDir(), "quiz.txt")
	require.NoError(t, os.WriteFile(file, []byte("```json\n"+glassQuiz+"\n```"), 0o600))

	tests := []cliTest{
		{name: "stdin", args: []string{"normalize"}, stdin: "Here you go: " + glassQuiz, extra: quiz.MethodEmbedded},
		{name: "file", args: []string{"normalize", "-file", file}, extra: quiz.MethodJSON},
		{name: "dash is stdin", args: []string{"normalize", "-file", "-"}, stdin: glassQuiz, extra: quiz.MethodStructured},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, out, _ := setup(t, tt.stdin)
			require.NoError(t, cli.run(append([]string{"ecoctl"}, tt.args...)))

			var got quiz.Fetched
			require.NoError(t, json.Unmarshal(out.Bytes(), &got))
			assert.Equal(t, []string{"Blue", "Green"}, got.Quiz.Options)
			assert.True(t, got.Available)
			assert.True(t, got.AnswerInOptions)
			assert.Equal(t, tt.extra, got.Method)
		})
	}
}

func Test_commandLine_awareness(t *testing.T) {
	cli, out, _ := setup(t, "Fact: Glass is endlessly recyclable.\nTip: Rinse jars.\n")
	require.NoError(t, cli.run([]string{"ecoctl", "awareness"}))

	var got quiz.Awareness
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "Glass is endlessly recyclable.", got.Fact)
	assert.Equal(t, "Rinse jars.", got.Tip)
	assert.Equal(t, quiz.MissingQuestion, got.Quiz.Question)
}

func Test_commandLine_quiz(t *testing.T) {
	t.Run("token flag", func(t *testing.T) {
		cli, out, upstream := setup(t, "")
		upstream.On(http.MethodPost, "/api/orchestrator/handle", http.StatusOK, testutil.Steps(t, "quiz", glassQuiz))

		require.NoError(t, cli.run([]string{"ecoctl", "quiz", "-topic", "glass", "-token", "tkn"}))
		assert.Equal(t, "tkn", upstream.Last().Token)

		var got quiz.Fetched
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, "glass", got.Topic)
		assert.Equal(t, "Green", got.ResolvedAnswer)
	})

	t.Run("prompted token", func(t *testing.T) {
		cli, _, upstream := setup(t, "")
		upstream.On(http.MethodPost, "/api/orchestrator/handle", http.StatusOK, testutil.Steps(t, "quiz", glassQuiz))

		orig := readPasswordFunc
		readPasswordFunc = func(int) ([]byte, error) { return []byte("prompted"), nil }
		defer func() { readPasswordFunc = orig }()

		require.NoError(t, cli.run([]string{"ecoctl", "quiz"}))
		assert.Equal(t, "prompted", upstream.Last().Token)
	})

	t.Run("empty prompted token", func(t *testing.T) {
		cli, _, upstream := setup(t, "")

		orig := readPasswordFunc
		readPasswordFunc = func(int) ([]byte, error) { return nil, nil }
		defer func() { readPasswordFunc = orig }()

		assert.Equal(t, errHelp, cli.run([]string{"ecoctl", "quiz"}))
		assert.Empty(t, upstream.Requests())
	})

	t.Run("backend refuses", func(t *testing.T) {
		cli, _, upstream := setup(t, "")
		upstream.On(http.MethodPost, "/api/orchestrator/handle", http.StatusUnauthorized, `{"detail":"Invalid token"}`)

		err := cli.run([]string{"ecoctl", "quiz", "-token", "bad"})
		assert.True(t, errors.Is(err, backendsvc.ErrUnauthorized))
	})
}

func Test_commandLine_health(t *testing.T) {
	cli, out, upstream := setup(t, "")
	upstream.On(http.MethodGet, "/health", http.StatusOK, `{"status":"healthy","service":"orchestrator"}`)

	require.NoError(t, cli.run([]string{"ecoctl", "health"}))
	assert.Equal(t, "orchestrator: healthy\n", out.String())
}
