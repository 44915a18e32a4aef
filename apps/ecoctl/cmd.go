package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/ecowaste/dashboard/core/orchestrator"
	"github.com/ecowaste/dashboard/core/quiz"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type (
	healthChecker interface {
		Health(ctx context.Context) (*orchestrator.Health, error)
	}

	commandLine struct {
		quizSvc  *quiz.Service
		upstream healthChecker
		in       io.Reader
		out      io.Writer
		pretty   bool
	}
)

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  normalize [-file PATH]        - normalize a raw quiz payload (stdin by default)")
	_, _ = fmt.Fprintln(cli.out, "  awareness [-file PATH]        - split an awareness message into fact, tip and quiz")
	_, _ = fmt.Fprintln(cli.out, "  quiz [-topic TOPIC] [-token]  - fetch a quiz from the backend; the token is prompted if not given")
	_, _ = fmt.Fprintln(cli.out, "  health                        - check that the backend answers")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	normalizeCmd := cli.flagSet("normalize")
	normalizeFile := normalizeCmd.String("file", "", "Read the payload from this file instead of stdin.")

	awarenessCmd := cli.flagSet("awareness")
	awarenessFile := awarenessCmd.String("file", "", "Read the message from this file instead of stdin.")

	quizCmd := cli.flagSet("quiz")
	quizTopic := quizCmd.String("topic", "", "The quiz topic. Defaults to the configured topic.")
	quizToken := quizCmd.String("token", "", "The session token forwarded to the backend.")

	switch args[1] {
	case "normalize":
		if err := normalizeCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		raw, err := cli.read(*normalizeFile)
		if err != nil {
			return err
		}
		return cli.normalize(raw)
	case "awareness":
		if err := awarenessCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		raw, err := cli.read(*awarenessFile)
		if err != nil {
			return err
		}
		return cli.print(quiz.ParseAwareness(string(raw)))
	case "quiz":
		if err := quizCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		token := *quizToken
		if token == "" {
			_, _ = fmt.Fprint(cli.out, "Enter token:")
			tok, err := readPasswordFunc(syscall.Stdin)
			_, _ = fmt.Fprintln(cli.out)
			if err != nil {
				return err
			}
			if len(tok) == 0 {
				quizCmd.Usage()
				return errHelp
			}
			token = string(tok)
		}
		return cli.fetchQuiz(*quizTopic, token)
	case "health":
		return cli.health()
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) read(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cli.in)
	}
	return os.ReadFile(path)
}

// print writes v as JSON, indented when the output is a terminal.
func (cli *commandLine) print(v interface{}) error {
	enc := json.NewEncoder(cli.out)
	if cli.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
