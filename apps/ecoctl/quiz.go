package main

import (
	"context"
	"fmt"

	"github.com/ecowaste/dashboard/core/quiz"
)

func (cli *commandLine) normalize(raw []byte) error {
	return cli.print(quiz.Inspect(quiz.Parse(raw)))
}

func (cli *commandLine) fetchQuiz(topic, token string) error {
	fetched, err := cli.quizSvc.Fetch(context.Background(), token, topic)
	if err != nil {
		return err
	}
	return cli.print(fetched)
}

func (cli *commandLine) health() error {
	h, err := cli.upstream.Health(context.Background())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cli.out, "%s: %s\n", h.Service, h.Status)
	return err
}
