package main

import (
	"log"
	"os"

	"golang.org/x/term"

	"github.com/ecowaste/dashboard/core"
	"github.com/ecowaste/dashboard/core/quiz"
	backendsvc "github.com/ecowaste/dashboard/services/backend"
	logsvc "github.com/ecowaste/dashboard/services/logger"
)

func main() {
	conf := core.Conf
	logger := logsvc.NewConsoleLogger(log.New(os.Stderr, "ECOCTL : ", log.LstdFlags), logsvc.LevelWarn)

	client := backendsvc.NewFromConfig(conf)

	// start CLI
	cli := commandLine{
		quizSvc:  quiz.NewService(client, quiz.WithLogger(logger), quiz.WithDefaultTopic(conf.DefaultTopic)),
		upstream: client,
		in:       os.Stdin,
		out:      os.Stdout,
		pretty:   term.IsTerminal(int(os.Stdout.Fd())),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		os.Exit(1)
	}
}
