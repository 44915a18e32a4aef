package main

import (
	"context"
	"fmt"
	"log"
	"os"

	echoapi "github.com/ecowaste/dashboard/apps/api/echo"
	"github.com/ecowaste/dashboard/core"
	"github.com/ecowaste/dashboard/core/chat"
	"github.com/ecowaste/dashboard/core/classify"
	"github.com/ecowaste/dashboard/core/quiz"
	"github.com/ecowaste/dashboard/core/rewards"
	backendsvc "github.com/ecowaste/dashboard/services/backend"
	logsvc "github.com/ecowaste/dashboard/services/logger"
	metricsvc "github.com/ecowaste/dashboard/services/metrics"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.Conf

	// set up logger
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	var logger core.Logger
	if conf.RollbarToken != "" {
		rl := logsvc.NewRollbarLogger(std, conf)
		rl.Enable(!conf.Debug)
		defer rl.Close()
		logger = rl
	} else {
		minLevel := logsvc.LevelInfo
		if conf.Debug {
			minLevel = logsvc.LevelDebug
		}
		logger = logsvc.NewConsoleLogger(std, minLevel)
	}

	// set up services
	metrics := metricsvc.NewService()
	client := backendsvc.NewFromConfig(conf)
	quizSvc := quiz.NewService(client,
		quiz.WithRecorder(metrics),
		quiz.WithLogger(logger),
		quiz.WithDefaultTopic(conf.DefaultTopic),
	)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build), map[string]interface{}{
		"env":     conf.Env,
		"backend": conf.Backend.BaseURL,
	})
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(&echoapi.Options{
		Conf:        conf,
		Logger:      logger,
		Validate:    validate,
		Translator:  translator,
		Metrics:     metrics,
		Upstream:    client,
		QuizSvc:     quizSvc,
		ClassifySvc: classify.NewService(client),
		ChatSvc:     chat.NewService(client),
		RewardsSvc:  rewards.NewService(client),
	})

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
