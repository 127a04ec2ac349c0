package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"techtweets/internal/agents/tweet-agent/agent"
	"techtweets/pkg/logging"
	"techtweets/pkg/runtime"
)

const serviceName = "tweet-agent"

// Run executes the tweet-agent CLI with os.Args. Errors are logged here once;
// main only sets the exit code.
func Run() error {
	log := logging.NewLoggerWithService(serviceName)
	if err := runtime.LoadDotEnv(log); err != nil {
		log.WithError(err).Warn("load .env failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(log).ExecuteContext(ctx); err != nil {
		log.WithError(err).WithField("stage", agent.Stage(err)).Error("tweet-agent failed")
		return err
	}
	return nil
}
