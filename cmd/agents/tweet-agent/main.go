package main

import (
	"os"

	"techtweets/internal/agents/tweet-agent/app"
)

func main() {
	if err := app.Run(); err != nil {
		os.Exit(1)
	}
}
