package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/projectdiscovery/gologger"

	"github.com/lanscout/lanscout/internal/runner"
)

func main() {
	options := runner.ParseOptions()

	surveyRunner, err := runner.NewRunner(options)
	if err != nil {
		gologger.Fatal().Msgf("could not create runner: %s\n", err)
	}
	defer surveyRunner.Close()

	// an interrupt ends the watch loop cleanly after the running cycle
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := surveyRunner.Run(ctx); err != nil {
		gologger.Fatal().Msgf("could not run survey: %s\n", err)
	}
}
