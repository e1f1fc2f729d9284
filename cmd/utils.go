package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cosmos/cosmos-sdk/client/input"
	"github.com/rs/zerolog"
)

const (
	logFormatJSON = "json"
	logFormatText = "text"

	envFeederKeyPass = "ORACLE_FEEDER_KEY_PASS"
)

func setUpLogger(logLevel, logFormat string) (zerolog.Logger, error) {
	logLvl, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return zerolog.Logger{}, err
	}

	var logWriter io.Writer
	switch logFormat {
	case logFormatJSON:
		logWriter = os.Stderr
	case logFormatText:
		logWriter = zerolog.ConsoleWriter{Out: os.Stderr}
	default:
		return zerolog.Logger{}, fmt.Errorf("invalid logging format: %s", logFormat)
	}

	return zerolog.New(logWriter).Level(logLvl).With().Timestamp().Logger(), nil
}

// getKeyringPassword reads the keystore passphrase from the environment, or
// prompts on stdin if unset.
func getKeyringPassword() (string, error) {
	reader := bufio.NewReader(os.Stdin)

	pass := os.Getenv(envFeederKeyPass)
	if pass != "" {
		return pass, nil
	}

	return input.GetString("Enter keyring password", reader)
}

// trapSignal listens for SIGINT/SIGTERM and cancels ctx so the caller can
// shut down gracefully.
func trapSignal(cancel context.CancelFunc, logger zerolog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("received signal; shutting down...")
		cancel()
	}()
}
