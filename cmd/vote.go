package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/oracle-feeder/voter/config"
	"github.com/oracle-feeder/voter/oracle"
	"github.com/oracle-feeder/voter/oracle/client"
	"github.com/oracle-feeder/voter/oracle/provider"
	"github.com/oracle-feeder/voter/oracle/signer"
	pfkeyring "github.com/oracle-feeder/voter/pkg/keyring"
	v1 "github.com/oracle-feeder/voter/router/v1"
)

var voteCmd = &cobra.Command{
	Use:   "vote [config-file]",
	Args:  cobra.ExactArgs(1),
	Short: "Start the commit-reveal oracle voting loop",
	Long: `Starts the voting loop: on every tick it checks whether the chain has
entered the acting window of the current vote period, fetches prices,
prevotes a new commitment, reveals the prior period's commitment, signs and
broadcasts the resulting transaction, and remembers the commitment only
once it is confirmed on-chain.`,
	RunE: voteCmdHandler,
}

func voteCmdHandler(cmd *cobra.Command, args []string) error {
	logLvlStr, err := cmd.Flags().GetString(flagLogLevel)
	if err != nil {
		return err
	}

	logFormatStr, err := cmd.Flags().GetString(flagLogFormat)
	if err != nil {
		return err
	}

	logger, err := setUpLogger(logLvlStr, strings.ToLower(logFormatStr))
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	cfg, err := config.ParseConfig(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	trapSignal(cancel, logger)

	chainClient := client.New(logger, cfg.Chain.LCDEndpoint)

	// the oracle module's vote_period governs the loop's whole schedule;
	// without it there is nothing to do, so a failure here is fatal.
	params, err := chainClient.OracleParams(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch oracle params: %w", err)
	}

	aggregator, err := provider.New(logger, cfg.Sources)
	if err != nil {
		return fmt.Errorf("failed to build price aggregator: %w", err)
	}

	sgnr, err := buildSigner(cfg)
	if err != nil {
		return fmt.Errorf("failed to build signer: %w", err)
	}
	defer sgnr.Close()

	reg := prometheus.NewRegistry()
	metrics := oracle.NewMetrics(reg)

	o := oracle.New(
		logger,
		chainClient,
		aggregator,
		sgnr,
		oracle.Config{
			FeederAddress:  cfg.Account.Address,
			ValidatorAddrs: cfg.Account.Validators,
			ChainID:        cfg.Chain.ChainID,
			FeeDenom:       cfg.FeeDenom,
			Filter:         oracle.DenomFilter{Allow: cfg.DenomFilterSet()},
		},
		params.VotePeriod,
		metrics,
	)

	go func() {
		logger.Info().Msg("starting voting loop...")
		o.Start(ctx)
	}()

	srvErr := startDiagnosticServer(ctx, logger, cfg, o, reg)

	o.Stop()

	return srvErr
}

// buildSigner constructs the software or hardware signer according to
// cfg.Keyring.UseLedger.
func buildSigner(cfg config.Config) (signer.Signer, error) {
	opts := []pfkeyring.ConfigOpt{
		pfkeyring.WithKeyringDir(cfg.Keyring.Dir),
		pfkeyring.WithKeyringBackend(pfkeyring.Backend(cfg.Keyring.Backend)),
		pfkeyring.WithKeyFrom(cfg.Account.Address),
	}

	if cfg.Keyring.UseLedger {
		return signer.NewLedger(opts...)
	}

	pass := cfg.Keyring.Passphrase
	if pass == "" {
		var err error
		pass, err = getKeyringPassword()
		if err != nil {
			return nil, err
		}
	}
	opts = append(opts, pfkeyring.WithKeyPassphrase(pass))

	return signer.NewSoftware(opts...)
}

// startDiagnosticServer runs the read-only status/metrics HTTP API until ctx
// is cancelled, then shuts it down gracefully.
func startDiagnosticServer(
	ctx context.Context,
	logger zerolog.Logger,
	cfg config.Config,
	o *oracle.Oracle,
	reg *prometheus.Registry,
) error {
	rtr := mux.NewRouter()
	v1Router := v1.New(logger, o)
	v1Router.RegisterRoutes(rtr, v1.APIPathPrefix)
	rtr.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet},
	}).Handler(rtr)

	writeTimeout, err := time.ParseDuration(cfg.Server.WriteTimeout)
	if err != nil {
		return err
	}

	readTimeout, err := time.ParseDuration(cfg.Server.ReadTimeout)
	if err != nil {
		return err
	}

	srvErrCh := make(chan error, 1)
	srv := &http.Server{
		Handler:      handler,
		Addr:         cfg.Server.ListenAddr,
		WriteTimeout: writeTimeout,
		ReadTimeout:  readTimeout,
	}

	go func() {
		logger.Info().Str("listen_addr", cfg.Server.ListenAddr).Msg("starting diagnostic server...")
		srvErrCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		logger.Info().Msg("shutting down diagnostic server...")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to gracefully shut down diagnostic server")
			return err
		}
		return nil

	case err := <-srvErrCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("diagnostic server failed")
			return err
		}
		return nil
	}
}
