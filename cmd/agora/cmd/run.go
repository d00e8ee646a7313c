package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hugo-lorenzo-mato/agora/internal/adapters/backend"
	"github.com/hugo-lorenzo-mato/agora/internal/adapters/store"
	"github.com/hugo-lorenzo-mato/agora/internal/core"
	"github.com/hugo-lorenzo-mato/agora/internal/service"
	"github.com/hugo-lorenzo-mato/agora/internal/service/debate"
)

var runProblemID int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the debate over the configured problem set",
	Long: `Loads the problem set and runs the full debate protocol for each
problem in order, persisting the result list after every problem. A single
problem's failure is recorded with an error marker and the run continues.
Aggregate accuracy over successful problems is reported at the end.`,
	RunE: runDebates,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runProblemID, "problem", 0,
		"run only the problem with this id")
	runCmd.Flags().String("problems", "", "path to the problem file (.json or .yaml)")
	runCmd.Flags().String("results", "", "path to the results file or database")
	runCmd.Flags().Int("max-concurrent", 0, "max in-flight backend calls within a stage")

	_ = viper.BindPFlag("problems.path", runCmd.Flags().Lookup("problems"))
	_ = viper.BindPFlag("results.path", runCmd.Flags().Lookup("results"))
	_ = viper.BindPFlag("debate.max_concurrent", runCmd.Flags().Lookup("max-concurrent"))
}

func runDebates(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apiKey := os.Getenv(cfg.Backend.APIKeyEnv)
	gemini, err := backend.NewGemini(ctx, backend.GeminiConfig{
		APIKey:      apiKey,
		Model:       cfg.Backend.Model,
		Temperature: cfg.Backend.Temperature,
	})
	if err != nil {
		return err
	}

	registry, err := debate.NewRegistry(cfg.Debate.Personas)
	if err != nil {
		return err
	}

	prompts, err := service.NewPromptRenderer()
	if err != nil {
		return err
	}

	retry := service.NewRetryPolicy(
		service.WithMaxAttempts(cfg.Retry.MaxAttempts),
		service.WithBaseDelay(cfg.Retry.BaseDelay),
		service.WithMaxDelay(cfg.Retry.MaxDelay),
		service.WithMultiplier(cfg.Retry.Multiplier),
		service.WithJitter(cfg.Retry.JitterFactor),
	)

	gateway := debate.NewGateway(gemini, registry, retry, cfg.Backend.Timeout, log)
	coordinator := debate.NewCoordinator(gateway, prompts, cfg.Debate.GraderAgent, log,
		debate.WithMaxConcurrent(cfg.Debate.MaxConcurrent))

	problems := store.NewFileProblemSource(cfg.Problems.Path)
	results, err := store.NewResultStore(cfg.Results.Backend, cfg.Results.Path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.CloseResultStore(results); closeErr != nil {
			log.Warn("closing result store", "error", closeErr)
		}
	}()

	runner := debate.NewRunner(coordinator, problems, results, log)

	var only *int
	if cmd.Flags().Changed("problem") {
		only = &runProblemID
	}

	if _, err := runner.Run(ctx, only); err != nil {
		var domainErr *core.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == core.CodeProblemNotFound {
			// An absent selector id logs an error and performs no work,
			// without failing the process.
			log.Error("problem not found", "problem_id", runProblemID)
			return nil
		}
		return err
	}
	return nil
}
