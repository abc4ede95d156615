package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nikogura/ats-match/pkg/config"
	"github.com/nikogura/ats-match/pkg/observe"
	"github.com/nikogura/ats-match/pkg/scorer"
	"github.com/nikogura/ats-match/pkg/service"
	"github.com/nikogura/ats-match/pkg/taxonomy"
)

//nolint:gochecknoglobals // Set with -ldflags at build time
var version = "dev"

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var configFile string

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "ats-match",
	Short: "Score how well a CV matches a job description",
	Long: `ats-match simulates an applicant tracking system. It extracts keywords and
industry skills from a job description and a CV, scores the overlap and
suggests how to improve the CV.

Run a single analysis from the command line, or serve the HTTP API, the MCP
tools or the RabbitMQ worker.`,
	SilenceUsage: true,
}

// Execute runs the root command. Interrupt and SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.ats-match/config.json)")
	rootCmd.Version = version
}

// getVerbose returns the verbose flag value.
func getVerbose() (result bool) {
	result = verbose
	return result
}

// getConfigFile returns the config file path.
func getConfigFile() (result string) {
	result = configFile
	return result
}

// runtime holds what every command needs to run analyses.
type runtime struct {
	cfg    config.Config
	logger *slog.Logger
	engine *scorer.Engine
	svc    *service.Service
}

// setup loads config, logger, taxonomy and the analysis service.
func setup() (rt runtime, err error) {
	rt.cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return rt, err
	}

	level := rt.cfg.Log.Level
	if getVerbose() {
		level = "debug"
	}

	rt.logger, err = observe.NewLogger(level, rt.cfg.Log.Format)
	if err != nil {
		return rt, err
	}

	var tax *taxonomy.Taxonomy
	tax, err = loadTaxonomy(rt.cfg.TaxonomyLocation)
	if err != nil {
		return rt, err
	}

	rt.engine, err = scorer.NewEngine(tax)
	if err != nil {
		err = errors.Wrap(err, "failed to build scoring engine")
		return rt, err
	}

	rt.svc = service.New(rt.engine, nil, rt.logger, nil)

	rt.logger.Debug("taxonomy loaded",
		slog.String("source", taxonomySource(rt.cfg.TaxonomyLocation)),
		slog.Int("industries", tax.Len()),
	)

	return rt, err
}

func loadTaxonomy(location string) (tax *taxonomy.Taxonomy, err error) {
	if location == "" {
		tax, err = taxonomy.Default()
		return tax, err
	}

	tax, err = taxonomy.Load(location)
	return tax, err
}

func taxonomySource(location string) (source string) {
	source = location
	if source == "" {
		source = "built-in"
	}
	return source
}
