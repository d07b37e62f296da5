package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/helmsman-run/helmsman/config"
	"github.com/helmsman-run/helmsman/controller"
	"github.com/helmsman-run/helmsman/diagnose"
	"github.com/helmsman-run/helmsman/engine"
	"github.com/helmsman-run/helmsman/llm"
	"github.com/helmsman-run/helmsman/runtime"
	"github.com/helmsman-run/helmsman/store"
	"github.com/helmsman-run/helmsman/translate"
)

var (
	configPath  string
	runtimeKind string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "helmsman",
	Short: "Helmsman keeps the containers you asked for running",
	Long: `Helmsman is a desired-state reconciler for containerized applications.
Declare how many replicas of an image should run; helmsman compares that
against reality and creates or removes containers to close the gap.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a helmsman config.toml")
	rootCmd.PersistentFlags().StringVar(&runtimeKind, "runtime", "", "Container runtime: docker or memory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// buildEngine wires a full engine from config, flags and environment.
func buildEngine() (*engine.Engine, config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, config.Config{}, err
	}
	if runtimeKind != "" {
		cfg.Runtime = runtimeKind
	}

	logger, err := buildLogger()
	if err != nil {
		return nil, config.Config{}, err
	}

	var rt runtime.ContainerRuntime
	switch cfg.Runtime {
	case config.RuntimeMemory:
		rt = runtime.NewMemoryRuntime()
	default:
		rt, err = runtime.NewDockerRuntime()
		if err != nil {
			return nil, config.Config{}, fmt.Errorf("connect to docker: %w", err)
		}
	}

	storeOpts := []store.Option{store.WithLogger(logger)}
	if cfg.RedisAddr != "" {
		persist, err := store.NewRedisPersistence(context.Background(), cfg.RedisAddr)
		if err != nil {
			return nil, config.Config{}, err
		}
		storeOpts = append(storeOpts, store.WithPersistence(persist))
	}
	s := store.New(storeOpts...)
	if err := s.Restore(context.Background()); err != nil {
		return nil, config.Config{}, err
	}

	// The text-generation collaborator is optional: without an API key the
	// translator and classifier run on their deterministic rule tiers.
	var gen llm.Generator
	if openaiGen, err := llm.NewOpenAIGenerator(cfg.OpenAIModel); err == nil {
		gen = openaiGen
	} else {
		logger.Debug("language model unavailable, using rule tiers", zap.Error(err))
	}

	rec := controller.New(s, rt,
		controller.WithInterval(cfg.ReconcileInterval),
		controller.WithCallTimeout(cfg.CallTimeout),
		controller.WithLogger(logger))

	e := engine.New(s, translate.New(gen, logger), diagnose.New(rt, gen, logger), rec, logger)
	return e, cfg, nil
}

func buildLogger() (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if verbose {
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zapCfg.Build()
}

// printResult renders an engine result in the CLI's usual style.
func printResult(success bool, message string) {
	if success {
		fmt.Printf("✅ %s\n", message)
	} else {
		fmt.Printf("❌ %s\n", message)
	}
}

func exitOnBuildError(err error) {
	fmt.Printf("❌ %v\n", err)
	os.Exit(1)
}
