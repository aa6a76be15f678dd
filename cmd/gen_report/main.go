package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/gen_report/internal/config"
	"github.com/iWorld-y/gen_report/internal/engine"
	"github.com/iWorld-y/gen_report/internal/logger"
)

const defaultConfigPath = "config.yaml"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logger.Log.Error(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		opts       engine.RunOptions
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           "gen_report",
		Short:         "Generate consolidated weekly department report from individual reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// 1. 加载配置，默认路径的配置文件可以不存在
			cfg, err := config.Load(configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return fmt.Errorf("无法加载配置文件: %w", err)
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}

			// 2. 初始化日志
			if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
				return fmt.Errorf("无法初始化日志: %w", err)
			}

			if !cmd.Flags().Changed("model") && cfg.LLM.Model != "" {
				opts.Model = cfg.LLM.Model
			}
			opts.Stdout = cmd.OutOrStdout()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// 3. 生成报告
			return engine.NewEngine(cfg, nil).Run(ctx, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.SourceDir, "source", "s", "", "Folder containing this week's member reports (docx/md)")
	f.StringArrayVarP(&opts.ExampleDirs, "examples", "e", nil, "Folder containing historical example weeks (optional). May be provided multiple times.")
	f.StringVarP(&opts.Model, "model", "m", config.DefaultModel, "LLM model name, optionally prefixed by provider (gemini/, openai/, anthropic/, groq/, deepseek/, azure/)")
	f.StringVarP(&opts.OutPath, "out", "o", "department_report.md", "Output markdown file path")
	f.IntVar(&opts.MaxTokens, "max-tokens", 2000, "Max tokens for generation")
	f.BoolVar(&opts.DryRun, "dry-run", false, "Only build and print prompt (no LLM call)")
	f.StringVarP(&configPath, "config", "c", defaultConfigPath, "Optional YAML config file")
	f.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}
