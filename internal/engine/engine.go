package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iWorld-y/gen_report/internal/config"
	"github.com/iWorld-y/gen_report/internal/llm"
	"github.com/iWorld-y/gen_report/internal/logger"
	"github.com/iWorld-y/gen_report/internal/prompt"
	"github.com/iWorld-y/gen_report/internal/report"
)

var (
	// ErrSourceNotFound 本周周报目录不存在
	ErrSourceNotFound = errors.New("source folder not found")
	// ErrNoReports 目录中没有可用的成员周报
	ErrNoReports = errors.New("no valid member reports found in source folder")
)

// Completer 单次调用模型生成文本
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Engine 核心处理引擎
type Engine struct {
	cfg       *config.Config
	completer Completer
	builder   *prompt.Builder
}

// NewEngine 创建引擎实例。completer 为 nil 时按配置在调用前创建 LLM 客户端。
func NewEngine(cfg *config.Config, completer Completer) *Engine {
	aliases := make([]prompt.AliasGroup, 0, len(cfg.Prompt.Aliases))
	for _, a := range cfg.Prompt.Aliases {
		aliases = append(aliases, prompt.AliasGroup{Project: a.Project, Names: a.Names})
	}

	return &Engine{
		cfg:       cfg,
		completer: completer,
		builder:   prompt.NewBuilder(aliases),
	}
}

// RunOptions 运行选项
type RunOptions struct {
	SourceDir   string
	ExampleDirs []string
	Model       string
	OutPath     string
	MaxTokens   int
	// DryRun 只打印 prompt，不调用模型
	DryRun bool
	// Stdout prompt 和完成提示的输出位置，默认 os.Stdout
	Stdout io.Writer
}

// Run 生成一次部门周报。
// 配置类错误直接返回；模型调用失败只记录日志，不写输出文件。
func (e *Engine) Run(ctx context.Context, opts RunOptions) error {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	if info, err := os.Stat(opts.SourceDir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, opts.SourceDir)
	}

	// 在抽取文件之前先检查凭证
	if !opts.DryRun {
		if err := e.cfg.EnsureAPIKey(); err != nil {
			return err
		}
	}

	members, err := report.Gather(opts.SourceDir)
	if err != nil {
		return fmt.Errorf("scan source folder: %w", err)
	}
	if len(members) == 0 {
		return fmt.Errorf("%w: %s", ErrNoReports, opts.SourceDir)
	}
	logger.Log.Infof("本周成员周报 %d 份", len(members))

	chunks := make([]string, 0, len(members))
	for _, m := range members {
		chunks = append(chunks, m.Chunk())
	}

	weeks := report.CollectExamplesFromDirs(opts.ExampleDirs)
	logger.Log.Infof("历史示例 %d 周", len(weeks))

	text := e.builder.Build(chunks, prompt.BuildFewShotExamples(weeks))

	if opts.DryRun {
		fmt.Fprintln(stdout, text)
		return nil
	}

	completer, err := e.client(ctx, opts)
	if err != nil {
		return err
	}

	reportMD, err := completer.Complete(ctx, text)
	if err != nil {
		logger.Log.Errorf("error occurred: %+v", err)
	}

	if reportMD != "" {
		if err := writeReport(opts.OutPath, reportMD); err != nil {
			return err
		}
	} else {
		logger.Log.Warnf("没有生成报告内容，跳过写入 [%s]", opts.OutPath)
	}

	fmt.Fprintf(stdout, "Report written to %s\n", opts.OutPath)
	return nil
}

func (e *Engine) client(ctx context.Context, opts RunOptions) (Completer, error) {
	if e.completer != nil {
		return e.completer, nil
	}
	modelName := opts.Model
	if modelName == "" {
		modelName = e.cfg.LLM.Model
	}
	return llm.NewFromConfig(ctx, e.cfg, modelName, opts.MaxTokens)
}

func writeReport(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logger.Log.Infof("报告已写入: %s", path)
	return nil
}
