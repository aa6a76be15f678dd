package llm

import (
	"context"
	"strings"

	"github.com/bytedance/gg/gson"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/pkg/errors"

	"github.com/iWorld-y/gen_report/internal/config"
	"github.com/iWorld-y/gen_report/internal/logger"
)

// ErrEmptyResponse 模型没有返回内容
var ErrEmptyResponse = errors.New("llm returned empty content")

// Client 单次调用的 LLM 客户端
type Client struct {
	cm          model.BaseChatModel
	temperature float32
	maxTokens   int
}

// New 用已有的 ChatModel 创建客户端
func New(cm model.BaseChatModel, temperature float32, maxTokens int) *Client {
	return &Client{
		cm:          cm,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// NewFromConfig 根据配置和模型名创建客户端
func NewFromConfig(ctx context.Context, cfg *config.Config, modelName string, maxTokens int) (*Client, error) {
	mc, err := Resolve(cfg, modelName, maxTokens)
	if err != nil {
		return nil, err
	}

	chatModel, err := openai.NewChatModel(ctx, mc)
	if err != nil {
		return nil, errors.Wrap(err, "LLM 初始化失败")
	}
	logger.Log.Debugf("LLM 已配置: base_url=%s model=%s temperature=%.2f", mc.BaseURL, mc.Model, cfg.TemperatureValue())

	return New(chatModel, cfg.TemperatureValue(), maxTokens), nil
}

// Complete 以单条 user 消息调用模型，返回生成的文本。
// 返回的 error 带调用栈，可用 %+v 输出完整诊断信息；内容为空时返回 ErrEmptyResponse。
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	opts := []model.Option{model.WithTemperature(c.temperature)}
	if c.maxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(c.maxTokens))
	}

	resp, err := c.cm.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)}, opts...)
	if err != nil {
		return "", errors.Wrap(err, "generate")
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", errors.WithStack(ErrEmptyResponse)
	}

	if resp.ResponseMeta != nil {
		logger.Log.Debugf("LLM 调用完成: %s", gson.ToString(resp.ResponseMeta))
	}
	return resp.Content, nil
}
