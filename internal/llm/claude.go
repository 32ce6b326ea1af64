// Package llm implements the AI-based alternate extractor used when the
// deterministic pipeline cannot produce a complete record.
package llm

import (
	"context"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/assina-energy/fatura-cli/internal/config"
	"github.com/assina-energy/fatura-cli/internal/model"
)

// messenger is the slice of the Anthropic API the extractor needs.
// Tests substitute a fake.
type messenger interface {
	create(ctx context.Context, params sdk.MessageNewParams) (*sdk.Message, error)
}

type sdkMessenger struct {
	client sdk.Client
}

func (m *sdkMessenger) create(ctx context.Context, params sdk.MessageNewParams) (*sdk.Message, error) {
	return m.client.Messages.New(ctx, params)
}

// Extractor asks Claude to read the invoice text and fill in the full
// record. Calls are rate limited and retried on transient failures.
type Extractor struct {
	api       messenger
	model     string
	maxTokens int64
	limiter   *rate.Limiter
	retry     retryConfig
}

// New creates an Extractor from config. The API key is required.
func New(cfg config.AnthropicConfig) (*Extractor, error) {
	if cfg.Key == "" {
		return nil, eris.New("llm: anthropic key not configured")
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	client := sdk.NewClient(option.WithAPIKey(cfg.Key))
	return &Extractor{
		api:       &sdkMessenger{client: client},
		model:     cfg.Model,
		maxTokens: maxTokens,
		limiter:   rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		retry:     defaultRetryConfig(),
	}, nil
}

// Extract sends the invoice text to the model and parses the returned
// JSON into an InvoiceRecord. Returns (nil, nil) when the model answers
// with something unparseable, so the caller can fall back gracefully.
func (e *Extractor) Extract(ctx context.Context, text string) (*model.InvoiceRecord, error) {
	log := zap.L().With(zap.String("component", "llm"))

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "llm: rate limit wait")
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(e.model),
		MaxTokens: e.maxTokens,
		System: []sdk.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(userPrompt(text))),
		},
	}

	start := time.Now()
	msg, err := doWithRetry(ctx, e.retry, func(ctx context.Context) (*sdk.Message, error) {
		return e.api.create(ctx, params)
	})
	if err != nil {
		return nil, eris.Wrap(err, "llm: create message")
	}

	var raw string
	for _, block := range msg.Content {
		if block.Type == "text" {
			raw += block.Text
		}
	}

	rec, err := parseRecord(raw)
	if err != nil {
		log.Warn("model answer not parseable",
			zap.Error(err),
			zap.Int("answer_chars", len(raw)))
		return nil, nil
	}

	log.Info("alternate extraction complete",
		zap.String("model", string(msg.Model)),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
		zap.Duration("elapsed", time.Since(start)))

	return rec, nil
}
