// Package anthropic provides a worker backed by the Anthropic Messages API.
// Each task's payload is sent as a single user prompt; the response text is
// persisted as the task's result artifact.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hupe1980/taskmesh/core"
)

// Options configures the Anthropic worker (model id, temperature, max tokens,
// API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Worker executes tasks by prompting the Anthropic Messages API.
type Worker struct {
	client *anthropic.Client
	opts   Options
}

var _ core.Worker = (*Worker)(nil)

// New creates a new Anthropic worker using the official client.
func New(optFns ...func(o *Options)) *Worker {
	opts := defaultOptions()

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Worker{
		client: &client,
		opts:   opts,
	}
}

// NewFromClient creates a new Anthropic worker from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Worker {
	opts := defaultOptions()

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Worker{
		client: client,
		opts:   opts,
	}
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
}

// Execute prompts the model with the task payload (falling back to the task
// name) and records the full lifecycle on the ledger. API failures become
// error events, not returned errors: only ledger writes can fail the call.
func (w *Worker) Execute(ctx context.Context, task core.Task, rec *core.Recorder) error {
	if err := rec.Start(task.Name); err != nil {
		return err
	}

	prompt := task.Payload
	if prompt == "" {
		prompt = task.Name
	}

	resp, err := w.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       w.opts.Model,
		MaxTokens:   w.opts.MaxTokens,
		Temperature: anthropic.Float(w.opts.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return rec.Error(fmt.Sprintf("anthropic api error: %v", err))
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.AsText().Text)
		}
	}

	if err := rec.Progress(90, "response received"); err != nil {
		return err
	}

	artifactID := rec.TaskID() + "_result.txt"
	if err := rec.SaveArtifact(artifactID, []byte(text.String())); err != nil {
		if !errors.Is(err, core.ErrNoArtifactStore) {
			return err
		}
	}

	return rec.Done(core.OutcomeSuccess)
}
