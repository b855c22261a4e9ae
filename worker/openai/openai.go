// Package openai provides a worker backed by the OpenAI Chat Completions API.
// Each task's payload is sent as a single user prompt; the response text is
// persisted as the task's result artifact.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/hupe1980/taskmesh/core"
)

// Options configure the OpenAI worker. Fields mirror a subset of Chat
// Completion parameters intentionally kept minimal; extend via functional
// options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Worker executes tasks by prompting the OpenAI Chat Completions API.
type Worker struct {
	client *openai.Client
	opts   Options
}

var _ core.Worker = (*Worker)(nil)

// New creates a new OpenAI worker using the official client.
func New(optFns ...func(o *Options)) *Worker {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a new OpenAI worker from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Worker {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Worker{client: client, opts: opts}
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

	resp, err := w.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               w.opts.Model,
		Temperature:         openai.Float(w.opts.Temperature),
		MaxCompletionTokens: openai.Int(w.opts.MaxCompletionTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return rec.Error(fmt.Sprintf("openai api error: %v", err))
	}
	if len(resp.Choices) == 0 {
		return rec.Error("openai api error: empty response")
	}

	if err := rec.Progress(90, "response received"); err != nil {
		return err
	}

	artifactID := rec.TaskID() + "_result.txt"
	if err := rec.SaveArtifact(artifactID, []byte(resp.Choices[0].Message.Content)); err != nil {
		if !errors.Is(err, core.ErrNoArtifactStore) {
			return err
		}
	}

	return rec.Done(core.OutcomeSuccess)
}
