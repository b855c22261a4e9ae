package openai

import (
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
)

func TestNewFromClientAppliesOptions(t *testing.T) {
	client := openai.NewClient()
	w := NewFromClient(&client, func(o *Options) {
		o.Model = openai.ChatModelGPT4o
		o.Temperature = 0.1
		o.MaxCompletionTokens = 1024
	})

	assert.Equal(t, openai.ChatModelGPT4o, w.opts.Model)
	assert.Equal(t, 0.1, w.opts.Temperature)
	assert.Equal(t, int64(1024), w.opts.MaxCompletionTokens)
}

func TestDefaults(t *testing.T) {
	client := openai.NewClient()
	w := NewFromClient(&client)

	assert.Equal(t, openai.ChatModelGPT4oMini, w.opts.Model)
	assert.Equal(t, 0.7, w.opts.Temperature)
}
