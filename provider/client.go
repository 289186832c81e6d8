// Package provider defines the model-provider capability used by fixkit.
//
// The edit pipeline never talks to a model service directly. It receives a
// Provider by injection, sends it a single prompt, and reads the reply as a
// stream of text chunks. Concrete providers live in their own packages and
// register a Factory so the CLI can build one from configuration:
//
//	p, err := provider.New("command", provider.Config{
//	    Provider: "command",
//	    Options:  map[string]any{"command": "llm", "args": []string{"-m", "gpt-4o"}},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ch, err := p.Chat(ctx, prompt)
//	reply, err := provider.Collect(ctx, ch)
//
// # Available Providers
//
//   - "command": any CLI that reads a prompt and writes the reply to stdout
//   - "ollama": the command provider preset to run "ollama run <model>"
//
// Tests use MockProvider, which replays scripted replies and records prompts.
package provider

import "context"

// Provider is a language-model backend that answers a prompt with streamed text.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Name returns the provider name (e.g., "command", "ollama", "mock").
	Name() string

	// Chat sends prompt and returns a channel of reply chunks.
	// The channel is closed when the reply is complete.
	// Errors during streaming are delivered via chunk.Error.
	Chat(ctx context.Context, prompt string) (<-chan StreamChunk, error)
}

// StreamChunk is a piece of a streaming reply.
type StreamChunk struct {
	// Content is the text content in this chunk.
	Content string `json:"content,omitempty"`

	// Done indicates this is the final chunk.
	Done bool `json:"done"`

	// Error is non-nil if streaming failed.
	Error error `json:"-"`
}
