// Package command provides a Provider backed by any CLI that reads a prompt
// and writes its reply to stdout.
//
// The prompt is written to the process's stdin, or passed as the final
// argument when WithPromptArg is set. Stdout is streamed back line by line,
// byte for byte. A non-zero exit fails the stream with the captured stderr.
//
// # Usage
//
//	p := command.New("llm", command.WithArgs("-m", "{model}"), command.WithModel("gpt-4o"))
//	ch, err := p.Chat(ctx, prompt)
//
// NewOllama is a preset for "ollama run <model>".
//
// # Registry
//
// Importing this package registers the "command" and "ollama" providers:
//
//	import _ "github.com/randalmurphal/fixkit/command"
//
//	p, err := provider.New("ollama", provider.Config{Provider: "ollama", Model: "qwen2.5-coder:7b"})
//
// Args may contain the placeholder "{model}", replaced by the configured model.
package command
