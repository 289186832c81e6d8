package provider

import (
	"context"
	"sync"
)

// MockProvider is a test double for Provider.
// It supports fixed replies, sequential replies, and custom handlers.
type MockProvider struct {
	mu        sync.Mutex
	name      string
	responses []string
	idx       int
	err       error
	chunkSize int
	chatFunc  func(ctx context.Context, prompt string) (<-chan StreamChunk, error)

	// Calls tracks all prompts for assertions.
	Calls []string
}

// NewMockProvider creates a mock that replies with responses in order.
// Cycles back to the beginning after exhausting all responses.
func NewMockProvider(responses ...string) *MockProvider {
	return &MockProvider{name: "mock", responses: responses}
}

// WithName sets the name reported by Name.
func (m *MockProvider) WithName(name string) *MockProvider {
	m.name = name
	return m
}

// WithError configures Chat to always fail with err.
func (m *MockProvider) WithError(err error) *MockProvider {
	m.err = err
	return m
}

// WithChunkSize splits each reply into chunks of n runes.
// 0 sends the reply as a single chunk.
func (m *MockProvider) WithChunkSize(n int) *MockProvider {
	m.chunkSize = n
	return m
}

// WithChatFunc sets a custom handler for Chat calls.
// This takes precedence over scripted responses.
func (m *MockProvider) WithChatFunc(fn func(ctx context.Context, prompt string) (<-chan StreamChunk, error)) *MockProvider {
	m.chatFunc = fn
	return m
}

// Name implements Provider.
func (m *MockProvider) Name() string {
	return m.name
}

// Chat implements Provider.
func (m *MockProvider) Chat(ctx context.Context, prompt string) (<-chan StreamChunk, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, prompt)

	if m.chatFunc != nil {
		fn := m.chatFunc
		m.mu.Unlock()
		return fn(ctx, prompt)
	}

	if err := ctx.Err(); err != nil {
		m.mu.Unlock()
		return nil, err
	}

	if m.err != nil {
		err := m.err
		m.mu.Unlock()
		return nil, NewError(m.name, "chat", err, false)
	}

	response := ""
	if len(m.responses) > 0 {
		response = m.responses[m.idx%len(m.responses)]
		m.idx++
	}
	chunks := splitChunks(response, m.chunkSize)
	m.mu.Unlock()

	ch := make(chan StreamChunk, len(chunks)+1)
	for _, c := range chunks {
		ch <- StreamChunk{Content: c}
	}
	ch <- StreamChunk{Done: true}
	close(ch)
	return ch, nil
}

// Reset clears the call history and response index.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = nil
	m.idx = 0
}

// CallCount returns the number of times Chat was called.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent prompt, or "" if no calls were made.
func (m *MockProvider) LastCall() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return ""
	}
	return m.Calls[len(m.Calls)-1]
}

func splitChunks(s string, n int) []string {
	if s == "" {
		return nil
	}
	if n <= 0 {
		return []string{s}
	}
	runes := []rune(s)
	chunks := make([]string, 0, len(runes)/n+1)
	for start := 0; start < len(runes); start += n {
		end := min(start+n, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
