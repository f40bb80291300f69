package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	// Deltas, when set, are the streamed fragments delivered by
	// GenerateStream before the full response is returned. When empty,
	// GenerateStream delivers Content as a single delta.
	Deltas []string
	Usage  Usage
	Err    error
}

// MockProvider is a deterministic Provider for testing.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response or ErrProviderUnavailable if
// the queue is empty.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	resp, err := m.next(req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GenerateStream delivers the next canned response's Deltas (or its whole
// Content when no Deltas are set) through onDelta, then returns the response.
func (m *MockProvider) GenerateStream(_ context.Context, req Request, onDelta func(delta string)) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		m.mu.Unlock()
		return nil, &ErrProviderUnavailable{Err: nil}
	}
	canned := m.responses[0]
	m.responses = m.responses[1:]
	m.mu.Unlock()

	if canned.Err != nil {
		// Deltas before the error simulate a stream that dies mid-reply.
		for _, d := range canned.Deltas {
			onDelta(d)
		}
		return nil, canned.Err
	}

	if len(canned.Deltas) > 0 {
		for _, d := range canned.Deltas {
			onDelta(d)
		}
	} else if len(canned.Content) > 0 {
		onDelta(string(canned.Content))
	}

	return &Response{
		Content:    canned.Content,
		Usage:      canned.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

func (m *MockProvider) next(req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return nil, &ErrProviderUnavailable{Err: nil}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
