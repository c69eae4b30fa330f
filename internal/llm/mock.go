package llm

import "context"

// MockGenerator returns a canned reply for tests.
type MockGenerator struct {
	Reply string
	Err   error

	Calls   int
	Prompts []string
}

func (m *MockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.Calls++
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}
