package model

import (
	"context"
	"strings"
)

// Generator is the minimal interface required to drive text generation.
// systemPrompt may be empty. Calls are synchronous and fallible; retry
// policy belongs to the caller.
type Generator interface {
	Generate(ctx context.Context, prompt, systemPrompt string) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt, systemPrompt string) (string, error)

// Generate implements the Generator interface.
func (f GeneratorFunc) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	return f(ctx, prompt, systemPrompt)
}

// MockGenerator is a deterministic offline Generator for examples and tests.
// With Response set it always returns that text; otherwise it answers from a
// small set of canned keyword rules so demo conversations stay coherent
// without an API key.
type MockGenerator struct {
	// Response, when non-empty, is returned for every call.
	Response string
}

// Generate implements the Generator interface.
func (m *MockGenerator) Generate(_ context.Context, prompt, _ string) (string, error) {
	if m.Response != "" {
		return m.Response, nil
	}
	return cannedResponse(prompt), nil
}

func cannedResponse(prompt string) string {
	p := strings.ToLower(prompt)
	switch {
	case strings.Contains(p, "planet"):
		return "The Earth is the third planet from the Sun and is the only astronomical object known to harbor life. About 71% of Earth's surface is water-covered."
	case strings.Contains(p, "water") || strings.Contains(p, "freeze"):
		return "Water freezes at 0 degrees Celsius (32 degrees Fahrenheit) at standard atmospheric pressure."
	case strings.Contains(p, "remember") || strings.Contains(p, "first question"):
		return "Yes, your first question was about our planet. You asked if I could tell you something interesting about it."
	case strings.Contains(p, "know about me"):
		return "Based on our conversation, I know that you're interested in science topics, particularly about Earth and properties of water."
	case strings.Contains(p, "thank"):
		return "You're welcome! I'm happy I could provide you with useful information. Feel free to ask if you have any other questions."
	default:
		return "I'm a simulated agent response for testing. This is a placeholder since no generation backend was configured."
	}
}
