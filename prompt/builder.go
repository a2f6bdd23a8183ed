// Package prompt assembles the bounded textual context handed to the
// generation capability: a "Relevant memories" section rendered from ranked
// records plus a "Recent conversation" section from the agent's turn log,
// kept under an approximate token budget.
package prompt

import (
	"fmt"
	"strings"

	"github.com/hupe1980/agentrecall/core"
)

const (
	// DefaultTokenLimit is the default context window budget in
	// approximate tokens.
	DefaultTokenLimit = 4000

	// maxRecentTurns caps how many trailing turns of the conversation log
	// are rendered.
	maxRecentTurns = 10

	// truncatedLineCount is how many leading lines survive when the
	// candidate context exceeds the budget.
	truncatedLineCount = 5

	truncationNotice  = "Context is too large to include all memories. Only the most relevant are included: \n"
	truncationTrailer = "\n(additional context omitted due to token limits)"
)

// Options configures a Builder.
type Options struct {
	// TokenLimit is the context window budget measured in approximate
	// tokens (four characters each). Defaults to DefaultTokenLimit.
	TokenLimit int
}

// Builder renders ranked records and recent turns into a single bounded
// string. Build is a pure function of its inputs and the configured limit; a
// Builder is safe for concurrent use.
type Builder struct {
	tokenLimit int
}

// NewBuilder creates a Builder with the given options.
func NewBuilder(optFns ...func(o *Options)) *Builder {
	opts := Options{TokenLimit: DefaultTokenLimit}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Builder{tokenLimit: opts.TokenLimit}
}

// ApproxTokens estimates the token count of s as len(s)/4. A crude stand-in
// for a real tokenizer, kept for compatibility with consumers of the
// snapshot format's sizing assumptions.
func ApproxTokens(s string) int { return len(s) / 4 }

// Build assembles the context for a query from the ranked relevant records
// and the agent's recent turn log. When the candidate rendering exceeds the
// token budget, only the first five lines are kept, framed by a fixed
// truncation notice, and the recent-conversation section is dropped
// entirely. Downstream consumers depend on the exact two-tier output (full
// rendering or five-line head); do not replace it with a proportional trim.
func (b *Builder) Build(query string, records []core.Record, history []core.Turn) string {
	_ = query // part of the assembler contract; does not affect rendering today

	var parts []string

	if len(records) > 0 {
		parts = append(parts, "Relevant memories:")
		for _, rec := range records {
			parts = append(parts, renderRecord(rec))
		}
	}

	if len(history) > 0 {
		parts = append(parts, "\nRecent conversation:")
		recent := history
		if len(recent) > maxRecentTurns {
			recent = recent[len(recent)-maxRecentTurns:]
		}
		for _, turn := range recent {
			parts = append(parts, "- "+capitalize(turn.Role)+": "+turn.Content)
		}
	}

	candidate := strings.Join(parts, "\n")
	if ApproxTokens(candidate) > b.tokenLimit {
		head := parts
		if len(head) > truncatedLineCount {
			head = head[:truncatedLineCount]
		}
		return truncationNotice + strings.Join(head, "\n") + truncationTrailer
	}
	return candidate
}

// renderRecord formats one memory line, dispatching on the record kind.
func renderRecord(rec core.Record) string {
	switch r := rec.(type) {
	case core.Reflection:
		return fmt.Sprintf("- Reflection: %s (Related to: %s)", r.Content, strings.Join(r.RelatedMemories, ", "))
	case core.Conversation:
		return fmt.Sprintf("- Conversation: %s → %s: %s", r.Sender, r.Receiver, r.Content)
	default:
		return "- Fact: " + rec.Base().Content
	}
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
