// Package model defines the generation capability consumed by agents and
// ships provider adapters for it. The Generator interface is deliberately
// narrow (prompt plus optional system prompt in, text out) so the memory
// core never inspects model internals; concrete adapters for OpenAI and
// Anthropic live in subpackages, and MockGenerator supports offline use.
package model
