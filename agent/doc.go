// Package agent implements the memory-enabled conversational agent built on
// top of the memory core. The package focuses on three concerns:
//
//  1. The per-turn pipeline: record the user turn, retrieve relevant
//     memories, assemble a bounded context, call the generation capability,
//     record the response and a derived reflection
//  2. Persona-driven system prompt construction
//  3. Tool registration so the prompt can advertise agent capabilities
//
// Design principles:
//   - Minimal hidden global state - the generation capability, ranker and
//     logger are injected at construction
//   - Single-writer memory - an agent serializes its own turns, so the
//     underlying store never needs internal locking
//   - Durability stays outside - the agent exposes its state via Export and
//     the root package decides where and when to persist it
package agent
