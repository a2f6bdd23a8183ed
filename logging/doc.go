// Package logging provides a minimal logging interface and adapters for AgentRecall.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the agent manager, snapshot layer and tools use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - RecallLogger with contextual helpers (component, agent) and domain
//     specific logging for generation calls, retrieval and snapshot I/O
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "text", false)
//	mgr := agentrecall.New(func(o *agentrecall.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging
