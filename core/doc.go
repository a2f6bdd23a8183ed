// Package core contains the domain model of AgentRecall: typed memory
// records (facts, conversations, reflections), the per-agent Store that owns
// them, and the Ranker contract used for retrieval. Concrete ranker
// implementations live in the rank package; context assembly and snapshot
// persistence build on top of the types defined here.
//
// Rationale: keeps domain contracts centralized while allowing pluggable
// retrieval strategies and storage backends to be added without introducing
// dependency cycles.
package core
