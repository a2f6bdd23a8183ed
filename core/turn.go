package core

import "time"

// Turn is one entry of an agent's ordered conversation log. The turn log is
// owned by the agent layer, not by the memory store; the context assembler
// consumes it for recency alongside ranked records.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
