package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/agentrecall/core"
	"github.com/hupe1980/agentrecall/internal/util"
	"github.com/hupe1980/agentrecall/logging"
	"github.com/hupe1980/agentrecall/model"
	"github.com/hupe1980/agentrecall/prompt"
	"github.com/hupe1980/agentrecall/rank"
	"github.com/hupe1980/agentrecall/snapshot"
	"github.com/hupe1980/agentrecall/tool"
)

// Default importance weights for records produced by the turn pipeline.
// User input weighs more than the agent's own responses; reflections weigh
// most because they compress several turns into one insight.
const (
	userTurnImportance   = 0.8
	agentTurnImportance  = 0.7
	reflectionImportance = 0.9

	// relevantLimit caps how many ranked records feed the context assembler.
	relevantLimit = 5
)

const systemPromptTemplate = `{{.Persona}}

You have access to your past memories and knowledge:
{{.Context}}

Available tools: {{.Tools}}

Base your response on your memories and persona. If you don't know something, say so rather than making up information.`

const reflectionSystemPrompt = "You are creating internal reflections for an AI assistant to help its memory. Be concise but insightful."

const reflectionPromptTemplate = `Consider the following exchange:
User: {{.Input}}
Agent: {{.Response}}

Write a brief internal reflection about what the user might be trying to accomplish, what they might ask next, and what information would be helpful to remember for future interactions.`

// Options configures an Agent.
type Options struct {
	// ID identifies the agent; generated when empty.
	ID string
	// Persona describes the agent's personality and behavior.
	Persona string
	// Ranker used for memory retrieval. Defaults to rank.NewKeyword().
	Ranker core.Ranker
	// ContextTokenLimit bounds the assembled context. Defaults to
	// prompt.DefaultTokenLimit.
	ContextTokenLimit int
	// Logger defaults to NoOpLogger.
	Logger logging.Logger

	// Restore-path fields, set when rebuilding an agent from disk.
	CreatedAt time.Time
	History   []core.Turn
	Store     *core.Store
}

// Metadata is the durable agent state persisted beside the memory snapshot.
// Field names match the on-disk metadata document.
type Metadata struct {
	AgentID             string      `json:"agent_id"`
	Name                string      `json:"name"`
	Persona             string      `json:"persona"`
	CreatedAt           time.Time   `json:"created_at"`
	ConversationHistory []core.Turn `json:"conversation_history"`
}

// Agent is a memory-enabled conversational agent. Each turn it records the
// exchange into its memory store, retrieves relevant records, assembles a
// bounded context and calls the injected generation capability.
//
// All mutating entry points hold the agent's lock, making the agent the
// serialization point required by the single-writer memory store beneath it.
type Agent struct {
	mu sync.Mutex

	id        string
	name      string
	persona   string
	createdAt time.Time

	store     *core.Store
	builder   *prompt.Builder
	generator model.Generator
	logger    logging.Logger

	tools   map[string]tool.Tool
	history []core.Turn
}

// New creates an agent with the given display name and generation
// capability. Unset options fall back to safe defaults; the zero
// configuration yields a working offline agent when combined with
// model.MockGenerator.
func New(name string, generator model.Generator, optFns ...func(o *Options)) *Agent {
	opts := Options{
		Persona:           "I am a helpful AI assistant.",
		ContextTokenLimit: prompt.DefaultTokenLimit,
		Logger:            logging.NoOpLogger{},
		CreatedAt:         time.Now().UTC(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.ID == "" {
		opts.ID = core.NewID()
	}
	if opts.Ranker == nil {
		opts.Ranker = rank.NewKeyword()
	}
	if opts.ContextTokenLimit <= 0 {
		opts.ContextTokenLimit = prompt.DefaultTokenLimit
	}
	store := opts.Store
	if store == nil {
		store = core.NewStore(opts.ID, func(o *core.StoreOptions) { o.Ranker = opts.Ranker })
	}

	return &Agent{
		id:        opts.ID,
		name:      name,
		persona:   opts.Persona,
		createdAt: opts.CreatedAt,
		store:     store,
		builder:   prompt.NewBuilder(func(o *prompt.Options) { o.TokenLimit = opts.ContextTokenLimit }),
		generator: generator,
		logger:    opts.Logger,
		tools:     map[string]tool.Tool{},
		history:   append([]core.Turn{}, opts.History...),
	}
}

// ID returns the agent identifier.
func (a *Agent) ID() string { return a.id }

// Name returns the agent display name.
func (a *Agent) Name() string { return a.name }

// Persona returns the agent persona description.
func (a *Agent) Persona() string { return a.persona }

// CreatedAt returns the agent creation time.
func (a *Agent) CreatedAt() time.Time { return a.createdAt }

// RegisterTool adds (or replaces) a tool under its name.
func (a *Agent) RegisterTool(t tool.Tool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tools[t.Name()] = t
}

// Tool returns the registered tool with the given name, if any.
func (a *Agent) Tool(name string) (tool.Tool, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.tools[name]
	return t, ok
}

// ToolNames returns the sorted names of all registered tools.
func (a *Agent) ToolNames() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.toolNamesLocked()
}

func (a *Agent) toolNamesLocked() []string {
	names := make([]string, 0, len(a.tools))
	for name := range a.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// History returns a copy of the agent's ordered turn log.
func (a *Agent) History() []core.Turn {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]core.Turn, len(a.history))
	copy(out, a.history)
	return out
}

// Memory returns the agent's memory store. The store is single-writer;
// callers must not mutate it while a turn is in flight.
func (a *Agent) Memory() *core.Store { return a.store }

// GenerateResponse runs one conversational turn: the user input and the
// generated response are appended to the turn log and recorded as
// conversation memories, and a reflection on the exchange is derived and
// stored. The turn is serialized against all other mutations of this agent.
func (a *Agent) GenerateResponse(ctx context.Context, input string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.history = append(a.history, core.Turn{Role: "user", Content: input, Timestamp: time.Now().UTC()})
	convID := fmt.Sprintf("conv_%d", len(a.history))
	if _, err := a.store.AddConversation(convID, input, "user", a.id, func(o *core.RecordOptions) {
		o.Importance = userTurnImportance
	}); err != nil {
		return "", fmt.Errorf("record user turn: %w", err)
	}

	relevant, err := a.store.GetRelevant(input, relevantLimit)
	if err != nil {
		return "", fmt.Errorf("retrieve memories: %w", err)
	}
	a.logger.Debug("retrieved relevant memories", "agent_id", a.id, "count", len(relevant))

	contextText := a.builder.Build(input, relevant, a.history)
	systemPrompt, err := a.systemPrompt(contextText)
	if err != nil {
		return "", err
	}

	start := time.Now()
	response, err := a.generator.Generate(ctx, input, systemPrompt)
	if err != nil {
		a.logger.Error("generation failed", "agent_id", a.id, "error", err)
		return "", fmt.Errorf("generate response: %w", err)
	}
	a.logger.Debug("generation completed", "agent_id", a.id, "duration", time.Since(start))

	a.history = append(a.history, core.Turn{Role: "assistant", Content: response, Timestamp: time.Now().UTC()})
	respID := fmt.Sprintf("resp_%d", len(a.history))
	if _, err := a.store.AddConversation(respID, response, a.id, "user", func(o *core.RecordOptions) {
		o.Importance = agentTurnImportance
	}); err != nil {
		return "", fmt.Errorf("record agent turn: %w", err)
	}

	a.reflect(ctx, input, response, convID, respID)

	return response, nil
}

// systemPrompt renders the persona, assembled context and tool inventory
// into the system prompt for the generation call.
func (a *Agent) systemPrompt(contextText string) (string, error) {
	toolList := "None"
	if names := a.toolNamesLocked(); len(names) > 0 {
		toolList = strings.Join(names, ", ")
	}
	rendered, err := util.RenderTemplate(systemPromptTemplate, map[string]any{
		"Persona": a.persona,
		"Context": contextText,
		"Tools":   toolList,
	})
	if err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}
	return rendered, nil
}

// reflect derives a reflection on the exchange and stores it linked to the
// turn's conversation records. Reflection failures degrade the memory, not
// the turn, so they are logged instead of propagated.
func (a *Agent) reflect(ctx context.Context, input, response, convID, respID string) {
	reflectionPrompt, err := util.RenderTemplate(reflectionPromptTemplate, map[string]any{
		"Input":    input,
		"Response": response,
	})
	if err != nil {
		a.logger.Warn("skipping reflection", "agent_id", a.id, "error", err)
		return
	}

	content, err := a.generator.Generate(ctx, reflectionPrompt, reflectionSystemPrompt)
	if err != nil {
		a.logger.Warn("skipping reflection", "agent_id", a.id, "error", err)
		return
	}

	reflID := fmt.Sprintf("refl_%d", len(a.history))
	if _, err := a.store.AddReflection(reflID, content, []string{convID, respID}, func(o *core.RecordOptions) {
		o.Importance = reflectionImportance
	}); err != nil {
		a.logger.Warn("skipping reflection", "agent_id", a.id, "error", err)
	}
}

// Export returns the agent's durable state: the metadata document and the
// encoded memory snapshot. Taken under the agent lock so the pair is
// mutually consistent.
func (a *Agent) Export() (Metadata, snapshot.Document) {
	a.mu.Lock()
	defer a.mu.Unlock()
	meta := Metadata{
		AgentID:             a.id,
		Name:                a.name,
		Persona:             a.persona,
		CreatedAt:           a.createdAt,
		ConversationHistory: append([]core.Turn{}, a.history...),
	}
	return meta, snapshot.Encode(a.store)
}
