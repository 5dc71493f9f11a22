// Package tools implements the tool registry: the catalog of concrete desktop
// actions the orchestrator can invoke. Tools are small named functions over
// loosely-typed parameter maps; the registry owns lookup, invocation safety,
// and the natural-language signatures handed to the planner.
package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/glowdesk/glow/pkg/models"
)

// Param describes one tool parameter for signature rendering and dynamic
// spec validation.
type Param struct {
	Name     string
	Required bool
	Aliases  []string
}

// Tool is a single invocable capability.
type Tool struct {
	Name        string
	Description string
	Category    string
	Params      []Param
	// NeedsVision marks tools the orchestrator must route through the
	// vision path instead of invoking directly.
	NeedsVision bool
	Run         func(ctx context.Context, p Params) (string, error)
}

// Signature renders the tool as a one-line natural-language signature,
// e.g. "search_google(query) - Search Google for a query".
func (t Tool) Signature() string {
	names := make([]string, 0, len(t.Params))
	for _, p := range t.Params {
		n := p.Name
		if !p.Required {
			n += "?"
		}
		names = append(names, n)
	}
	return fmt.Sprintf("%s(%s) - %s", t.Name, strings.Join(names, ", "), t.Description)
}

// Registry is a synchronized catalog of tools. Reads vastly outnumber
// writes; the only writers are startup registration and dynamic tool
// creation.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	logger *zap.SugaredLogger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.SugaredLogger) *Registry {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Registry{tools: make(map[string]Tool), logger: logger}
}

// Register adds or replaces a tool. Replacing is deliberate: dynamic tools
// may refine an earlier definition under the same name.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return fmt.Errorf("tool has no name")
	}
	if t.Run == nil {
		return fmt.Errorf("tool %s has no run function", t.Name)
	}
	r.mu.Lock()
	r.tools[t.Name] = t
	r.mu.Unlock()
	return nil
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Has reports whether the named tool exists.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Names returns all tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Signatures returns one natural-language signature per tool, sorted by
// name. This is the catalog handed to the planner.
func (r *Registry) Signatures() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sigs := make([]string, 0, len(r.tools))
	for _, t := range r.tools {
		sigs = append(sigs, t.Signature())
	}
	sort.Strings(sigs)
	return sigs
}

// Categories groups tool names by category, each group sorted.
func (r *Registry) Categories() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string][]string)
	for _, t := range r.tools {
		cat := t.Category
		if cat == "" {
			cat = "General"
		}
		out[cat] = append(out[cat], t.Name)
	}
	for _, names := range out {
		sort.Strings(names)
	}
	return out
}

// Invoke runs the named tool. It never panics and never returns an error:
// unknown tools, tool errors, and panics all fold into a failed
// ExecutionResult so a single bad action cannot bring down a run.
func (r *Registry) Invoke(ctx context.Context, name string, params map[string]any) (res models.ExecutionResult) {
	res = models.ExecutionResult{Tool: name}

	defer func() {
		if p := recover(); p != nil {
			r.logger.Errorw("tool panicked", "tool", name, "panic", p)
			res.Success = false
			res.Error = fmt.Sprintf("tool %s panicked: %v", name, p)
		}
	}()

	t, ok := r.Get(name)
	if !ok {
		res.Error = fmt.Sprintf("unknown tool: %s", name)
		return res
	}

	out, err := t.Run(ctx, Params(params))
	if err != nil {
		r.logger.Warnw("tool failed", "tool", name, "error", err)
		res.Error = err.Error()
		return res
	}
	res.Success = true
	res.Result = out
	return res
}
