package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dynamic tools are declarative: a ToolSpec is data that composes a fixed
// set of primitive operations. The planner can define new tools at runtime,
// but it can only arrange primitives, never supply executable code.

// Primitive op names a ToolSpec step may use.
const (
	OpLaunch    = "launch"
	OpNavigate  = "navigate"
	OpSearch    = "search"
	OpShell     = "shell"
	OpWriteFile = "write_file"
)

// SpecParam declares one parameter of a dynamic tool.
type SpecParam struct {
	Name     string   `yaml:"name" json:"name"`
	Required bool     `yaml:"required" json:"required"`
	Aliases  []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// SpecStep is one primitive invocation. Args values may reference tool
// parameters as "{param}" placeholders.
type SpecStep struct {
	Op   string            `yaml:"op" json:"op"`
	Args map[string]string `yaml:"args" json:"args"`
}

// ToolSpec is the full declarative definition of a dynamic tool.
type ToolSpec struct {
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description" json:"description"`
	Params      []SpecParam `yaml:"params,omitempty" json:"params,omitempty"`
	Steps       []SpecStep  `yaml:"steps" json:"steps"`
}

var specNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ParseSpec decodes a ToolSpec from YAML or JSON.
func ParseSpec(data []byte) (*ToolSpec, error) {
	var spec ToolSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse tool spec: %w", err)
	}
	return &spec, nil
}

// Validate checks the spec against the primitive set and the shell
// allow-list. An invalid spec is rejected before registration.
func (s *ToolSpec) Validate(shellAllowList []string) error {
	if !specNameRe.MatchString(s.Name) {
		return fmt.Errorf("invalid tool name %q: must be snake_case", s.Name)
	}
	if s.Description == "" {
		return fmt.Errorf("tool %s has no description", s.Name)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("tool %s has no steps", s.Name)
	}

	params := make(map[string]bool)
	for _, p := range s.Params {
		if !specNameRe.MatchString(p.Name) {
			return fmt.Errorf("tool %s: invalid parameter name %q", s.Name, p.Name)
		}
		params[p.Name] = true
	}

	for i, step := range s.Steps {
		switch step.Op {
		case OpLaunch, OpNavigate, OpSearch, OpWriteFile:
		case OpShell:
			cmd := step.Args["command"]
			if cmd == "" {
				return fmt.Errorf("tool %s step %d: shell op needs a command", s.Name, i+1)
			}
			if !shellAllowed(cmd, shellAllowList) {
				return fmt.Errorf("tool %s step %d: command %q not in allow list", s.Name, i+1, cmd)
			}
		default:
			return fmt.Errorf("tool %s step %d: unknown op %q", s.Name, i+1, step.Op)
		}
		for _, v := range step.Args {
			for _, ref := range placeholderRe.FindAllStringSubmatch(v, -1) {
				if !params[ref[1]] {
					return fmt.Errorf("tool %s step %d: unknown parameter reference {%s}", s.Name, i+1, ref[1])
				}
			}
		}
	}
	return nil
}

// shellAllowed matches the command's executable name against the allow list.
// Placeholders are never allowed in the executable position.
func shellAllowed(command string, allowList []string) bool {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return false
	}
	exe := filepath.Base(fields[0])
	if strings.Contains(exe, "{") {
		return false
	}
	for _, allowed := range allowList {
		if exe == allowed {
			return true
		}
	}
	return false
}

var placeholderRe = regexp.MustCompile(`\{([a-z][a-z0-9_]*)\}`)

// expand substitutes {param} placeholders with parameter values.
func expand(template string, p Params, spec *ToolSpec) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderRe.FindStringSubmatch(match)[1]
		keys := []string{name}
		for _, sp := range spec.Params {
			if sp.Name == name {
				keys = append(keys, sp.Aliases...)
			}
		}
		if v := p.String(keys...); v != "" {
			return v
		}
		return match
	})
}

// DynamicDeps are the capabilities dynamic tool steps execute against.
type DynamicDeps struct {
	Launcher Launcher
	Browser  *Browser
	// ShellAllowList is the set of executables the shell op may run.
	ShellAllowList []string
	// SandboxRoot confines write_file paths; empty means the user's home.
	SandboxRoot string
	// RunShell executes an allow-listed command. Production wires an
	// exec.CommandContext runner; tests substitute a recorder.
	RunShell func(ctx context.Context, command string) (string, error)
}

// Build turns a validated spec into an invocable Tool.
func (s *ToolSpec) Build(deps DynamicDeps) Tool {
	params := make([]Param, 0, len(s.Params))
	for _, p := range s.Params {
		params = append(params, Param{Name: p.Name, Required: p.Required, Aliases: p.Aliases})
	}
	spec := *s

	return Tool{
		Name:        spec.Name,
		Description: spec.Description,
		Category:    "Dynamic",
		Params:      params,
		Run: func(ctx context.Context, p Params) (string, error) {
			for _, sp := range spec.Params {
				if sp.Required {
					keys := append([]string{sp.Name}, sp.Aliases...)
					if p.String(keys...) == "" {
						return "", fmt.Errorf("missing required parameter %q", sp.Name)
					}
				}
			}

			var outputs []string
			for i, step := range spec.Steps {
				out, err := runSpecStep(ctx, step, p, &spec, deps)
				if err != nil {
					return "", fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
				}
				if out != "" {
					outputs = append(outputs, out)
				}
			}
			if len(outputs) == 0 {
				return fmt.Sprintf("%s completed", spec.Name), nil
			}
			return strings.Join(outputs, "\n"), nil
		},
	}
}

func runSpecStep(ctx context.Context, step SpecStep, p Params, spec *ToolSpec, deps DynamicDeps) (string, error) {
	args := make(map[string]string, len(step.Args))
	for k, v := range step.Args {
		args[k] = expand(v, p, spec)
	}

	switch step.Op {
	case OpLaunch:
		if deps.Launcher == nil {
			return "", fmt.Errorf("no launcher available")
		}
		cmd, err := deps.Launcher.Launch(ctx, args["app"])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Launched %s", cmd), nil

	case OpNavigate:
		if deps.Browser == nil {
			return "", fmt.Errorf("no browser available")
		}
		return deps.Browser.OpenWebsite(ctx, args["url"])

	case OpSearch:
		if deps.Browser == nil {
			return "", fmt.Errorf("no browser available")
		}
		return deps.Browser.SearchGoogle(ctx, args["query"])

	case OpShell:
		// Validate again at run time: the allow list may have narrowed
		// since the spec was registered.
		if !shellAllowed(args["command"], deps.ShellAllowList) {
			return "", fmt.Errorf("command %q not in allow list", args["command"])
		}
		if deps.RunShell == nil {
			return "", fmt.Errorf("no shell runner available")
		}
		return deps.RunShell(ctx, args["command"])

	case OpWriteFile:
		path, err := sandboxPath(args["path"], deps.SandboxRoot)
		if err != nil {
			return "", err
		}
		return writeFile(path, args["content"])

	default:
		return "", fmt.Errorf("unknown op %q", step.Op)
	}
}

// sandboxPath confines a write target under the sandbox root.
func sandboxPath(path, root string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("no path given")
	}
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home: %w", err)
		}
		root = home
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	if abs != rootAbs && !strings.HasPrefix(abs, rootAbs+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s escapes sandbox %s", abs, rootAbs)
	}
	return abs, nil
}

// LoadSpecDir parses, validates and registers every spec file in dir.
// Missing dir is not an error. Returns the names registered.
func LoadSpecDir(reg *Registry, dir string, deps DynamicDeps) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read spec dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml" && ext != ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return names, fmt.Errorf("read spec %s: %w", e.Name(), err)
		}
		spec, err := ParseSpec(data)
		if err != nil {
			return names, fmt.Errorf("spec %s: %w", e.Name(), err)
		}
		if err := spec.Validate(deps.ShellAllowList); err != nil {
			return names, fmt.Errorf("spec %s: %w", e.Name(), err)
		}
		if err := reg.Register(spec.Build(deps)); err != nil {
			return names, err
		}
		names = append(names, spec.Name)
	}
	return names, nil
}

// SaveSpec persists a spec as YAML in dir so it survives restarts.
func SaveSpec(dir string, spec *ToolSpec) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create spec dir: %w", err)
	}
	data, err := yaml.Marshal(spec)
	if err != nil {
		return fmt.Errorf("encode spec: %w", err)
	}
	path := filepath.Join(dir, spec.Name+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write spec: %w", err)
	}
	return nil
}
