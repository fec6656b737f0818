// File: internal/config/config.go
// Package config implements the external configuration loader of
// spec.md §6: JSON config with environment-variable substitution and
// schema validation, decoded into the plain Go structs SuperNode walks
// through parse->check->prepare->start.
//
// Grounded on ClusterCockpit-cc-backend/pkg/schema/validate.go's
// embedded-schema Compile-then-Validate pattern (retargeted from its
// four job/cluster schema kinds to this module's single config schema)
// and on encoding/json as the wire format itself (no third-party
// serializer belongs here, see DESIGN.md).
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package config

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/config.schema.json
var schemaFS embed.FS

var compiledSchema *jsonschema.Schema

func init() {
	c := jsonschema.NewCompiler()
	f, err := schemaFS.Open("schemas/config.schema.json")
	if err != nil {
		panic(fmt.Sprintf("config: embedded schema missing: %v", err))
	}
	defer f.Close()
	if err := c.AddResource("config.schema.json", f); err != nil {
		panic(fmt.Sprintf("config: invalid embedded schema: %v", err))
	}
	s, err := c.Compile("config.schema.json")
	if err != nil {
		panic(fmt.Sprintf("config: schema compile: %v", err))
	}
	compiledSchema = s
}

// DirectionConfig is the ambient "in"/"out" block of a node-config
// entry (spec.md §6): the hook chain and batch size attached to that
// node direction, parsed generically here since every node type shares
// this wiring regardless of its own protocol-specific fields.
type DirectionConfig struct {
	Vectorize int
	QueueLen  int
	Hooks     []HookConfig
}

// NodeConfig is one entry of the top-level "nodes" object: the
// factory's registered Type plus its raw JSON config, handed to
// api.Node.Parse unmodified. In/Out are extracted ambient wiring, not
// passed to Node.Parse.
type NodeConfig struct {
	Type string
	In   DirectionConfig
	Out  DirectionConfig
	Raw  json.RawMessage
}

// HookConfig is one entry of a node-direction or path-level "hooks"
// array.
type HookConfig struct {
	Type string
	Raw  json.RawMessage
}

// PathConfig is one entry of the top-level "paths" array (spec.md §6).
type PathConfig struct {
	In       []string
	Out      []string
	Hooks    []HookConfig
	Mode     string // "any" | "all", default "any"
	Rate     float64
	Poll     bool
	QueueLen int
	Enabled  bool
}

// Config is the fully decoded configuration document.
type Config struct {
	Nodes   map[string]NodeConfig
	Paths   []PathConfig
	HTTP    json.RawMessage
	Logging json.RawMessage
	Stats   json.RawMessage
}

// rawDoc mirrors Config's shape for a first-pass json.Unmarshal, kept
// raw at the node/hook level so each factory's own fields survive
// untouched into NodeConfig.Raw/HookConfig.Raw.
type rawDoc struct {
	Nodes map[string]json.RawMessage `json:"nodes"`
	Paths []struct {
		In       []string          `json:"in"`
		Out      []string          `json:"out"`
		Hooks    []json.RawMessage `json:"hooks"`
		Mode     string            `json:"mode"`
		Rate     float64           `json:"rate"`
		Poll     bool              `json:"poll"`
		QueueLen int               `json:"queuelen"`
		Enabled  *bool             `json:"enabled"`
	} `json:"paths"`
	HTTP    json.RawMessage `json:"http"`
	Logging json.RawMessage `json:"logging"`
	Stats   json.RawMessage `json:"stats"`
}

// defaultVectorize is the batch size a node direction uses when its
// config omits "vectorize".
const defaultVectorize = 64

// defaultQueueLen is the PathDestination queue capacity used when a
// path config omits "queuelen".
const defaultQueueLen = 1024

type rawDirection struct {
	Vectorize int               `json:"vectorize"`
	QueueLen  int               `json:"queuelen"`
	Hooks     []json.RawMessage `json:"hooks"`
}

func decodeDirection(d *rawDirection) (DirectionConfig, error) {
	dc := DirectionConfig{Vectorize: defaultVectorize}
	if d == nil {
		return dc, nil
	}
	if d.Vectorize > 0 {
		dc.Vectorize = d.Vectorize
	}
	dc.QueueLen = d.QueueLen
	for i, hraw := range d.Hooks {
		var ht struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(hraw, &ht); err != nil {
			return dc, fmt.Errorf("hooks[%d]: %w", i, err)
		}
		dc.Hooks = append(dc.Hooks, HookConfig{Type: ht.Type, Raw: hraw})
	}
	return dc, nil
}

var envPattern = regexp.MustCompile(`\$\{(\w+)\}|\$(\w+)`)

// Substitute replaces "${VAR}" and "$VAR" occurrences in raw with the
// named environment variable's value (empty string if unset), per
// spec.md §6.
func Substitute(raw []byte) []byte {
	return envPattern.ReplaceAllFunc(raw, func(m []byte) []byte {
		sub := envPattern.FindSubmatch(m)
		name := string(sub[1])
		if name == "" {
			name = string(sub[2])
		}
		return []byte(os.Getenv(name))
	})
}

// Load reads, substitutes, validates, and decodes the configuration
// document at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse runs env-var substitution, schema validation, and decoding
// over an in-memory configuration document.
func Parse(raw []byte) (*Config, error) {
	raw = Substitute(raw)

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("config: invalid JSON: %w", err)
	}
	if err := compiledSchema.Validate(generic); err != nil {
		return nil, fmt.Errorf("config: schema validation: %w", err)
	}

	var doc rawDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	cfg := &Config{
		Nodes:   make(map[string]NodeConfig, len(doc.Nodes)),
		HTTP:    doc.HTTP,
		Logging: doc.Logging,
		Stats:   doc.Stats,
	}

	for name, nraw := range doc.Nodes {
		var nt struct {
			Type string        `json:"type"`
			In   *rawDirection `json:"in"`
			Out  *rawDirection `json:"out"`
		}
		if err := json.Unmarshal(nraw, &nt); err != nil {
			return nil, fmt.Errorf("config: nodes[%s]: %w", name, err)
		}
		in, err := decodeDirection(nt.In)
		if err != nil {
			return nil, fmt.Errorf("config: nodes[%s].in: %w", name, err)
		}
		out, err := decodeDirection(nt.Out)
		if err != nil {
			return nil, fmt.Errorf("config: nodes[%s].out: %w", name, err)
		}
		cfg.Nodes[name] = NodeConfig{Type: nt.Type, In: in, Out: out, Raw: nraw}
	}

	for i, p := range doc.Paths {
		mode := p.Mode
		if mode == "" {
			mode = "any"
		}
		enabled := true
		if p.Enabled != nil {
			enabled = *p.Enabled
		}
		queuelen := p.QueueLen
		if queuelen == 0 {
			queuelen = defaultQueueLen
		}
		pc := PathConfig{
			In:       p.In,
			Out:      p.Out,
			Mode:     mode,
			Rate:     p.Rate,
			Poll:     p.Poll,
			QueueLen: queuelen,
			Enabled:  enabled,
		}
		for j, hraw := range p.Hooks {
			var ht struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(hraw, &ht); err != nil {
				return nil, fmt.Errorf("config: paths[%d].hooks[%d]: %w", i, j, err)
			}
			pc.Hooks = append(pc.Hooks, HookConfig{Type: ht.Type, Raw: hraw})
		}
		cfg.Paths = append(cfg.Paths, pc)
	}

	return cfg, nil
}

// ResolvePath finds the config file to load when the CLI is invoked
// without an explicit path: $XDG_CONFIG_HOME/villas-node/config.json,
// falling back to $HOME/.config/villas-node/config.json, per spec.md
// §6's "HOME, XDG_CONFIG_HOME consulted by the external config loader".
func ResolvePath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		p := filepath.Join(xdg, "villas-node", "config.json")
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	if home := os.Getenv("HOME"); home != "" {
		p := filepath.Join(home, ".config", "villas-node", "config.json")
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: no config path given and none found under XDG_CONFIG_HOME/HOME")
}
