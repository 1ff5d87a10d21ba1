package catalogs

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed archetypes.yaml
var defaultArchetypes []byte

//go:embed archetypes.schema.json
var archetypeSchema []byte

// Catalog is the archetype capability table a match resolves agents against.
type Catalog struct {
	// Palette lists archetype ids in sorted order.
	Palette       []string
	ByID          map[string]Archetype
	PaletteDigest string
	Digest        string
}

// Archetype is one robot design. Times are seconds and rates fuel per second.
type Archetype struct {
	ID          string  `json:"id"`
	Description string  `json:"description,omitempty"`
	Capacity    int     `json:"capacity"`
	CycleMean   float64 `json:"cycle_mean"`
	CycleStdDev float64 `json:"cycle_stddev"`
	Accuracy    float64 `json:"accuracy"`

	ClimbL1        float64 `json:"climb_l1"`
	ClimbL2        float64 `json:"climb_l2"`
	ClimbL3        float64 `json:"climb_l3"`
	ClimbLevel     int     `json:"climb_level"`
	ClimbStartTime float64 `json:"climb_start_time"`

	Shooter          string  `json:"shooter"`
	Indexer          string  `json:"indexer"`
	Hopper           string  `json:"hopper,omitempty"`
	Drivetrain       string  `json:"drivetrain"`
	IntakeQuality    string  `json:"intake_quality"`
	IntakeRobustness string  `json:"intake_robustness,omitempty"`
	IntakeRate       float64 `json:"intake_rate"`
	ShootRate        float64 `json:"shoot_rate"`
	AutoFuel         int     `json:"auto_fuel"`
	AutoCycles       int     `json:"auto_cycles"`
}

// ClimbSuccess is the per-attempt success probability at level 1..3.
func (a Archetype) ClimbSuccess(level int) float64 {
	switch level {
	case 1:
		return a.ClimbL1
	case 2:
		return a.ClimbL2
	case 3:
		return a.ClimbL3
	}
	return 0
}

// CanScore reports whether the design has a shooter and a cycle to run it.
func (a Archetype) CanScore() bool {
	return a.Shooter != "" && a.Shooter != "none" && a.CycleMean > 0 && a.ShootRate > 0
}

// ScoringPotential ranks scorers: expected made fuel per second of cycle.
func (a Archetype) ScoringPotential() float64 {
	if !a.CanScore() {
		return 0
	}
	return float64(a.Capacity) * a.Accuracy / a.CycleMean
}

type document struct {
	Archetypes []Archetype `json:"archetypes"`
}

// Default returns the built-in table. It panics only if the embedded file is
// broken, which the package tests rule out.
func Default() *Catalog {
	c, err := Parse(defaultArchetypes, "yaml")
	if err != nil {
		panic(fmt.Sprintf("catalogs: embedded archetypes: %v", err))
	}
	return c
}

// Load reads a catalog file; the extension picks yaml, json or toml.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	c, err := Parse(raw, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return c, nil
}

// Parse decodes raw in the given format, validates it against the archetype
// schema and builds the catalog.
func Parse(raw []byte, format string) (*Catalog, error) {
	var generic any
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(raw, &generic); err != nil {
			return nil, fmt.Errorf("archetypes: %w", err)
		}
	case "json":
		if err := json.Unmarshal(raw, &generic); err != nil {
			return nil, fmt.Errorf("archetypes: %w", err)
		}
	case "toml":
		var m map[string]any
		if err := toml.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("archetypes: %w", err)
		}
		generic = m
	default:
		return nil, fmt.Errorf("archetypes: unsupported format %q", format)
	}

	// Normalize to plain JSON values so every format validates the same way.
	norm, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("archetypes: %w", err)
	}
	var inst any
	if err := json.Unmarshal(norm, &inst); err != nil {
		return nil, fmt.Errorf("archetypes: %w", err)
	}
	if err := validate(inst); err != nil {
		return nil, fmt.Errorf("archetypes: %w", err)
	}

	var doc document
	if err := json.Unmarshal(norm, &doc); err != nil {
		return nil, fmt.Errorf("archetypes: %w", err)
	}
	c, err := build(doc.Archetypes)
	if err != nil {
		return nil, err
	}
	c.Digest = sha256Hex(raw)
	return c, nil
}

func validate(inst any) error {
	comp := jsonschema.NewCompiler()
	if err := comp.AddResource("archetypes.schema.json", bytes.NewReader(archetypeSchema)); err != nil {
		return err
	}
	schema, err := comp.Compile("archetypes.schema.json")
	if err != nil {
		return err
	}
	return schema.Validate(inst)
}

func build(defs []Archetype) (*Catalog, error) {
	c := &Catalog{ByID: make(map[string]Archetype, len(defs))}
	for _, a := range defs {
		if a.ID == "" {
			return nil, fmt.Errorf("archetypes: empty id")
		}
		if _, dup := c.ByID[a.ID]; dup {
			return nil, fmt.Errorf("archetypes: duplicate id %q", a.ID)
		}
		if a.CanScore() && a.CycleStdDev < 0 {
			return nil, fmt.Errorf("archetypes: %s: negative cycle_stddev", a.ID)
		}
		c.ByID[a.ID] = a
	}
	c.reindex()
	return c, nil
}

func (c *Catalog) reindex() {
	ids := make([]string, 0, len(c.ByID))
	for id := range c.ByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	c.Palette = ids
	palJSON, _ := json.Marshal(ids)
	c.PaletteDigest = sha256Hex(palJSON)
}

// Lookup finds an archetype by id.
func (c *Catalog) Lookup(id string) (Archetype, bool) {
	a, ok := c.ByID[id]
	return a, ok
}

// IDs returns the archetype ids in sorted order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.Palette...)
}

// With returns a copy of c with extra archetypes added or replaced. The copy's
// Digest covers the added definitions.
func (c *Catalog) With(extra ...Archetype) *Catalog {
	out := &Catalog{ByID: make(map[string]Archetype, len(c.ByID)+len(extra))}
	for id, a := range c.ByID {
		out.ByID[id] = a
	}
	h := sha256.New()
	h.Write([]byte(c.Digest))
	for _, a := range extra {
		out.ByID[a.ID] = a
		b, _ := json.Marshal(a)
		h.Write(b)
	}
	out.Digest = hex.EncodeToString(h.Sum(nil))
	out.reindex()
	return out
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
