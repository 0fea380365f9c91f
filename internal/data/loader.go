package data

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog/units.yaml
var embedded embed.FS

const catalogFile = "units.yaml"

type catalogFileModel struct {
	Units []*UnitTemplate `yaml:"units"`
}

// Catalog is the read-only species table, keyed by species id.
type Catalog struct {
	byID  map[string]*UnitTemplate
	order []string
}

// Get returns the template for id.
func (c *Catalog) Get(id string) (*UnitTemplate, bool) {
	t, ok := c.byID[strings.ToLower(id)]
	return t, ok
}

// MustGet panics on unknown ids. Meant for tests and static tables.
func (c *Catalog) MustGet(id string) *UnitTemplate {
	t, ok := c.Get(id)
	if !ok {
		panic(fmt.Sprintf("unknown species %q", id))
	}
	return t
}

// All lists every species in load order.
func (c *Catalog) All() []*UnitTemplate {
	out := make([]*UnitTemplate, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Len returns the number of species.
func (c *Catalog) Len() int {
	return len(c.order)
}

// NewCatalog builds a catalog from explicit templates, validating each one.
func NewCatalog(templates ...*UnitTemplate) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*UnitTemplate)}
	for _, t := range templates {
		if err := c.put(t); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) put(t *UnitTemplate) error {
	if err := t.validate(); err != nil {
		return err
	}
	t.ID = strings.ToLower(t.ID)
	if _, exists := c.byID[t.ID]; !exists {
		c.order = append(c.order, t.ID)
	}
	c.byID[t.ID] = t
	return nil
}

// Loader reads the species table from the embedded default and the given
// override directories, later directories winning.
type Loader struct {
	dataDirs []string
}

// NewLoader initializes a Loader with the given override directory hierarchy.
func NewLoader(dataDirs []string) *Loader {
	return &Loader{
		dataDirs: dataDirs,
	}
}

// LoadCatalog decodes the embedded table and overlays every units.yaml found.
func (l *Loader) LoadCatalog() (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*UnitTemplate)}

	raw, err := embedded.ReadFile("catalog/" + catalogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded catalog: %w", err)
	}
	if err := c.merge(raw, "embedded"); err != nil {
		return nil, err
	}

	for _, dir := range l.dataDirs {
		path := filepath.Join(dir, catalogFile)
		raw, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
		}
		if err := c.merge(raw, path); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) merge(raw []byte, source string) error {
	var model catalogFileModel
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&model); err != nil {
		return fmt.Errorf("failed to decode catalog %s: %w", source, err)
	}

	names := make(map[string]string, len(model.Units))
	for _, t := range model.Units {
		key := strings.ToLower(strings.TrimSpace(t.Name))
		if prev, dup := names[key]; dup {
			return fmt.Errorf("catalog %s: duplicate unit name %q (%s, %s)", source, t.Name, prev, t.ID)
		}
		names[key] = t.ID
		if err := c.put(t); err != nil {
			return fmt.Errorf("catalog %s: %w", source, err)
		}
	}
	return nil
}

// Names returns the sorted display names, handy for help output.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.order))
	for _, t := range c.byID {
		out = append(out, t.Name)
	}
	sort.Strings(out)
	return out
}
