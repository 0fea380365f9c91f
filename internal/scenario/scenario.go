package scenario

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/suderio/warband/internal/data"
	"github.com/suderio/warband/internal/engine"
	"gopkg.in/yaml.v3"
)

// Hero is the overworld side of a scenario.
type Hero struct {
	Leadership      int            `yaml:"leadership"`
	SpellPower      int            `yaml:"spell_power"`
	Difficulty      int            `yaml:"difficulty"`
	FollowersKilled int            `yaml:"followers_killed"`
	Spells          map[string]int `yaml:"spells"`
	Artifacts       []string       `yaml:"artifacts"`
	Morales         []string       `yaml:"morales"` // derived from the army when omitted
}

// Scenario is a reproducible battle setup.
type Scenario struct {
	Name    string          `yaml:"name"`
	Kind    string          `yaml:"kind"`
	Villain string          `yaml:"villain"`
	Payout  string          `yaml:"payout"`
	Hero    Hero            `yaml:"hero"`
	Player  []*engine.Stack `yaml:"player"`
	Enemy   []*engine.Stack `yaml:"enemy"`
	Terrain []string        `yaml:"terrain"`
}

// Load decodes a scenario file. The name defaults to the file's base name.
func Load(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	s, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes a scenario document, rejecting unknown fields.
func Parse(raw []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	if len(s.Player) > engine.SlotCount || len(s.Enemy) > engine.SlotCount {
		return nil, fmt.Errorf("an army has at most %d slots", engine.SlotCount)
	}
	return &s, nil
}

// Params resolves the scenario against a catalog into battle parameters. The
// caller fills in the optional collaborators (roller, delay, logger, payout).
func (s *Scenario) Params(cat *data.Catalog) (engine.StartParams, error) {
	p := engine.StartParams{Catalog: cat, Villain: s.Villain}

	switch strings.ToLower(s.Kind) {
	case "", "encounter":
		p.Kind = engine.KindEncounter
	case "siege":
		p.Kind = engine.KindSiege
	default:
		return p, fmt.Errorf("unknown battle kind %q", s.Kind)
	}

	copy(p.Player[:], s.Player)
	copy(p.Enemy[:], s.Enemy)

	terrain, err := engine.ParseTerrain(s.Terrain)
	if err != nil {
		return p, err
	}
	p.Terrain = terrain

	world, err := s.Hero.overworld(cat, p.Player)
	if err != nil {
		return p, err
	}
	p.World = world
	return p, nil
}

func (h Hero) overworld(cat *data.Catalog, army [engine.SlotCount]*engine.Stack) (*engine.Overworld, error) {
	w := &engine.Overworld{
		Leadership:      h.Leadership,
		SpellPower:      h.SpellPower,
		Difficulty:      h.Difficulty,
		FollowersKilled: h.FollowersKilled,
	}
	for name, n := range h.Spells {
		id, err := engine.ParseSpellID(name)
		if err != nil {
			return nil, err
		}
		w.Spells[id] = n
	}
	for _, name := range h.Artifacts {
		a, err := engine.ParseArtifact(name)
		if err != nil {
			return nil, err
		}
		w.Artifacts[a] = true
	}

	if len(h.Morales) > 0 {
		if len(h.Morales) > engine.SlotCount {
			return nil, fmt.Errorf("at most %d morales", engine.SlotCount)
		}
		for i, m := range h.Morales {
			morale, err := data.ParseMorale(m)
			if err != nil {
				return nil, err
			}
			w.ArmyMorales[i] = morale
		}
		return w, nil
	}

	var groups [engine.SlotCount]data.MoraleGroup
	for i, st := range army {
		groups[i] = data.MoraleGroupUnknown
		if st == nil {
			continue
		}
		if t, ok := cat.Get(st.Species); ok {
			groups[i] = t.MoraleGroup
		}
	}
	w.ArmyMorales = data.ArmyMorale(groups)
	return w, nil
}
