package segmenter

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/pincite/pincite/pkg/types"
)

//go:embed patterns.yaml
var defaultPatternsYAML []byte

// EntityPattern pairs an entity type with the regex that detects it.
type EntityPattern struct {
	Type  string `yaml:"type"`
	Regex string `yaml:"regex"`
}

type patternFile struct {
	Patterns []EntityPattern `yaml:"patterns"`
}

type compiledPattern struct {
	entityType string
	re         *regexp.Regexp
}

// EntityTagger detects typed spans in segment content using a fixed,
// ordered pattern table. It is deliberately pattern-based rather than
// model-based: tagging must be a pure function of the text so that
// re-segmenting a document reproduces the same entity index.
type EntityTagger struct {
	patterns []compiledPattern
}

// NewEntityTagger returns a tagger with the embedded default patterns.
func NewEntityTagger() *EntityTagger {
	t, err := NewEntityTaggerFromYAML(defaultPatternsYAML)
	if err != nil {
		// The embedded table is validated by tests; a bad default is a bug.
		panic(fmt.Sprintf("segmenter: invalid embedded entity patterns: %v", err))
	}
	return t
}

// NewEntityTaggerFromYAML builds a tagger from a YAML pattern table.
func NewEntityTaggerFromYAML(data []byte) (*EntityTagger, error) {
	var pf patternFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse entity patterns: %w", err)
	}

	compiled := make([]compiledPattern, 0, len(pf.Patterns))
	for _, p := range pf.Patterns {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", p.Type, err)
		}
		compiled = append(compiled, compiledPattern{entityType: p.Type, re: re})
	}

	return &EntityTagger{patterns: compiled}, nil
}

// Tag returns the entities found in content, in pattern order and then text
// order. A span claimed by an earlier pattern is not re-reported by a later
// one, so "$1,200" yields one money entity, not an extra number.
func (t *EntityTagger) Tag(content string) []types.Entity {
	var entities []types.Entity
	type span struct{ start, end int }
	var claimed []span

	overlaps := func(start, end int) bool {
		for _, c := range claimed {
			if start < c.end && c.start < end {
				return true
			}
		}
		return false
	}

	for _, p := range t.patterns {
		for _, loc := range p.re.FindAllStringIndex(content, -1) {
			if overlaps(loc[0], loc[1]) {
				continue
			}
			claimed = append(claimed, span{loc[0], loc[1]})
			entities = append(entities, types.Entity{
				Type: p.entityType,
				Text: content[loc[0]:loc[1]],
			})
		}
	}

	return entities
}
