package train

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/model"
	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/pipeline"
)

// ErrInvalidConfig marks a training configuration rejected before any
// fitting starts.
var ErrInvalidConfig = errors.New("train: invalid training config")

// Grid maps a classifier hyperparameter name to the values to search.
type Grid map[string][]int

// DefaultGrid is the search space used when none is given.
func DefaultGrid() Grid {
	return Grid{
		model.ParamNEstimators: {100, 200},
		model.ParamMaxDepth:    {8, 12},
	}
}

// ParseGrid reads "name=v1,v2;name=v3" into a Grid.
func ParseGrid(s string) (Grid, error) {
	g := Grid{}
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, list, ok := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: grid entry %q is not name=values", ErrInvalidConfig, part)
		}
		if _, dup := g[name]; dup {
			return nil, fmt.Errorf("%w: grid entry %q repeated", ErrInvalidConfig, name)
		}
		var values []int
		for _, raw := range strings.Split(list, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			v, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %s value %q is not an integer", ErrInvalidConfig, name, raw)
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("%w: %s has no values", ErrInvalidConfig, name)
		}
		g[name] = values
	}
	return g, nil
}

// Keys returns the parameter names in sorted order.
func (g Grid) Keys() []string {
	return slices.Sorted(maps.Keys(g))
}

// Combinations expands the grid in search order: names sorted, the last name
// varying fastest. An empty grid has one empty combination.
func (g Grid) Combinations() []map[string]int {
	keys := g.Keys()
	combos := []map[string]int{{}}
	for _, k := range keys {
		var next []map[string]int
		for _, c := range combos {
			for _, v := range g[k] {
				m := maps.Clone(c)
				m[k] = v
				next = append(next, m)
			}
		}
		combos = next
	}
	return combos
}

// Validate applies every combination to a copy of base and reports the
// first one the classifier rejects.
func (g Grid) Validate(base *pipeline.Pipeline) error {
	for _, k := range g.Keys() {
		if len(g[k]) == 0 {
			return fmt.Errorf("%w: %s has no values", ErrInvalidConfig, k)
		}
	}
	for _, c := range g.Combinations() {
		if err := base.Clone().SetParams(c); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

func (g Grid) String() string {
	parts := make([]string, 0, len(g))
	for _, k := range g.Keys() {
		vals := make([]string, len(g[k]))
		for i, v := range g[k] {
			vals[i] = strconv.Itoa(v)
		}
		parts = append(parts, k+"="+strings.Join(vals, ","))
	}
	return strings.Join(parts, ";")
}
