// Package routing builds the label→flavor routing table and routes jobs
// against it.
package routing

import (
	"strings"

	"github.com/target/runner-webhook-router/internal/domain/model"
	apperrors "github.com/target/runner-webhook-router/internal/errors"
)

// Table is the compiled, read-only routing structure: a case-insensitive
// label→flavor map, the set of labels excluded from matching, and the flavor
// used when a job carries no routable labels. Build a new Table and swap it
// via Snapshot on reload; never mutate a live one.
type Table struct {
	labels        map[string]string
	ignore        map[string]struct{}
	flavors       []string
	defaultFlavor string
}

// TableOptions groups the configuration inputs for BuildTable.
type TableOptions struct {
	// Mapping is the ordered flavor→labels configuration.
	Mapping model.FlavorLabelsMapping
	// IgnoreLabels are excluded from matching (e.g. "self-hosted", "linux").
	IgnoreLabels []string
	// DefaultFlavor receives jobs whose labels are all ignored or absent.
	DefaultFlavor string
}

// BuildTable inverts the ordered flavor→labels mapping into a label→flavor
// table. It fails with a configuration error when the same non-ignored label
// (case-insensitive) appears under two different flavors: ambiguous
// configuration must be rejected at load time, never left to misroute a live
// job. Input order is preserved through the inversion for reproducibility but
// does not resolve overlaps.
func BuildTable(opts TableOptions) (*Table, error) {
	if err := opts.Mapping.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfiguration, "invalid flavor mapping")
	}

	defaultFlavor := strings.TrimSpace(opts.DefaultFlavor)
	if defaultFlavor == "" {
		return nil, apperrors.Configuration("default flavor is required")
	}

	ignore := make(map[string]struct{}, len(opts.IgnoreLabels))
	for _, label := range opts.IgnoreLabels {
		label = strings.ToLower(strings.TrimSpace(label))
		if label != "" {
			ignore[label] = struct{}{}
		}
	}

	labels := make(map[string]string)
	for _, fl := range opts.Mapping {
		for _, label := range fl.Labels {
			label = strings.ToLower(strings.TrimSpace(label))
			if label == "" {
				continue
			}
			if _, ignored := ignore[label]; ignored {
				continue
			}
			if existing, dup := labels[label]; dup && existing != fl.Flavor {
				return nil, apperrors.Configurationf(
					"label %q is mapped to both flavor %q and flavor %q",
					label, existing, fl.Flavor,
				)
			}
			labels[label] = fl.Flavor
		}
	}

	flavors := make([]string, 0, len(opts.Mapping)+1)
	seen := make(map[string]struct{}, len(opts.Mapping)+1)
	for _, fl := range opts.Mapping {
		if _, ok := seen[fl.Flavor]; ok {
			continue
		}
		seen[fl.Flavor] = struct{}{}
		flavors = append(flavors, fl.Flavor)
	}
	if _, ok := seen[defaultFlavor]; !ok {
		flavors = append(flavors, defaultFlavor)
	}

	return &Table{
		labels:        labels,
		ignore:        ignore,
		flavors:       flavors,
		defaultFlavor: defaultFlavor,
	}, nil
}

// DefaultFlavor returns the flavor for jobs without routable labels.
func (t *Table) DefaultFlavor() string {
	return t.defaultFlavor
}

// Flavors returns the distinct flavors in configuration order, with the
// default flavor appended when it is not part of the mapping.
func (t *Table) Flavors() []string {
	out := make([]string, len(t.flavors))
	copy(out, t.flavors)
	return out
}

// lookup returns the flavor mapped to a lowercased label, if any.
func (t *Table) lookup(label string) (string, bool) {
	flavor, ok := t.labels[label]
	return flavor, ok
}

// ignored reports whether a lowercased label is excluded from matching.
func (t *Table) ignored(label string) bool {
	_, ok := t.ignore[label]
	return ok
}
