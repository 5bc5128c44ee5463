package routing

import (
	"sort"
	"strings"

	"github.com/target/runner-webhook-router/internal/domain/model"
	apperrors "github.com/target/runner-webhook-router/internal/errors"
)

// Route maps a job's labels to exactly one flavor. Labels are lowercased and
// the table's ignore set subtracted; a job left with no labels routes to the
// default flavor. The job fails with no_matching_flavor when none of its
// labels is known, and with ambiguous_labels when its labels span more than
// one flavor. The latter is a per-job condition: the table itself has no
// overlap (BuildTable rejects that), but a single job may legitimately carry
// labels belonging to different flavors.
func Route(job model.Job, table *Table) (string, error) {
	remaining := make([]string, 0, len(job.Labels))
	for _, label := range job.Labels {
		label = strings.ToLower(label)
		if table.ignored(label) {
			continue
		}
		remaining = append(remaining, label)
	}

	if len(remaining) == 0 {
		return table.DefaultFlavor(), nil
	}

	matched := make(map[string]struct{})
	for _, label := range remaining {
		if flavor, ok := table.lookup(label); ok {
			matched[flavor] = struct{}{}
		}
	}

	switch len(matched) {
	case 0:
		return "", apperrors.NoMatchingFlavorf("no flavor matches labels %v", remaining)
	case 1:
		for flavor := range matched {
			return flavor, nil
		}
	}

	flavors := make([]string, 0, len(matched))
	for flavor := range matched {
		flavors = append(flavors, flavor)
	}
	sort.Strings(flavors)
	return "", apperrors.AmbiguousLabelsf("labels %v span flavors %v", remaining, flavors)
}
