// Package model defines the core data types used throughout the webhook router.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// JobStatus represents the lifecycle status reported for a workflow job.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type JobStatus string

const (
	// JobStatusQueued indicates the workflow job is waiting for a runner.
	JobStatusQueued JobStatus = "queued"
	// JobStatusInProgress indicates the workflow job is running.
	JobStatusInProgress JobStatus = "in_progress"
	// JobStatusCompleted indicates the workflow job has finished.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusWaiting indicates the workflow job is waiting for approval.
	JobStatusWaiting JobStatus = "waiting"
)

// Valid returns true if the JobStatus is one of the four known values.
func (s JobStatus) Valid() bool {
	return s == JobStatusQueued || s == JobStatusInProgress || s == JobStatusCompleted ||
		s == JobStatusWaiting
}

// UnmarshalText implements encoding.TextUnmarshaler so unknown statuses fail early.
func (s *JobStatus) UnmarshalText(text []byte) error {
	v := JobStatus(strings.TrimSpace(string(text)))
	if !v.Valid() {
		return fmt.Errorf("invalid JobStatus: %q", string(text))
	}
	*s = v
	return nil
}

// Job is the immutable value parsed from one workflow_job webhook payload.
// Label casing is preserved as received; all matching downstream is
// case-insensitive.
type Job struct {
	Labels []string  `json:"labels"`
	Status JobStatus `json:"status"`
	RunURL string    `json:"run_url"`
}

// FlavorLabels pairs one flavor with the labels configured to select it.
type FlavorLabels struct {
	Flavor string   `json:"flavor"`
	Labels []string `json:"labels"`
}

// FlavorLabelsMapping is the ordered flavor→labels configuration. Order is
// preserved through table inversion for reproducibility; overlapping labels
// are rejected at build time rather than resolved by position.
type FlavorLabelsMapping []FlavorLabels

// UnmarshalText implements encoding.TextUnmarshaler so the mapping can be
// loaded directly from a JSON-valued environment variable.
func (m *FlavorLabelsMapping) UnmarshalText(text []byte) error {
	if len(strings.TrimSpace(string(text))) == 0 {
		*m = nil
		return nil
	}
	var parsed []FlavorLabels
	if err := json.Unmarshal(text, &parsed); err != nil {
		return fmt.Errorf("parse flavor mapping: %w", err)
	}
	*m = parsed
	return nil
}

// Validate checks structural constraints on the mapping: at least one entry,
// non-empty unique flavor names.
func (m FlavorLabelsMapping) Validate() error {
	if len(m) == 0 {
		return errors.New("at least one flavor is required")
	}
	seen := make(map[string]struct{}, len(m))
	for _, fl := range m {
		flavor := strings.TrimSpace(fl.Flavor)
		if flavor == "" {
			return errors.New("flavor name must not be empty")
		}
		if _, dup := seen[flavor]; dup {
			return fmt.Errorf("duplicate flavor %q", flavor)
		}
		seen[flavor] = struct{}{}
	}
	return nil
}
