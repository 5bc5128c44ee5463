package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/runner-webhook-router/internal/domain/model"
	apperrors "github.com/target/runner-webhook-router/internal/errors"
)

const workflowJobPayload = `{
	"action": "queued",
	"workflow_job": {
		"id": 22428484402,
		"run_url": "https://api.github.com/repos/acme/infra/actions/runs/8200803099",
		"labels": ["self-hosted", "Large", "X64"]
	},
	"repository": {"name": "infra", "owner": {"login": "acme"}}
}`

func TestParseJob(t *testing.T) {
	job, err := ParseJob(SupportedEvent, []byte(workflowJobPayload))
	require.NoError(t, err)

	assert.Equal(t, model.Job{
		Labels: []string{"self-hosted", "Large", "X64"},
		Status: model.JobStatusQueued,
		RunURL: "https://api.github.com/repos/acme/infra/actions/runs/8200803099",
	}, job)
}

func TestParseJobPreservesLabelCasing(t *testing.T) {
	job, err := ParseJob(SupportedEvent, []byte(workflowJobPayload))
	require.NoError(t, err)
	assert.Contains(t, job.Labels, "Large")
	assert.Contains(t, job.Labels, "X64")
}

func TestParseJobEmptyLabels(t *testing.T) {
	payload := `{"action":"queued","workflow_job":{"run_url":"https://api.github.com/r","labels":[]}}`
	job, err := ParseJob(SupportedEvent, []byte(payload))
	require.NoError(t, err)
	assert.Empty(t, job.Labels)
}

func TestParseJobUnsupportedEvent(t *testing.T) {
	_, err := ParseJob("push", []byte(workflowJobPayload))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "not supported")
}

func TestParseJobInvalidJSON(t *testing.T) {
	_, err := ParseJob(SupportedEvent, []byte(`{not json`))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestParseJobMissingOrMalformedFields(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{
			name:    "missing action",
			payload: `{"workflow_job":{"run_url":"https://api.github.com/r","labels":[]}}`,
		},
		{
			name:    "missing workflow_job",
			payload: `{"action":"queued"}`,
		},
		{
			name:    "missing labels",
			payload: `{"action":"queued","workflow_job":{"run_url":"https://api.github.com/r"}}`,
		},
		{
			name:    "missing run_url",
			payload: `{"action":"queued","workflow_job":{"labels":["x"]}}`,
		},
		{
			name:    "labels not a list",
			payload: `{"action":"queued","workflow_job":{"run_url":"https://api.github.com/r","labels":"x"}}`,
		},
		{
			name:    "non-string label",
			payload: `{"action":"queued","workflow_job":{"run_url":"https://api.github.com/r","labels":[1]}}`,
		},
		{
			name:    "workflow_job not an object",
			payload: `{"action":"queued","workflow_job":"nope"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJob(SupportedEvent, []byte(tt.payload))
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestParseJobUnknownStatus(t *testing.T) {
	payload := `{"action":"requested","workflow_job":{"run_url":"https://api.github.com/r","labels":[]}}`
	_, err := ParseJob(SupportedEvent, []byte(payload))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "unknown job status")
}
