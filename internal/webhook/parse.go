package webhook

import (
	"encoding/json"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/target/runner-webhook-router/internal/domain/model"
	apperrors "github.com/target/runner-webhook-router/internal/errors"
)

// SupportedEvent is the only webhook event kind the router translates.
const SupportedEvent = "workflow_job"

// JMESPath expressions plucking the required fields out of the payload.
const (
	actionExpr = "action"
	labelsExpr = "workflow_job.labels"
	runURLExpr = "workflow_job.run_url"
)

// ParseJob translates one raw webhook payload into a Job. It fails with a
// validation error when the event kind is unsupported, the payload is not
// valid JSON, a required field is missing or malformed, or the status is not
// one of the known workflow job statuses. Label casing is preserved.
func ParseJob(event string, payload []byte) (model.Job, error) {
	if event != SupportedEvent {
		return model.Job{}, apperrors.Validationf("event %q not supported", event)
	}

	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return model.Job{}, apperrors.Wrap(err, apperrors.ErrCodeValidation, "decode payload")
	}

	action, err := searchString(actionExpr, doc)
	if err != nil {
		return model.Job{}, err
	}
	runURL, err := searchString(runURLExpr, doc)
	if err != nil {
		return model.Job{}, err
	}
	labels, err := searchLabels(doc)
	if err != nil {
		return model.Job{}, err
	}

	status := model.JobStatus(action)
	if !status.Valid() {
		return model.Job{}, apperrors.Validationf("unknown job status %q", action)
	}

	return model.Job{
		Labels: labels,
		Status: status,
		RunURL: runURL,
	}, nil
}

func searchString(expr string, doc any) (string, error) {
	v, err := jmespath.Search(expr, doc)
	if err != nil {
		return "", apperrors.Wrapf(err, apperrors.ErrCodeValidation, "evaluate %q", expr)
	}
	if v == nil {
		return "", apperrors.Validationf("%s not found in payload", expr)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", apperrors.Validationf("%s is not a non-empty string", expr)
	}
	return s, nil
}

func searchLabels(doc any) ([]string, error) {
	v, err := jmespath.Search(labelsExpr, doc)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeValidation, "evaluate %q", labelsExpr)
	}
	if v == nil {
		return nil, apperrors.Validationf("%s not found in payload", labelsExpr)
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, apperrors.Validationf("%s is not a list", labelsExpr)
	}

	// An empty label list is legal; GitHub sends it for jobs without runs-on.
	labels := make([]string, 0, len(raw))
	for _, item := range raw {
		label, ok := item.(string)
		if !ok {
			return nil, apperrors.Validationf("%s contains a non-string entry", labelsExpr)
		}
		labels = append(labels, label)
	}
	return labels, nil
}
