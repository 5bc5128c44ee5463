package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/target/runner-webhook-router/internal/errors"
	"github.com/target/runner-webhook-router/internal/webhook"
)

// maxPayloadBytes caps webhook bodies at GitHub's own payload limit.
const maxPayloadBytes = 25 << 20

const eventHeader = "X-GitHub-Event"

// WebhookProcessor defines the minimal behavior the handler needs from the
// webhook service.
type WebhookProcessor interface {
	Process(ctx context.Context, event string, payload []byte) error
}

// WebhookHandlers handles webhook ingestion requests.
type WebhookHandlers struct {
	Svc WebhookProcessor
	// Secret is the shared HMAC secret. When empty, signature verification
	// is disabled, which is only acceptable in local development.
	Secret string
}

// Receive accepts one webhook delivery: verify the signature, hand the
// payload to the service, and map service errors onto status codes. Senders
// retry on non-2xx, so only failures where a retry can help (queue errors)
// return 5xx; malformed or unroutable payloads are permanent and return 4xx.
func (h *WebhookHandlers) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes+1))
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "unreadable_body", Err: err})
		return
	}
	if len(body) > maxPayloadBytes {
		WriteError(w, ErrorParams{
			Code:    http.StatusRequestEntityTooLarge,
			ErrCode: "payload_too_large",
			Err:     errors.New("payload exceeds size limit"),
		})
		return
	}

	if h.Secret != "" {
		header := r.Header.Get(webhook.SignatureHeader)
		if !webhook.VerifySignature(body, h.Secret, header) {
			WriteError(w, ErrorParams{
				Code:    http.StatusForbidden,
				ErrCode: "invalid_signature",
				Err:     errors.New("signature verification failed"),
			})
			return
		}
	}

	if err := h.Svc.Process(r.Context(), r.Header.Get(eventHeader), body); err != nil {
		writeProcessError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{})
}

func writeProcessError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsValidation(err):
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_payload", Err: err})
	case apperrors.IsRoutable(err):
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: string(apperrors.GetCode(err)),
			Err:     err,
		})
	case apperrors.IsPublish(err):
		WriteError(w, ErrorParams{Code: http.StatusBadGateway, ErrCode: "queue_unavailable", Err: err})
	default:
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal", Err: err})
	}
}
