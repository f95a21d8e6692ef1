// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/okian/mayday/internal/domain/model"
	"github.com/okian/mayday/pkg/logger"
	"github.com/okian/mayday/pkg/metrics"
)

// CallDependencies defines the interface for call processing.
type CallDependencies interface {
	Process(ctx context.Context, audio []byte) (model.Event, error)
}

// CallsHandler handles emergency call submissions.
type CallsHandler struct {
	deps           CallDependencies
	maxUploadBytes int64
}

// NewCallsHandler creates a new calls handler.
func NewCallsHandler(deps CallDependencies, maxUploadBytes int64) *CallsHandler {
	return &CallsHandler{deps: deps, maxUploadBytes: maxUploadBytes}
}

// HandlePostCall handles POST /v1/calls requests. The recording arrives
// as a multipart form with a single "audio" field.
func (h *CallsHandler) HandlePostCall(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_call"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, _, err := r.FormFile("audio")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", NewKind(op, ErrBadRequest))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	defer func() { _ = file.Close() }()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(audio) == 0 {
		writeError(w, http.StatusBadRequest, "empty_audio", NewKind(op, ErrBadRequest))
		return
	}

	// The upload is fully read at this point; a caller hanging up must
	// not abort dispatch. Operators still need the event.
	event, err := h.deps.Process(context.WithoutCancel(r.Context()), audio)
	if err != nil {
		// The cause stays in logs; callers get an opaque failure.
		logger.Get().Named("api").Error(r.Context(), "call processing failed",
			logger.Error(err),
		)
		metrics.RecordErrorByComponent("api", "processing")
		writeError(w, http.StatusInternalServerError, "processing_failed", NewKind(op, ErrProcessing))
		return
	}
	writeJSON(w, http.StatusOK, event)
}
