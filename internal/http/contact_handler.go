package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/contact"
)

type ContactHandler struct {
	repo   contact.Repository
	logger *slog.Logger
}

func NewContactHandler(repo contact.Repository, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{repo: repo, logger: logger}
}

// Submit takes the public contact form. New messages always start pending.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var form contactForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if fields := form.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	msg, err := h.repo.Create(ctx, contact.Message{
		Name:  form.Name,
		Phone: form.Phone,
		Email: form.Email,
		Body:  form.Message,
	})
	if err != nil {
		h.logger.Error("create contact message failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not send message")
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

func (h *ContactHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	messages, err := h.repo.List(ctx)
	if err != nil {
		h.logger.Error("list contact messages failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load messages")
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

func (h *ContactHandler) UpdateMessageStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("messageId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid message id")
		return
	}

	var body struct {
		Status contact.Status `json:"estado"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !body.Status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown estado")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.repo.UpdateStatus(ctx, id, body.Status); err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			writeError(w, http.StatusNotFound, "message not found")
			return
		}
		h.logger.Error("update message status failed", "error", err, "message_id", id)
		writeError(w, http.StatusInternalServerError, "could not update message")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": id, "estado": body.Status})
}

// Respond stores the reply and stamps the message responded.
func (h *ContactHandler) Respond(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("messageId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid message id")
		return
	}

	var body struct {
		Response string `json:"respuesta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Response == "" {
		writeError(w, http.StatusBadRequest, "respuesta is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.repo.Respond(ctx, id, body.Response); err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			writeError(w, http.StatusNotFound, "message not found")
			return
		}
		h.logger.Error("respond to message failed", "error", err, "message_id", id)
		writeError(w, http.StatusInternalServerError, "could not store response")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": id, "estado": contact.StatusResponded})
}
