package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/autotrack/autotrack/internal/assistant"
	"github.com/autotrack/autotrack/internal/auth"
	"github.com/autotrack/autotrack/internal/handler/dto"
	"github.com/autotrack/autotrack/internal/model"
	"github.com/autotrack/autotrack/internal/service"
)

// ChatHandler forwards maintenance questions to the assistant service.
type ChatHandler struct {
	assistant *assistant.Client
	cars      *service.CarService
	logger    *slog.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(client *assistant.Client, cars *service.CarService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		assistant: client,
		cars:      cars,
		logger:    logger,
	}
}

// Chat handles POST /api/v1/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustIdentityFromContext(r.Context()).UserID

	var req dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "message is required")
		return
	}

	var car *model.Car
	if req.CarID != "" {
		found, err := h.cars.GetCar(r.Context(), userID, req.CarID)
		if err != nil {
			handleServiceError(w, h.logger, err)
			return
		}
		car = found
	}

	reply, err := h.assistant.Ask(r.Context(), req.Message, car)
	if err != nil {
		if errors.Is(err, assistant.ErrNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, "ASSISTANT_UNAVAILABLE", "Assistant is not configured")
			return
		}
		h.logger.Error("assistant_error", "error", err)
		writeError(w, http.StatusBadGateway, "ASSISTANT_ERROR", "Assistant request failed")
		return
	}

	writeJSON(w, http.StatusOK, dto.ChatResponse{
		Reply:       reply,
		Suggestions: assistant.Suggestions(req.Message),
	})
}
