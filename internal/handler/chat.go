package handler

import (
	"encoding/json"
	"net/http"

	"car-expert-api/internal/apperr"
	"car-expert-api/internal/model"
	"car-expert-api/internal/service"
)

type ChatHandler struct {
	svc *service.CarService
}

func NewChatHandler(svc *service.CarService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// Ask serves POST /chat: a free-text question about the catalog.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperr.InvalidRequest("invalid JSON body"))
		return
	}

	response, err := h.svc.Chat(ctx, body.Question)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}
