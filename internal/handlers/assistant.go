package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pliu/aichat/internal/agent"
	"github.com/pliu/aichat/internal/middleware"
	"github.com/pliu/aichat/internal/store"
)

type AssistantHandler struct {
	Store store.Store
	Agent *agent.Agent
}

type exchangeDTO struct {
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *AssistantHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.Store.RecentExchanges(r.Context(), middleware.UserID(r.Context()), agent.HistoryWindow)
	if err != nil {
		respondError(w, r, err, "Failed to load history")
		return
	}
	out := make([]exchangeDTO, 0, len(history))
	for _, ex := range history {
		out = append(out, exchangeDTO{Input: ex.Input, Output: ex.Output, Timestamp: ex.Timestamp})
	}
	writeJSON(w, http.StatusOK, out)
}

// Chat always answers 200 once the input is valid; failed turns carry the
// fallback reply.
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	out := h.Agent.Respond(r.Context(), middleware.UserID(r.Context()), req.Message)
	writeJSON(w, http.StatusOK, map[string]string{"response": out.Reply()})
}

// ClaimHistory hands every exchange without an owner to the caller.
func (h *AssistantHandler) ClaimHistory(w http.ResponseWriter, r *http.Request) {
	n, err := h.Store.ClaimOrphanedExchanges(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, r, err, "Failed to claim history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Successfully claimed %d orphaned chat messages.", n),
		"claimed": n,
	})
}
