package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pliu/aichat/internal/middleware"
	"github.com/pliu/aichat/internal/service"
)

// ChatHandler serves user to user conversations, direct and in groups.
type ChatHandler struct {
	Messaging *service.Messaging
}

type CreateGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type SendMessageRequest struct {
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
}

func (h *ChatHandler) DirectMessages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	messages, err := h.Messaging.DirectHistory(r.Context(), userID, mux.Vars(r)["otherUserId"])
	if err != nil {
		respondError(w, r, err, "Failed to load messages")
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(messages))
}

// SendDirect takes the recipient from the body.
func (h *ChatHandler) SendDirect(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.sendDirect(w, r, req.RecipientID, req.Content)
}

// SendDirectTo takes the recipient from the path.
func (h *ChatHandler) SendDirectTo(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.sendDirect(w, r, mux.Vars(r)["otherUserId"], req.Content)
}

func (h *ChatHandler) sendDirect(w http.ResponseWriter, r *http.Request, recipientID, content string) {
	userID := middleware.UserID(r.Context())
	if _, err := h.Messaging.SendDirect(r.Context(), userID, recipientID, content); err != nil {
		respondError(w, r, err, "Failed to send message")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *ChatHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	group, err := h.Messaging.CreateGroup(r.Context(), middleware.UserID(r.Context()), req.Name, req.Members)
	if err != nil {
		respondError(w, r, err, "Failed to create group")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"groupId": group.ID, "name": group.Name})
}

func (h *ChatHandler) GetGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Messaging.UserGroups(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, r, err, "Failed to load groups")
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(groups))
}

func (h *ChatHandler) GetGroupMessages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	messages, err := h.Messaging.GroupHistory(r.Context(), mux.Vars(r)["groupId"], userID)
	if err != nil {
		respondError(w, r, err, "Failed to load messages")
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(messages))
}

func (h *ChatHandler) SendGroupMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := middleware.UserID(r.Context())
	if _, err := h.Messaging.SendGroup(r.Context(), mux.Vars(r)["groupId"], userID, req.Content); err != nil {
		respondError(w, r, err, "Failed to send message")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
