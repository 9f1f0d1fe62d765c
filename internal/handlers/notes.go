package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pliu/aichat/internal/middleware"
	"github.com/pliu/aichat/internal/service"
)

type NotesHandler struct {
	Notes *service.Notes
}

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.Notes.List(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, r, err, "Failed to fetch notes")
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(notes))
}

func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	note, err := h.Notes.Create(r.Context(), middleware.UserID(r.Context()), req.Title, req.Content)
	if err != nil {
		respondError(w, r, err, "Failed to save note")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"noteId": note.ID})
}

func (h *NotesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := h.Notes.Update(r.Context(), middleware.UserID(r.Context()), mux.Vars(r)["id"], req.Title, req.Content)
	if err != nil {
		respondError(w, r, err, "Failed to update note")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Notes.Delete(r.Context(), middleware.UserID(r.Context()), mux.Vars(r)["id"]); err != nil {
		respondError(w, r, err, "Failed to delete note")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
