package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/heartmarshall/luminary-backend/internal/service/coach"
)

type createConversationRequest struct {
	Title *string `json:"title"`
}

type conversationListResponse struct {
	Conversations []conversationResponse `json:"conversations"`
}

type messageListResponse struct {
	Messages []messageResponse `json:"messages"`
}

// CreateConversation handles POST /coach/conversations. The body is optional.
func (h *CoachHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var req createConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conv, err := h.svc.CreateConversation(r.Context(), coach.CreateConversationInput{Title: req.Title})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toConversationResponse(conv))
}

// ListConversations handles GET /coach/conversations?limit=&offset=.
func (h *CoachHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pageParams(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	convs, err := h.svc.ListConversations(r.Context(), coach.ListConversationsInput{Limit: limit, Offset: offset})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := conversationListResponse{Conversations: make([]conversationResponse, 0, len(convs))}
	for _, c := range convs {
		resp.Conversations = append(resp.Conversations, toConversationResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListMessages handles GET /coach/conversations/{id}/messages?limit=&offset=.
func (h *CoachHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	id, err := conversationIDParam(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	limit, offset, err := pageParams(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	msgs, err := h.svc.ListMessages(r.Context(), coach.ListMessagesInput{
		ConversationID: id,
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := messageListResponse{Messages: make([]messageResponse, 0, len(msgs))}
	for _, m := range msgs {
		resp.Messages = append(resp.Messages, toMessageResponse(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteConversation handles DELETE /coach/conversations/{id}.
func (h *CoachHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	id, err := conversationIDParam(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if err := h.svc.DeleteConversation(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
