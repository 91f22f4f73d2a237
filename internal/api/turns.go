package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/scamnet-io/decoy/internal/engine"
)

// MessageItem is one message in the inbound schema.
type MessageItem struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// TurnRequest is the inbound turn payload.
type TurnRequest struct {
	SessionID           string         `json:"sessionId"`
	Message             MessageItem    `json:"message"`
	ConversationHistory []MessageItem  `json:"conversationHistory,omitempty"`
	Metadata            map[string]any `json:"metadata,omitempty"` // ignored by the core
}

// TurnResponse is the scammer-facing reply plus progress fields for
// observability.
type TurnResponse struct {
	Status       string `json:"status"`
	Reply        string `json:"reply"`
	TurnCount    int    `json:"turnCount"`
	Phase        string `json:"phase"`
	CallbackSent bool   `json:"callbackSent"`
}

// handleTurn serves POST /honey-pot. Only structurally invalid input fails;
// the engine degrades everything else to an in-character reply.
func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	history := make([]string, 0, len(req.ConversationHistory))
	for _, m := range req.ConversationHistory {
		history = append(history, m.Text)
	}

	reply, err := s.engine.HandleTurn(r.Context(), engine.Turn{
		SessionID: req.SessionID,
		Text:      req.Message.Text,
		History:   history,
	})
	if err != nil {
		if errors.Is(err, engine.ErrEmptySessionID) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "sessionId is required"})
			return
		}
		s.logger.Error("turn handling failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, TurnResponse{
		Status:       "success",
		Reply:        reply.Text,
		TurnCount:    reply.TurnCount,
		Phase:        reply.Phase,
		CallbackSent: reply.CallbackSent,
	})
}
