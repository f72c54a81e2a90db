package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/caeleel/friendbook/pkg/domain/model"
	"github.com/caeleel/friendbook/pkg/usecase"
	"github.com/caeleel/friendbook/pkg/utils/errutil"
	"github.com/caeleel/friendbook/pkg/utils/logging"
	"github.com/caeleel/friendbook/pkg/utils/safe"
	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	reasonInvalidJSON     = "Invalid JSON"
	reasonMissingFields   = "uuid and message are required"
	reasonRunTimedOut     = "Run timed out"
	reasonInternalFailure = "Internal server error"
)

type chatRequest struct {
	UUID     string `json:"uuid"`
	Message  string `json:"message"`
	ThreadID string `json:"threadId,omitempty"`
}

type chatResponse struct {
	Status   string `json:"status"`
	ThreadID string `json:"threadId,omitempty"`
	Message  string `json:"message,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

func (s *Server) postChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer safe.Close(ctx, r.Body)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.From(ctx).Warn("invalid chat request body", "error", err)
		writeJSON(w, r, http.StatusBadRequest, chatResponse{Status: statusError, Reason: reasonInvalidJSON})
		return
	}
	if req.UUID == "" || req.Message == "" {
		writeJSON(w, r, http.StatusBadRequest, chatResponse{Status: statusError, Reason: reasonMissingFields})
		return
	}

	reply, err := s.chatUC.Chat(ctx, &model.ChatRequest{
		UserID:   model.UserID(req.UUID),
		Message:  req.Message,
		ThreadID: model.ThreadID(req.ThreadID),
	})
	if err != nil {
		status, reason := chatErrorStatus(err)
		if status >= http.StatusInternalServerError {
			_ = errutil.Handle(ctx, err, "chat request failed")
		}
		writeJSON(w, r, status, chatResponse{Status: statusError, Reason: reason})
		return
	}

	writeJSON(w, r, http.StatusOK, chatResponse{
		Status:   statusSuccess,
		ThreadID: reply.ThreadID.String(),
		Message:  reply.Text,
		ImageURL: reply.ImageURL,
	})
}

// chatErrorStatus maps a chat failure to an HTTP status and a user visible
// reason
func chatErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		return http.StatusBadRequest, reasonMissingFields
	case errors.Is(err, usecase.ErrRunTimeout):
		return http.StatusGatewayTimeout, reasonRunTimedOut
	case errors.Is(err, usecase.ErrRunFailed):
		if reason := usecase.RunFailureReason(err); reason != "" {
			return http.StatusInternalServerError, reason
		}
		return http.StatusInternalServerError, reasonInternalFailure
	default:
		return http.StatusInternalServerError, reasonInternalFailure
	}
}

func (s *Server) getTranscript(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Messages []*model.TranscriptMessage `json:"messages"`
	}

	user := model.UserID(chi.URLParam(r, "uuid"))
	messages, err := s.friendUC.Transcript(r.Context(), user)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to get transcript", goerr.V("user", user)), http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, response{Messages: messages})
}

func (s *Server) getFriends(w http.ResponseWriter, r *http.Request) {
	user := model.UserID(chi.URLParam(r, "uuid"))
	index, err := s.friendUC.Friends(r.Context(), user)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to get friends", goerr.V("user", user)), http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, index)
}

func (s *Server) getFriend(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Friend *model.PersonView `json:"friend"`
	}

	user := model.UserID(chi.URLParam(r, "uuid"))
	name := chi.URLParam(r, "name")
	id := model.PersonID(chi.URLParam(r, "id"))

	view, err := s.friendUC.Friend(r.Context(), user, name, id)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to get friend", goerr.V("user", user), goerr.V("id", id)), http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, response{Friend: view})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}
