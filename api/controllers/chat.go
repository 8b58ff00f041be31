package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/angelmondragon/sgr-storefront/api/responses"
	"github.com/angelmondragon/sgr-storefront/internal/chat"
	apperrors "github.com/angelmondragon/sgr-storefront/pkg/errors"
	"github.com/angelmondragon/sgr-storefront/pkg/logger"
)

type chatSendRequest struct {
	Message string `json:"message"`
}

// ChatTranscript returns the conversation so far, greeting included.
func ChatTranscript(session *chat.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, session.Messages())
	}
}

// ChatSend takes one user message and returns the assistant's reply.
func ChatSend(session *chat.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req chatSendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			responses.WriteError(ctx, logg, w, apperrors.Wrap(apperrors.CodeValidation, err, "il messaggio non è valido"))
			return
		}

		reply, err := session.Send(ctx, req.Message)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if reply == nil {
			responses.WriteError(ctx, logg, w, apperrors.New(apperrors.CodeValidation, "il messaggio è vuoto"))
			return
		}

		responses.WriteSuccess(w, reply)
	}
}

// ChatReset clears the conversation on both sides.
func ChatReset(session *chat.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := session.Reset(ctx); err != nil {
			// The local transcript reseeded anyway; report the server side.
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.Messages())
	}
}
