package backend

import (
	"context"
	"encoding/json"
	"net/http"

	apperrors "github.com/angelmondragon/sgr-storefront/pkg/errors"
)

const (
	pathChatConversation = "/v1/chatbot/conversation"
	pathChatReset        = "/v1/chatbot/reset_conversation"
)

type chatRequest struct {
	Message string `json:"message"`
}

// Conversation sends one user message and returns the assistant's reply. The
// chatbot endpoint answers with a bare JSON string, not the usual envelope.
func (c *Client) Conversation(ctx context.Context, message string) (string, error) {
	body, err := c.doRaw(ctx, http.MethodPost, pathChatConversation, chatRequest{Message: message})
	if err != nil {
		return "", err
	}

	var reply string
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", apperrors.Wrap(apperrors.CodeBackend, err, "decoding chat reply")
	}
	c.metrics.IncSuccess(pathChatConversation)
	return reply, nil
}

// ResetConversation clears the server-side conversation history.
func (c *Client) ResetConversation(ctx context.Context) error {
	if _, err := c.doRaw(ctx, http.MethodPost, pathChatReset, nil); err != nil {
		return err
	}
	c.metrics.IncSuccess(pathChatReset)
	return nil
}
