package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/sgr-storefront/pkg/logger"
)

const greeting = "Ciao! Sono il tuo assistente virtuale. Come posso aiutarti oggi?"

// Role distinguishes who wrote a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat bubble.
type Message struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

type conversationClient interface {
	Conversation(ctx context.Context, message string) (string, error)
	ResetConversation(ctx context.Context) error
}

// Session holds one visitor's conversation with the shop assistant. Replies
// come from the backend chatbot; when it is unreachable the session falls
// back to a small scripted responder so the widget never goes silent.
type Session struct {
	client conversationClient
	logg   *logger.Logger
	now    func() time.Time

	mu       sync.Mutex
	messages []Message
}

func NewSession(client conversationClient, logg *logger.Logger) (*Session, error) {
	if client == nil {
		return nil, fmt.Errorf("conversation client required")
	}
	session := &Session{
		client: client,
		logg:   logg,
		now:    time.Now,
	}
	session.seed()
	return session, nil
}

func (s *Session) seed() {
	s.messages = []Message{{
		ID:   uuid.New(),
		Role: RoleAssistant,
		Text: greeting,
		At:   s.now(),
	}}
}

// Messages returns the transcript in order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	transcript := make([]Message, len(s.messages))
	copy(transcript, s.messages)
	return transcript
}

// Send appends the user message, asks the backend for a reply and appends
// that too. Blank messages are ignored. The returned message is the reply.
func (s *Session) Send(ctx context.Context, text string) (*Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}

	s.append(RoleUser, trimmed)

	replyText, err := s.client.Conversation(ctx, trimmed)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "chatbot unreachable, using scripted reply")
		}
		replyText = scriptedReply(trimmed)
	}

	reply := s.append(RoleAssistant, replyText)
	return &reply, nil
}

// Reset clears both the local transcript and the server-side history, then
// reseeds the greeting. A failed server reset still clears the local side.
func (s *Session) Reset(ctx context.Context) error {
	err := s.client.ResetConversation(ctx)
	if err != nil && s.logg != nil {
		s.logg.Warn(ctx, "chatbot reset failed, clearing local transcript only")
	}

	s.mu.Lock()
	s.seed()
	s.mu.Unlock()
	return err
}

func (s *Session) append(role Role, text string) Message {
	message := Message{
		ID:   uuid.New(),
		Role: role,
		Text: text,
		At:   s.now(),
	}
	s.mu.Lock()
	s.messages = append(s.messages, message)
	s.mu.Unlock()
	return message
}

// scriptedReply answers a handful of common questions when the chatbot
// backend is down.
func scriptedReply(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "ciao") || strings.Contains(lower, "salve"):
		return "Ciao! Sono felice di aiutarti. Cosa stai cercando?"
	case strings.Contains(lower, "prodotti") || strings.Contains(lower, "products"):
		return "Abbiamo una vasta gamma di prodotti di alta qualità. Puoi visitare la pagina Prodotti per vedere tutte le nostre offerte!"
	case strings.Contains(lower, "contatti") || strings.Contains(lower, "contacts"):
		return "Puoi trovarci nella pagina Contatti. Saremo felici di rispondere alle tue domande!"
	case strings.Contains(lower, "ai") || strings.Contains(lower, "intelligenza artificiale"):
		return "Sì, utilizziamo l'intelligenza artificiale per offrirti un'esperienza di shopping personalizzata. Come posso assisterti?"
	default:
		return "Grazie per il tuo messaggio! Sono qui per aiutarti con qualsiasi domanda sui nostri prodotti o servizi."
	}
}
