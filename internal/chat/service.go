package chat

//go:generate mockgen -destination=./service_mock_test.go -package=chat -source=service.go Service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"finance-companion/internal/auth"
	"finance-companion/internal/domain"
	"finance-companion/internal/extract"
	"finance-companion/internal/llm"
	"finance-companion/internal/prompt"

	"github.com/google/uuid"
)

// DefaultProviderTimeout bounds one dispatch when no timeout is configured.
const DefaultProviderTimeout = 60 * time.Second

// Service drives chat turns for a conversation.
type Service interface {
	// SendMessage runs one user turn and returns the appended assistant message.
	// Provider failures become an "Error: ..." message, not an error.
	SendMessage(ctx context.Context, conversationID, text string, upload *Upload) (*domain.Message, error)
	// Clear resets the conversation to the greeting and drops persisted rows for the caller.
	Clear(ctx context.Context, conversationID string)
	// History returns a copy of the conversation, loading persisted rows on first access.
	History(ctx context.Context, conversationID string) []domain.Message
	// Pending reports whether a reply is outstanding.
	Pending(conversationID string) bool
	// Subscribe streams conversation events until the returned func is called.
	Subscribe(conversationID string) (<-chan Event, func())
}

type service struct {
	store      *Store
	dispatcher Dispatcher
	market     MarketContext
	extractor  TextExtractor
	repo       Repository
	timeout    time.Duration
	log        *slog.Logger
}

// NewService wires the orchestrator. market and repo may be nil.
func NewService(store *Store, dispatcher Dispatcher, market MarketContext, extractor TextExtractor, repo Repository, timeout time.Duration, log *slog.Logger) Service {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &service{
		store:      store,
		dispatcher: dispatcher,
		market:     market,
		extractor:  extractor,
		repo:       repo,
		timeout:    timeout,
		log:        log,
	}
}

func (s *service) SendMessage(ctx context.Context, conversationID, text string, upload *Upload) (*domain.Message, error) {
	if text == "" && upload == nil {
		return nil, ErrEmptyMessage
	}
	// Once accepted a turn runs to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)
	s.hydrate(ctx, conversationID)

	userMsg := newMessage(domain.RoleUser, text)
	if upload != nil {
		if userMsg.Content == "" {
			userMsg.Content = UploadCaption
		}
		userMsg.Attachment = &domain.Attachment{Name: upload.Name, SizeBytes: int64(len(upload.Data))}
	}

	prior, err := s.store.BeginTurn(conversationID, userMsg)
	if err != nil {
		return nil, err
	}

	promptText, images := s.preparePrompt(ctx, conversationID, text, upload)
	req := prompt.Build(prior, promptText, images, s.marketContext(ctx, conversationID))

	dispatchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	reply, err := s.dispatcher.Send(dispatchCtx, req)
	cancel()

	var assistantMsg domain.Message
	if err != nil {
		detail := errorDetail(err)
		s.log.Warn("chat turn failed", "conversation_id", conversationID, "error", err)
		assistantMsg = newMessage(domain.RoleAssistant, "Error: "+detail)
		s.store.CompleteTurn(conversationID, assistantMsg)
		s.store.Notify(conversationID, Notification{Title: "Error", Description: detail, Variant: "destructive"})
	} else {
		assistantMsg = newMessage(domain.RoleAssistant, reply)
		s.store.CompleteTurn(conversationID, assistantMsg)
	}

	s.persist(ctx, &userMsg, &assistantMsg)
	return &assistantMsg, nil
}

// preparePrompt derives the text sent to the provider for this turn, plus any image to attach.
func (s *service) preparePrompt(ctx context.Context, conversationID, text string, upload *Upload) (string, []domain.Image) {
	if upload == nil {
		return text, nil
	}

	if extract.IsPDF(upload.Name, upload.MIMEType) {
		extracted, err := s.extractor.ExtractText(ctx, upload.Name, upload.Data)
		if err != nil {
			s.log.Warn("document extraction failed", "conversation_id", conversationID, "file", upload.Name, "error", err)
			s.store.Notify(conversationID, Notification{Title: "PDF Error", Description: extract.FailureMessage, Variant: "destructive"})
			return fmt.Sprintf("Uploaded %q but extraction failed. %s", upload.Name, text), nil
		}
		promptText := extract.FormatForAI(extracted, upload.Name)
		if text != "" {
			promptText += "\n\nAdditional instructions: " + text
		}
		return promptText, nil
	}

	instruction := text
	if instruction == "" {
		instruction = "Analyze this file."
	}
	promptText := fmt.Sprintf("Uploaded %q. %s", upload.Name, instruction)

	if extract.IsImage(upload.MIMEType) {
		return promptText, []domain.Image{{MIMEType: upload.MIMEType, Data: upload.Data}}
	}
	return promptText, nil
}

// marketContext fetches the snapshot on the first turn of a conversation and reuses it afterwards.
func (s *service) marketContext(ctx context.Context, conversationID string) string {
	if snapshot, ok := s.store.MarketContext(conversationID); ok {
		return snapshot
	}
	if s.market == nil {
		return ""
	}
	snapshot := s.market.Snapshot(ctx)
	s.store.SetMarketContext(conversationID, snapshot)
	return snapshot
}

func (s *service) Clear(ctx context.Context, conversationID string) {
	s.store.Reset(conversationID)

	userID, ok := s.persistentUser(ctx)
	if !ok {
		return
	}
	if err := s.repo.DeleteMessages(ctx, userID); err != nil {
		s.log.Warn("persistence failed", "error", &PersistenceError{Op: "delete", Err: err}, "user_id", userID)
	}
}

func (s *service) History(ctx context.Context, conversationID string) []domain.Message {
	s.hydrate(ctx, conversationID)
	return s.store.Messages(conversationID)
}

func (s *service) Pending(conversationID string) bool {
	return s.store.Pending(conversationID)
}

func (s *service) Subscribe(conversationID string) (<-chan Event, func()) {
	return s.store.Subscribe(conversationID)
}

// hydrate seeds a conversation the store has not seen from the caller's persisted rows.
// On a load failure nothing is seeded so the next access tries again.
func (s *service) hydrate(ctx context.Context, conversationID string) {
	if s.store.Exists(conversationID) {
		return
	}
	userID, ok := s.persistentUser(ctx)
	if !ok {
		return
	}
	persisted, err := s.repo.ListMessages(ctx, userID)
	if err != nil {
		s.log.Warn("persistence failed", "error", &PersistenceError{Op: "list", Err: err}, "user_id", userID)
		return
	}
	s.store.Seed(conversationID, persisted)
}

// persist saves each message independently. Failures are logged and never undo the in-memory turn.
func (s *service) persist(ctx context.Context, msgs ...*domain.Message) {
	userID, ok := s.persistentUser(ctx)
	if !ok {
		return
	}
	for _, msg := range msgs {
		if err := s.repo.SaveMessage(ctx, userID, msg); err != nil {
			s.log.Warn("persistence failed", "error", &PersistenceError{Op: "save", Err: err}, "user_id", userID, "message_id", msg.ID)
		}
	}
}

func (s *service) persistentUser(ctx context.Context) (uuid.UUID, bool) {
	if s.repo == nil {
		return uuid.Nil, false
	}
	userID, err := auth.GetUserID(ctx)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

func newMessage(role domain.Role, content string) domain.Message {
	return domain.Message{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// errorDetail is the human readable part of a dispatch failure.
func errorDetail(err error) string {
	var perr *llm.ProviderError
	if errors.As(err, &perr) && perr.Message != "" {
		return perr.Message
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return "Error occurred"
}
