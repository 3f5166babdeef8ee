package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/lokke174/Neimark-hackathon/internal/upstream"
)

// ErrEmptyFeedback is returned when the feedback value carries no content.
var ErrEmptyFeedback = errors.New("chat: feedback value is empty")

// HistoryEntry is one turn as exposed over /history.
type HistoryEntry struct {
	ID           uint64            `json:"id"`
	Role         string            `json:"role"`
	Content      string            `json:"content"`
	Sources      []json.RawMessage `json:"sources"`
	ResponseTime *float64          `json:"response_time"`
	Feedback     *string           `json:"feedback"`
}

// AskResult is the reconciled outcome of one proxied exchange.
type AskResult struct {
	Answer       string
	Sources      []json.RawMessage
	ResponseTime float64
	MessageID    uint64
}

type Service struct {
	repo     *Repo
	provider upstream.Provider
}

func NewService(repo *Repo, provider upstream.Provider) *Service {
	return &Service{repo: repo, provider: provider}
}

// ResolveOrCreateChat binds a session token to exactly one chat row. A
// missing row (first visit, or a reset store under a surviving cookie) is
// recreated under the same token; repeated calls return the same chat id.
func (s *Service) ResolveOrCreateChat(ctx context.Context, sessionID string) (uint64, error) {
	existing, err := s.repo.GetChatBySessionID(ctx, sessionID)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	c := &Chat{SessionID: sessionID}
	if createErr := s.repo.CreateChat(ctx, c); createErr != nil {
		// A concurrent request may have won the unique session_id race.
		if existing, getErr := s.repo.GetChatBySessionID(ctx, sessionID); getErr == nil {
			return existing.ID, nil
		}
		return 0, createErr
	}
	return c.ID, nil
}

// AppendMessage appends one immutable turn. Sources are serialized as a
// JSON array; an empty list is stored as NULL and read back as [].
func (s *Service) AppendMessage(ctx context.Context, chatID uint64, role, content string, sources []json.RawMessage, responseTime *float64) (uint64, error) {
	m := &Message{
		ChatID:       chatID,
		Role:         role,
		Content:      content,
		ResponseTime: responseTime,
	}
	if len(sources) > 0 {
		b, err := json.Marshal(sources)
		if err != nil {
			return 0, fmt.Errorf("chat: serialize sources: %w", err)
		}
		serialized := string(b)
		m.Sources = &serialized
	}
	if err := s.repo.InsertMessage(ctx, m); err != nil {
		return 0, err
	}
	return m.ID, nil
}

// SetFeedback attaches a feedback tag to an existing message, overwriting
// any prior value.
func (s *Service) SetFeedback(ctx context.Context, messageID uint64, value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrEmptyFeedback
	}
	return s.repo.UpdateFeedback(ctx, messageID, value)
}

// History returns all turns of a chat in creation order. An unknown chat id
// yields an empty slice, not an error.
func (s *Service) History(ctx context.Context, chatID uint64) ([]HistoryEntry, error) {
	msgs, err := s.repo.ListMessagesAsc(ctx, chatID)
	if err != nil {
		return nil, err
	}
	entries := make([]HistoryEntry, 0, len(msgs))
	for _, m := range msgs {
		sources := []json.RawMessage{}
		if m.Sources != nil && *m.Sources != "" {
			if err := json.Unmarshal([]byte(*m.Sources), &sources); err != nil {
				return nil, fmt.Errorf("chat: deserialize sources of message %d: %w", m.ID, err)
			}
		}
		entries = append(entries, HistoryEntry{
			ID:           m.ID,
			Role:         m.Role,
			Content:      m.Content,
			Sources:      sources,
			ResponseTime: m.ResponseTime,
			Feedback:     m.Feedback,
		})
	}
	return entries, nil
}

// HistoryBySession resolves the session token to its chat and lists it.
// A token without a chat yields an empty slice.
func (s *Service) HistoryBySession(ctx context.Context, sessionID string) ([]HistoryEntry, error) {
	c, err := s.repo.GetChatBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []HistoryEntry{}, nil
		}
		return nil, err
	}
	return s.History(ctx, c.ID)
}

// Ask runs one proxied exchange: the user turn is persisted before the
// upstream call, the bot turn only after the call and the write both
// succeed. Elapsed time is wall clock around the call, rounded to 2
// decimals.
func (s *Service) Ask(ctx context.Context, sessionID string, chatID uint64, message string) (*AskResult, error) {
	if _, err := s.AppendMessage(ctx, chatID, RoleUser, message, nil, nil); err != nil {
		return nil, fmt.Errorf("chat: persist user turn: %w", err)
	}

	start := time.Now()
	reply, err := s.provider.Ask(ctx, sessionID, message)
	if err != nil {
		return nil, fmt.Errorf("chat: upstream call: %w", err)
	}
	elapsed := math.Round(time.Since(start).Seconds()*100) / 100

	sources := reply.Sources
	if sources == nil {
		sources = []json.RawMessage{}
	}

	botID, err := s.AppendMessage(ctx, chatID, RoleBot, reply.Text, sources, &elapsed)
	if err != nil {
		return nil, fmt.Errorf("chat: persist bot turn: %w", err)
	}

	return &AskResult{
		Answer:       reply.Text,
		Sources:      sources,
		ResponseTime: elapsed,
		MessageID:    botID,
	}, nil
}
