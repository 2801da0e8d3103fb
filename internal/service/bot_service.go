package service

import (
	"context"

	"report-bot-be/internal/dto"
	"report-bot-be/internal/pkg/logger"
	"report-bot-be/internal/repository/memory"
	"report-bot-be/pkg/dialog"
)

// ReplyClient sends the outcome messages back through the chat platform.
type ReplyClient interface {
	Reply(ctx context.Context, replyToken string, messages []dto.Message) error
}

type IBotService interface {
	HandleEvent(ctx context.Context, ev dto.WebhookEvent)
}

type botService struct {
	sessions *memory.SessionRepository
	router   *dialog.Router
	chat     ReplyClient
	logger   logger.ILogger
}

func NewBotService(
	sessions *memory.SessionRepository,
	router *dialog.Router,
	chat ReplyClient,
	log logger.ILogger,
) IBotService {
	return &botService{
		sessions: sessions,
		router:   router,
		chat:     chat,
		logger:   log,
	}
}

// HandleEvent runs one webhook event through the router under the user's
// lock, applies the session verdict and sends the single reply. Events for
// the same user are strictly serialized, different users run concurrently.
func (s *botService) HandleEvent(ctx context.Context, ev dto.WebhookEvent) {
	if ev.Type != "message" || ev.Message == nil {
		return
	}
	userID := ev.Source.UserID
	if userID == "" {
		return
	}

	dev := dialog.Event{
		UserID:     userID,
		ReplyToken: ev.ReplyToken,
		MessageID:  ev.Message.ID,
	}
	switch ev.Message.Type {
	case "text":
		dev.Kind = dialog.KindText
		dev.Text = ev.Message.Text
	case "file":
		dev.Kind = dialog.KindFile
		dev.FileName = ev.Message.FileName
	default:
		return
	}

	mu := s.sessions.Lock(userID)
	mu.Lock()
	defer mu.Unlock()

	session := s.sessions.LoadOrCreate(userID)
	out := s.router.Handle(ctx, dev, session)

	switch {
	case out.Clear:
		s.sessions.Delete(userID)
	case out.Session != nil:
		s.sessions.Save(*out.Session)
	}

	if len(out.Messages) == 0 {
		return
	}
	if err := s.chat.Reply(ctx, ev.ReplyToken, out.Messages); err != nil {
		s.logger.Error("BotService", "Reply failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}
