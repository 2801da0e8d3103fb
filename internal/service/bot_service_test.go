package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"report-bot-be/internal/dto"
	"report-bot-be/internal/entity"
	"report-bot-be/internal/pkg/logger"
	"report-bot-be/internal/repository/memory"
	"report-bot-be/pkg/dialog"
	"report-bot-be/pkg/report"
	"report-bot-be/pkg/store"
)

type stubEmployees struct{}

func (stubEmployees) FindAll(ctx context.Context) ([]entity.Employee, error) {
	return []entity.Employee{{Code: "035", Name: "佐藤"}}, nil
}

func (stubEmployees) FindByCode(ctx context.Context, code string) (*entity.Employee, error) {
	if code == "035" {
		return &entity.Employee{Code: "035", Name: "佐藤"}, nil
	}
	return nil, nil
}

func (stubEmployees) FindApprover(ctx context.Context, userID string) (*entity.Approver, error) {
	return nil, nil
}

type stubReports struct{}

func (stubReports) FindByCategory(ctx context.Context, category store.Category) ([]entity.Report, error) {
	return nil, nil
}

func (stubReports) Upsert(ctx context.Context, r *entity.Report) error { return nil }

type stubSelections struct{}

func (stubSelections) Get(ctx context.Context, userID string) (string, error) { return "", nil }
func (stubSelections) Save(ctx context.Context, userID, code string) error    { return nil }

type stubLinkSource struct{}

func (stubLinkSource) LookupDownloadURL(ctx context.Context, name string) (string, error) {
	return "", nil
}

type stubShortener struct{}

func (stubShortener) Shorten(ctx context.Context, target string) (string, error) {
	return target, nil
}

type stubUploader struct{}

func (stubUploader) Receive(ctx context.Context, messageID, fileName string, s store.Session) (store.Session, []dto.Message, error) {
	return s, []dto.Message{dto.TextMessage("ok")}, nil
}

func (stubUploader) Finalize(ctx context.Context, s store.Session, baseName string) (string, error) {
	return "https://drive/share", nil
}

type recordingReplyClient struct {
	tokens  []string
	batches [][]dto.Message
}

func (r *recordingReplyClient) Reply(ctx context.Context, replyToken string, messages []dto.Message) error {
	r.tokens = append(r.tokens, replyToken)
	r.batches = append(r.batches, messages)
	return nil
}

func newBotFixture() (IBotService, *memory.SessionRepository, *recordingReplyClient) {
	sessions := memory.NewSessionRepository()
	router := dialog.NewRouter(
		stubEmployees{},
		stubReports{},
		stubSelections{},
		report.NewResolver(stubLinkSource{}, logger.NewNopLogger()),
		stubShortener{},
		stubUploader{},
		"https://liff.example/apply",
		logger.NewNopLogger(),
	)
	chat := &recordingReplyClient{}
	return NewBotService(sessions, router, chat, logger.NewNopLogger()), sessions, chat
}

func messageEvent(userID, text string) dto.WebhookEvent {
	return dto.WebhookEvent{
		Type:       "message",
		ReplyToken: "rt-" + userID,
		Source:     dto.WebhookSource{UserID: userID},
		Message:    &dto.WebhookMessage{ID: "m1", Type: "text", Text: text},
	}
}

func TestHandleEventPersistsSession(t *testing.T) {
	bot, sessions, chat := newBotFixture()

	bot.HandleEvent(context.Background(), messageEvent("U1", "オーダー"))

	s, found := sessions.Get("U1")
	require.True(t, found)
	assert.Equal(t, store.StepSelectEmployee, s.Step)
	assert.Equal(t, store.CategoryOrder, s.Category)
	require.Len(t, chat.batches, 1)
	assert.Len(t, chat.batches[0], 1)
}

func TestHandleEventAdvancesAcrossTurns(t *testing.T) {
	bot, sessions, _ := newBotFixture()

	bot.HandleEvent(context.Background(), messageEvent("U1", "指示書送付"))
	bot.HandleEvent(context.Background(), messageEvent("U1", "035"))

	s, found := sessions.Get("U1")
	require.True(t, found)
	assert.Equal(t, store.StepCollecting, s.Step)
	require.NotNil(t, s.SelectedEmployee)
	assert.Equal(t, "佐藤", s.SelectedEmployee.Name)
}

func TestHandleEventClearPath(t *testing.T) {
	bot, sessions, _ := newBotFixture()

	bot.HandleEvent(context.Background(), messageEvent("U1", "オーダー"))
	bot.HandleEvent(context.Background(), messageEvent("U1", "申請"))

	_, found := sessions.Get("U1")
	assert.False(t, found)
}

func TestHandleEventIgnoresNonMessageEvents(t *testing.T) {
	bot, _, chat := newBotFixture()

	bot.HandleEvent(context.Background(), dto.WebhookEvent{Type: "follow"})
	bot.HandleEvent(context.Background(), dto.WebhookEvent{
		Type:    "message",
		Source:  dto.WebhookSource{UserID: "U1"},
		Message: &dto.WebhookMessage{Type: "sticker"},
	})

	assert.Empty(t, chat.batches)
}

func TestHandleEventRepliesWithEventToken(t *testing.T) {
	bot, _, chat := newBotFixture()

	bot.HandleEvent(context.Background(), messageEvent("U7", "オーダー"))

	require.Len(t, chat.tokens, 1)
	assert.Equal(t, "rt-U7", chat.tokens[0])
}
