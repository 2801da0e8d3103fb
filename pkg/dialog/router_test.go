package dialog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"report-bot-be/internal/dto"
	"report-bot-be/internal/entity"
	"report-bot-be/internal/pkg/logger"
	"report-bot-be/pkg/report"
	"report-bot-be/pkg/store"
)

type fakeEmployees struct {
	all     []entity.Employee
	byCode  map[string]*entity.Employee
	allErr  error
	findErr error
}

func (f *fakeEmployees) FindAll(ctx context.Context) ([]entity.Employee, error) {
	return f.all, f.allErr
}

func (f *fakeEmployees) FindByCode(ctx context.Context, code string) (*entity.Employee, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byCode[code], nil
}

func (f *fakeEmployees) FindApprover(ctx context.Context, userID string) (*entity.Approver, error) {
	return nil, nil
}

type fakeReports struct {
	rows []entity.Report
	err  error
}

func (f *fakeReports) FindByCategory(ctx context.Context, category store.Category) ([]entity.Report, error) {
	return f.rows, f.err
}

func (f *fakeReports) Upsert(ctx context.Context, r *entity.Report) error { return nil }

type fakeSelections struct {
	last    string
	saved   []string
	saveErr error
}

func (f *fakeSelections) Get(ctx context.Context, userID string) (string, error) {
	return f.last, nil
}

func (f *fakeSelections) Save(ctx context.Context, userID, code string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, code)
	return nil
}

type fakeLinkSource struct {
	urls map[string]string
}

func (f *fakeLinkSource) LookupDownloadURL(ctx context.Context, name string) (string, error) {
	return f.urls[name], nil
}

type fakeShortener struct {
	err error
}

func (f *fakeShortener) Shorten(ctx context.Context, target string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://short/" + target, nil
}

type fakeUploader struct {
	received     bool
	finalized    []string
	finalizeErr  error
	receiveMsgs  []dto.Message
	receiveState *store.Session
}

func (f *fakeUploader) Receive(ctx context.Context, messageID, fileName string, s store.Session) (store.Session, []dto.Message, error) {
	f.received = true
	if f.receiveState != nil {
		return *f.receiveState, f.receiveMsgs, nil
	}
	return s.WithStep(store.StepWaitingForFilename), f.receiveMsgs, nil
}

func (f *fakeUploader) Finalize(ctx context.Context, s store.Session, baseName string) (string, error) {
	if f.finalizeErr != nil {
		return "", f.finalizeErr
	}
	f.finalized = append(f.finalized, baseName)
	return "https://drive/share", nil
}

type routerFixture struct {
	employees  *fakeEmployees
	reports    *fakeReports
	selections *fakeSelections
	links      *fakeLinkSource
	shortener  *fakeShortener
	uploader   *fakeUploader
	router     *Router
}

func newFixture() *routerFixture {
	f := &routerFixture{
		employees: &fakeEmployees{
			all: []entity.Employee{
				{Code: "035", Name: "佐藤"},
				{Code: "120", Name: "田中"},
			},
			byCode: map[string]*entity.Employee{
				"035": {Code: "035", Name: "佐藤"},
				"120": {Code: "120", Name: "田中"},
			},
		},
		reports:    &fakeReports{},
		selections: &fakeSelections{},
		links:      &fakeLinkSource{urls: map[string]string{}},
		shortener:  &fakeShortener{},
		uploader:   &fakeUploader{receiveMsgs: []dto.Message{dto.TextMessage("ok")}},
	}
	f.router = NewRouter(
		f.employees,
		f.reports,
		f.selections,
		report.NewResolver(f.links, logger.NewNopLogger()),
		f.shortener,
		f.uploader,
		"https://liff.example/apply",
		logger.NewNopLogger(),
	)
	return f
}

func textEvent(text string) Event {
	return Event{UserID: "U1", ReplyToken: "rt", Kind: KindText, Text: text}
}

func fileEvent(name string) Event {
	return Event{UserID: "U1", ReplyToken: "rt", Kind: KindFile, MessageID: "m1", FileName: name}
}

func TestOrderCommandStartsViewTrack(t *testing.T) {
	f := newFixture()

	out := f.router.Handle(context.Background(), textEvent("オーダー"), store.New("U1"))

	require.NotNil(t, out.Session)
	assert.Equal(t, store.ModeView, out.Session.Mode)
	assert.Equal(t, store.CategoryOrder, out.Session.Category)
	assert.Equal(t, store.StepSelectEmployee, out.Session.Step)
	require.Len(t, out.Messages, 1)
	require.NotNil(t, out.Messages[0].Template)
	assert.Len(t, out.Messages[0].Template.Columns, 2)
}

func TestViewEmployeeSelectionShowsTitles(t *testing.T) {
	f := newFixture()
	f.reports.rows = []entity.Report{
		{Name: "月次レポート", WriteDate: "d1"},
		{Name: "案件一覧", WriteDate: "d2"},
	}
	s := store.New("U1").
		WithMode(store.ModeView, store.CategoryOrder).
		WithStep(store.StepSelectEmployee)

	out := f.router.Handle(context.Background(), textEvent("035"), s)

	require.NotNil(t, out.Session)
	assert.Equal(t, store.StepSelectReport, out.Session.Step)
	require.NotNil(t, out.Session.SelectedEmployee)
	assert.Equal(t, "035", out.Session.SelectedEmployee.Code)
	assert.Equal(t, []string{"035"}, f.selections.saved)
	require.NotNil(t, out.Messages[0].Template)
	// Stored order survives, no lexical sorting of titles.
	assert.Equal(t, "月次レポート", out.Messages[0].Template.Columns[0].Title)
}

func TestReportSelectionRepliesWithShortLink(t *testing.T) {
	f := newFixture()
	f.links.urls["035_月次レポート_佐藤.pdf"] = "https://drive/dl"
	s := store.New("U1").
		WithMode(store.ModeView, store.CategoryOrder).
		WithEmployee(store.EmployeeRef{Code: "035"}).
		WithStep(store.StepSelectReport)

	out := f.router.Handle(context.Background(), textEvent("帳票 月次レポート"), s)

	assert.Nil(t, out.Session)
	require.Len(t, out.Messages, 1)
	assert.Contains(t, out.Messages[0].Text, "https://short/https://drive/dl")
}

func TestReportSelectionMissingArtifact(t *testing.T) {
	f := newFixture()
	s := store.New("U1").
		WithMode(store.ModeView, store.CategoryOrder).
		WithEmployee(store.EmployeeRef{Code: "035"}).
		WithStep(store.StepSelectReport)

	out := f.router.Handle(context.Background(), textEvent("帳票 消えた帳票"), s)

	assert.Equal(t, msgFileNotFound, out.Messages[0].Text)
	assert.Nil(t, out.Session)
}

func TestReportSelectionShortenFailureFallsBackToRawURL(t *testing.T) {
	f := newFixture()
	f.links.urls["035_月次レポート_佐藤.pdf"] = "https://drive/dl"
	f.shortener.err = errors.New("redis down")
	s := store.New("U1").
		WithMode(store.ModeView, store.CategoryOrder).
		WithEmployee(store.EmployeeRef{Code: "035"}).
		WithStep(store.StepSelectReport)

	out := f.router.Handle(context.Background(), textEvent("帳票 月次レポート"), s)

	assert.Contains(t, out.Messages[0].Text, "https://drive/dl")
}

func TestFileOutsideUploadFlowIsRejected(t *testing.T) {
	f := newFixture()

	out := f.router.Handle(context.Background(), fileEvent("a.pdf"), store.New("U1"))

	assert.Equal(t, msgSendFileFirst, out.Messages[0].Text)
	assert.Nil(t, out.Session)
	assert.False(t, f.uploader.received)
}

func TestFileWhileCollectingGoesToUploader(t *testing.T) {
	f := newFixture()
	s := store.New("U1").
		WithMode(store.ModeUpload, store.CategoryInstruction).
		WithStep(store.StepCollecting)

	out := f.router.Handle(context.Background(), fileEvent("a.xlsx"), s)

	assert.True(t, f.uploader.received)
	require.NotNil(t, out.Session)
	assert.Equal(t, store.StepWaitingForFilename, out.Session.Step)
}

func TestInstructionSendStartsUploadTrack(t *testing.T) {
	f := newFixture()

	out := f.router.Handle(context.Background(), textEvent("指示書送付"), store.New("U1"))

	require.NotNil(t, out.Session)
	assert.Equal(t, store.ModeUpload, out.Session.Mode)
	assert.Equal(t, store.CategoryInstruction, out.Session.Category)
	assert.Equal(t, store.StepSelectEmployee, out.Session.Step)
	require.NotNil(t, out.Messages[0].Template)
}

func TestUploadEmployeeSelectionMovesToCollecting(t *testing.T) {
	f := newFixture()
	s := store.New("U1").
		WithMode(store.ModeUpload, store.CategoryInstruction).
		WithStep(store.StepSelectEmployee)

	out := f.router.Handle(context.Background(), textEvent("035"), s)

	require.NotNil(t, out.Session)
	assert.Equal(t, store.StepCollecting, out.Session.Step)
	require.NotNil(t, out.Session.SelectedEmployee)
	assert.Equal(t, "佐藤", out.Session.SelectedEmployee.Name)
	assert.Equal(t, msgSendInstruction("佐藤"), out.Messages[0].Text)
}

func TestUploadEmployeeSelectionUnknownCode(t *testing.T) {
	f := newFixture()
	s := store.New("U1").
		WithMode(store.ModeUpload, store.CategoryInstruction).
		WithStep(store.StepSelectEmployee)

	out := f.router.Handle(context.Background(), textEvent("999"), s)

	require.NotNil(t, out.Session)
	assert.Equal(t, defaultEmployeeName, out.Session.SelectedEmployee.Name)
	assert.Equal(t, msgSelectedCode("999"), out.Messages[0].Text)
}

func TestFilenameTooLongRejectedWithoutFinalize(t *testing.T) {
	f := newFixture()
	s := store.New("U1").WithStep(store.StepWaitingForFilename)

	out := f.router.Handle(context.Background(), textEvent("あいうえおかきくけこさしすせそたちつ"), s)

	assert.Equal(t, msgFilenameTooLong, out.Messages[0].Text)
	assert.Nil(t, out.Session)
	assert.Empty(t, f.uploader.finalized)
}

func TestFilenameForbiddenCharRejected(t *testing.T) {
	f := newFixture()
	s := store.New("U1").WithStep(store.StepWaitingForFilename)

	out := f.router.Handle(context.Background(), textEvent("指示_書"), s)

	assert.Equal(t, msgForbiddenChars, out.Messages[0].Text)
	assert.Empty(t, f.uploader.finalized)
}

func TestFilenameAcceptedFinalizesAndClears(t *testing.T) {
	f := newFixture()
	s := store.New("U1").WithStep(store.StepWaitingForFilename)

	out := f.router.Handle(context.Background(), textEvent("月次指示書"), s)

	assert.True(t, out.Clear)
	assert.Equal(t, []string{"月次指示書"}, f.uploader.finalized)
	assert.Equal(t, msgUploadDone("https://drive/share"), out.Messages[0].Text)
}

func TestFinalizeFailureKeepsSessionForRetry(t *testing.T) {
	f := newFixture()
	f.uploader.finalizeErr = errors.New("drive down")
	s := store.New("U1").WithStep(store.StepWaitingForFilename)

	out := f.router.Handle(context.Background(), textEvent("月次指示書"), s)

	assert.Equal(t, msgUploadFailed, out.Messages[0].Text)
	assert.False(t, out.Clear)
	assert.Nil(t, out.Session)
}

func TestInstructionViewSingleEntryLinksDirectly(t *testing.T) {
	f := newFixture()
	f.reports.rows = []entity.Report{{Name: "035_作業指示_佐藤", WriteDate: "d1"}}
	f.links.urls["035_作業指示_佐藤.pdf"] = "https://drive/dl"
	s := store.New("U1").
		WithMode(store.ModeView, store.CategoryInstruction).
		WithStep(store.StepSelectEmployee)

	out := f.router.Handle(context.Background(), textEvent("035"), s)

	require.NotNil(t, out.Session)
	assert.Equal(t, store.StepSelectReport, out.Session.Step)
	assert.Contains(t, out.Messages[0].Text, "https://short/")
}

func TestInstructionViewNoEntriesForEmployee(t *testing.T) {
	f := newFixture()
	f.reports.rows = []entity.Report{{Name: "120_作業指示_田中", WriteDate: "d1"}}
	s := store.New("U1").
		WithMode(store.ModeView, store.CategoryInstruction).
		WithStep(store.StepSelectEmployee)

	out := f.router.Handle(context.Background(), textEvent("035"), s)

	assert.Equal(t, msgNoReports, out.Messages[0].Text)
}

func TestEmployeePageToken(t *testing.T) {
	f := newFixture()
	s := store.New("U1").
		WithMode(store.ModeView, store.CategoryOrder).
		WithStep(store.StepSelectEmployee)

	out := f.router.Handle(context.Background(), textEvent("次へ社員 1"), s)

	assert.Nil(t, out.Session)
	require.Len(t, out.Messages, 1)
	require.NotNil(t, out.Messages[0].Template)
}

func TestCollaboratorFailureRepliesGenericRetry(t *testing.T) {
	f := newFixture()
	f.employees.allErr = errors.New("db down")

	out := f.router.Handle(context.Background(), textEvent("オーダー"), store.New("U1"))

	assert.Equal(t, msgRetryLater, out.Messages[0].Text)
	assert.Nil(t, out.Session)
	assert.False(t, out.Clear)
}

func TestApplicationCommandClearsSession(t *testing.T) {
	f := newFixture()

	out := f.router.Handle(context.Background(), textEvent("申請"), store.New("U1"))

	assert.True(t, out.Clear)
	require.NotNil(t, out.Messages[0].Template)
	assert.Equal(t, "https://liff.example/apply", out.Messages[0].Template.Columns[0].Actions[0].URI)
}

func TestStrayTextGetsUploadGuidance(t *testing.T) {
	f := newFixture()

	for _, text := range []string{"なにかのファイル名", "よくわからない 入力 です", "report draft v2"} {
		out := f.router.Handle(context.Background(), textEvent(text), store.New("U1"))

		assert.Equal(t, msgUploadGuidance, out.Messages[0].Text, "text %q", text)
		assert.Nil(t, out.Session)
	}
}

func TestStrayTextOutsideFilenameShapeFallsToMenu(t *testing.T) {
	f := newFixture()
	inputs := []string{
		"月次/指示",
		"名前:候補",
		strings.Repeat("あ", 101),
	}

	for _, text := range inputs {
		out := f.router.Handle(context.Background(), textEvent(text), store.New("U1"))

		assert.Equal(t, msgChooseFromMenu, out.Messages[0].Text, "text %q", text)
	}
}

func TestEveryEventGetsExactlyOneReply(t *testing.T) {
	f := newFixture()
	inputs := []Event{
		textEvent("オーダー"),
		textEvent("実績"),
		textEvent("指示書"),
		textEvent("申請"),
		textEvent("指示書送付"),
		textEvent("指示書参照"),
		textEvent("次へ社員 0"),
		textEvent("よくわからない 入力 です"),
		fileEvent("a.pdf"),
	}
	for _, ev := range inputs {
		out := f.router.Handle(context.Background(), ev, store.New("U1"))
		assert.Len(t, out.Messages, 1, "event %q", ev.Text)
	}
}
