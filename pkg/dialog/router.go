package dialog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"report-bot-be/internal/dto"
	"report-bot-be/internal/pkg/logger"
	"report-bot-be/internal/repository/contract"
	"report-bot-be/pkg/dialog/carousel"
	"report-bot-be/pkg/report"
	"report-bot-be/pkg/store"
)

const (
	defaultEmployeeCode = "000"
	defaultEmployeeName = "名無し"
)

var (
	employeeCodePattern = regexp.MustCompile(`^\d{3}$`)
	reportTokenPattern  = regexp.MustCompile(`^帳票(?:名)?[:：]?\s*(.+)$`)
	plainTextPattern    = regexp.MustCompile(`^[^\\/:*?"<>|]{1,100}$`)
)

// Links resolves a stored artifact name to a download URL, "" when absent.
type Links interface {
	Lookup(ctx context.Context, name string) (string, error)
}

// Shortener exchanges a long URL for a short redirect URL.
type Shortener interface {
	Shorten(ctx context.Context, target string) (string, error)
}

// Uploader runs the two-phase file intake: Receive stores the raw file and
// asks for a name, Finalize renames, uploads and records it.
type Uploader interface {
	Receive(ctx context.Context, messageID, fileName string, s store.Session) (store.Session, []dto.Message, error)
	Finalize(ctx context.Context, s store.Session, baseName string) (string, error)
}

// Outcome is the router's verdict on one event. A nil Session means the
// stored state is left untouched, Clear drops it entirely.
type Outcome struct {
	Messages []dto.Message
	Session  *store.Session
	Clear    bool
}

// Router decides what one inbound event means given the user's session and
// produces exactly one reply. Collaborator failures are caught here and
// turned into a generic retry message with the session left as it was.
type Router struct {
	employees  contract.EmployeeRepository
	reports    contract.ReportRepository
	selections contract.SelectionRepository
	links      Links
	shortener  Shortener
	uploader   Uploader
	appMenuURL string
	logger     logger.ILogger
}

func NewRouter(
	employees contract.EmployeeRepository,
	reports contract.ReportRepository,
	selections contract.SelectionRepository,
	links Links,
	shortener Shortener,
	uploader Uploader,
	appMenuURL string,
	log logger.ILogger,
) *Router {
	return &Router{
		employees:  employees,
		reports:    reports,
		selections: selections,
		links:      links,
		shortener:  shortener,
		uploader:   uploader,
		appMenuURL: appMenuURL,
		logger:     log,
	}
}

func reply(text string) Outcome {
	return Outcome{Messages: []dto.Message{dto.TextMessage(text)}}
}

func replyWith(msg dto.Message, next store.Session) Outcome {
	return Outcome{Messages: []dto.Message{msg}, Session: &next}
}

// Handle walks the rule cascade top to bottom and returns on the first
// matching rule. The order is load-bearing, upload-mode employee selection
// and file receipt must win over the generic handlers below them.
func (r *Router) Handle(ctx context.Context, ev Event, s store.Session) Outcome {
	text := strings.TrimSpace(ev.Text)

	// Employee selection while collecting an upload.
	if ev.Kind == KindText && s.Mode == store.ModeUpload && s.Step == store.StepSelectEmployee && employeeCodePattern.MatchString(text) {
		return r.guard(r.selectUploadEmployee(ctx, ev.UserID, text, s))
	}

	// File receipt.
	if ev.Kind == KindFile {
		if s.Step != store.StepWaitingForUpload && s.Step != store.StepCollecting {
			r.logger.Warn("DialogRouter", "File received outside upload flow", map[string]interface{}{
				"user_id": ev.UserID,
				"step":    string(s.Step),
			})
			return reply(msgSendFileFirst)
		}
		next, msgs, err := r.uploader.Receive(ctx, ev.MessageID, ev.FileName, s)
		if err != nil {
			return r.failure(ev.UserID, "receive file", err)
		}
		return Outcome{Messages: msgs, Session: &next}
	}

	// Track starters.
	switch text {
	case cmdOrder, cmdPerformance:
		return r.guard(r.startCategory(ctx, ev.UserID, store.Category(text)))
	case cmdInstruction:
		next := store.New(ev.UserID).
			WithCategory(store.CategoryInstruction).
			WithStep(store.StepSelectShijishoOption)
		return replyWith(carousel.InstructionMenu(), next)
	case cmdApplication:
		return Outcome{Messages: []dto.Message{carousel.ApplicationMenu(r.appMenuURL)}, Clear: true}
	case cmdInstructionSend:
		return r.guard(r.startInstructionSend(ctx, ev.UserID))
	case cmdInstructionView:
		return r.guard(r.startInstructionView(ctx, ev.UserID))
	}

	// View-mode employee selection.
	if s.Step == store.StepSelectEmployee && employeeCodePattern.MatchString(text) {
		return r.guard(r.selectViewEmployee(ctx, ev.UserID, text, s))
	}

	// Report title selection.
	if s.Step == store.StepSelectReport && strings.HasPrefix(text, "帳票") {
		return r.guard(r.selectReport(ctx, text, s))
	}

	// Pagination tokens.
	if page, ok := parsePageToken(text, carousel.NextEmployeeToken); ok {
		return r.guard(r.nextEmployeePage(ctx, ev.UserID, page, s))
	}
	if page, ok := parsePageToken(text, carousel.NextTitleToken); ok {
		return r.guard(r.nextReportPage(ctx, page, s))
	}

	// Filename entry.
	if s.Step == store.StepWaitingForFilename && ev.Kind == KindText {
		return r.enterFilename(ctx, ev.UserID, text, s)
	}

	// Plain text that looks like a stray filename attempt.
	if ev.Kind == KindText && plainTextPattern.MatchString(text) {
		return reply(msgUploadGuidance)
	}

	return reply(msgChooseFromMenu)
}

func (r *Router) guard(out Outcome, err error) Outcome {
	if err != nil {
		r.logger.Error("DialogRouter", "Handler failed", map[string]interface{}{
			"error": err.Error(),
		})
		return reply(msgRetryLater)
	}
	return out
}

func (r *Router) failure(userID, op string, err error) Outcome {
	r.logger.Error("DialogRouter", "Handler failed", map[string]interface{}{
		"user_id":   userID,
		"operation": op,
		"error":     err.Error(),
	})
	return reply(msgRetryLater)
}

func parsePageToken(text, token string) (int, bool) {
	rest, ok := strings.CutPrefix(text, token)
	if !ok {
		return 0, false
	}
	page, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || page < 0 {
		return 0, false
	}
	return page, true
}

// lastSelection is best effort, a storage error just loses the pin.
func (r *Router) lastSelection(ctx context.Context, userID string) string {
	code, err := r.selections.Get(ctx, userID)
	if err != nil {
		r.logger.Warn("DialogRouter", "Last selection lookup failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return ""
	}
	return code
}

func (r *Router) startCategory(ctx context.Context, userID string, category store.Category) (Outcome, error) {
	employees, err := r.employees.FindAll(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("list employees: %w", err)
	}
	refs := make([]store.EmployeeRef, 0, len(employees))
	for _, e := range employees {
		refs = append(refs, store.EmployeeRef{Code: e.Code, Name: e.Name})
	}
	next := store.New(userID).
		WithMode(store.ModeView, category).
		WithStep(store.StepSelectEmployee)
	msg := carousel.EmployeeCarousel(refs, 0, r.lastSelection(ctx, userID))
	return replyWith(msg, next), nil
}

func (r *Router) startInstructionSend(ctx context.Context, userID string) (Outcome, error) {
	employees, err := r.employees.FindAll(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("list employees: %w", err)
	}
	refs := make([]store.EmployeeRef, 0, len(employees))
	for _, e := range employees {
		refs = append(refs, store.EmployeeRef{Code: e.Code, Name: e.Name})
	}
	next := store.New(userID).
		WithMode(store.ModeUpload, store.CategoryInstruction).
		WithStep(store.StepSelectEmployee)
	msg := carousel.EmployeeCarousel(refs, 0, r.lastSelection(ctx, userID))
	return replyWith(msg, next), nil
}

func (r *Router) startInstructionView(ctx context.Context, userID string) (Outcome, error) {
	rows, err := r.reports.FindByCategory(ctx, store.CategoryInstruction)
	if err != nil {
		return Outcome{}, fmt.Errorf("list instructions: %w", err)
	}
	next := store.New(userID).
		WithMode(store.ModeView, store.CategoryInstruction).
		WithStep(store.StepSelectEmployee)
	refs := report.EmployeeRefs(report.GroupByEmployee(rows))
	if len(refs) == 0 {
		return replyWith(dto.TextMessage(msgNoReports), next), nil
	}
	msg := carousel.EmployeeCarousel(refs, 0, r.lastSelection(ctx, userID))
	return replyWith(msg, next), nil
}

func (r *Router) selectUploadEmployee(ctx context.Context, userID, code string, s store.Session) (Outcome, error) {
	if err := r.selections.Save(ctx, userID, code); err != nil {
		return Outcome{}, fmt.Errorf("save selection: %w", err)
	}
	emp, err := r.employees.FindByCode(ctx, code)
	if err != nil {
		return Outcome{}, fmt.Errorf("find employee %s: %w", code, err)
	}
	ref := store.EmployeeRef{Code: code, Name: defaultEmployeeName}
	text := msgSelectedCode(code)
	if emp != nil {
		ref.Name = emp.Name
		text = msgSendInstruction(emp.Name)
	}
	next := s.WithEmployee(ref).WithStep(store.StepCollecting)
	return replyWith(dto.TextMessage(text), next), nil
}

func (r *Router) selectViewEmployee(ctx context.Context, userID, code string, s store.Session) (Outcome, error) {
	if err := r.selections.Save(ctx, userID, code); err != nil {
		return Outcome{}, fmt.Errorf("save selection: %w", err)
	}
	next := s.WithEmployee(store.EmployeeRef{Code: code}).WithStep(store.StepSelectReport)

	rows, err := r.reports.FindByCategory(ctx, s.Category)
	if err != nil {
		return Outcome{}, fmt.Errorf("list reports: %w", err)
	}

	if s.Category == store.CategoryInstruction {
		entries := report.GroupByEmployee(rows)[report.PadCode(code)]
		switch len(entries) {
		case 0:
			return replyWith(dto.TextMessage(msgNoReports), next), nil
		case 1:
			// A single artifact skips the carousel and links directly.
			out, err := r.linkReply(ctx, entries[0].ArtifactName)
			if err != nil {
				return Outcome{}, err
			}
			out.Session = &next
			return out, nil
		default:
			return replyWith(carousel.EntryCarousel(entries, 0), next), nil
		}
	}

	if len(rows) == 0 {
		return replyWith(dto.TextMessage(msgNoReports), next), nil
	}
	return replyWith(carousel.TitleCarousel(rows, 0), next), nil
}

func (r *Router) selectReport(ctx context.Context, text string, s store.Session) (Outcome, error) {
	match := reportTokenPattern.FindStringSubmatch(text)
	if match == nil {
		return reply(msgBadTitleToken), nil
	}
	title := strings.TrimSpace(match[1])

	var artifact string
	if s.Category == store.CategoryInstruction {
		artifact = title
	} else {
		if s.SelectedEmployee == nil {
			return reply(msgSelectEmpFirst), nil
		}
		emp, err := r.employees.FindByCode(ctx, s.SelectedEmployee.Code)
		if err != nil {
			return Outcome{}, fmt.Errorf("find employee %s: %w", s.SelectedEmployee.Code, err)
		}
		if emp == nil {
			return reply(msgEmployeeLookup), nil
		}
		artifact = report.ResolveArtifactName(s.Category, s.SelectedEmployee.Code, emp.Name, title)
	}
	return r.linkReply(ctx, artifact)
}

// linkReply resolves an artifact and answers with a shortened link. A
// failed shorten falls back to the raw URL.
func (r *Router) linkReply(ctx context.Context, artifact string) (Outcome, error) {
	url, err := r.links.Lookup(ctx, artifact)
	if err != nil {
		return Outcome{}, fmt.Errorf("resolve link: %w", err)
	}
	if url == "" {
		return reply(msgFileNotFound), nil
	}
	short, err := r.shortener.Shorten(ctx, url)
	if err != nil {
		r.logger.Warn("DialogRouter", "Shorten failed, replying with raw URL", map[string]interface{}{
			"error": err.Error(),
		})
		short = url
	}
	return reply(msgReportLink(short)), nil
}

func (r *Router) nextEmployeePage(ctx context.Context, userID string, page int, s store.Session) (Outcome, error) {
	var refs []store.EmployeeRef
	if s.Category == store.CategoryInstruction && s.Mode == store.ModeView {
		rows, err := r.reports.FindByCategory(ctx, store.CategoryInstruction)
		if err != nil {
			return Outcome{}, fmt.Errorf("list instructions: %w", err)
		}
		refs = report.EmployeeRefs(report.GroupByEmployee(rows))
	} else {
		employees, err := r.employees.FindAll(ctx)
		if err != nil {
			return Outcome{}, fmt.Errorf("list employees: %w", err)
		}
		for _, e := range employees {
			refs = append(refs, store.EmployeeRef{Code: e.Code, Name: e.Name})
		}
	}
	msg := carousel.EmployeeCarousel(refs, page, r.lastSelection(ctx, userID))
	return Outcome{Messages: []dto.Message{msg}}, nil
}

func (r *Router) nextReportPage(ctx context.Context, page int, s store.Session) (Outcome, error) {
	rows, err := r.reports.FindByCategory(ctx, s.Category)
	if err != nil {
		return Outcome{}, fmt.Errorf("list reports: %w", err)
	}
	if s.Category == store.CategoryInstruction {
		if s.SelectedEmployee == nil {
			return reply(msgChooseFromMenu), nil
		}
		entries := report.GroupByEmployee(rows)[report.PadCode(s.SelectedEmployee.Code)]
		if len(entries) == 0 {
			return reply(msgNoReports), nil
		}
		return Outcome{Messages: []dto.Message{carousel.EntryCarousel(entries, page)}}, nil
	}
	if len(rows) == 0 {
		return reply(msgNoReports), nil
	}
	return Outcome{Messages: []dto.Message{carousel.TitleCarousel(rows, page)}}, nil
}

func (r *Router) enterFilename(ctx context.Context, userID, text string, s store.Session) Outcome {
	name, err := ValidateFilename(text)
	switch {
	case errors.Is(err, ErrFilenameEmpty), errors.Is(err, ErrFilenameForbidden):
		return reply(msgForbiddenChars)
	case errors.Is(err, ErrFilenameTooLong):
		return reply(msgFilenameTooLong)
	}

	link, err := r.uploader.Finalize(ctx, s.WithTemp(store.TempFileNameInput, name), name)
	if err != nil {
		r.logger.Error("DialogRouter", "Finalize upload failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return reply(msgUploadFailed)
	}
	return Outcome{Messages: []dto.Message{dto.TextMessage(msgUploadDone(link))}, Clear: true}
}
