package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"report-bot-be/internal/dto"
	"report-bot-be/internal/entity"
	"report-bot-be/internal/pkg/logger"
	"report-bot-be/internal/repository/contract"
	"report-bot-be/pkg/events"
	"report-bot-be/pkg/store"
)

const (
	defaultEmployeeCode = "000"
	defaultEmployeeName = "名無し"

	writeDateLayout = "2006年1月2日 15:04:05 作成"
)

const (
	msgReceivedExcel    = "📄 Excelファイルを受け取りました。\n保存するファイル名を入力してください。"
	msgReceivedWord     = "📄 Wordファイルを受け取りました。\n保存するファイル名を入力してください。"
	msgReceivedPDF      = "📄 PDFファイルを受け取りました。\n保存するファイル名を入力してください。"
	msgUnsupportedFile  = "⚠️ このファイル形式には対応していません。\nExcel・Word・PDFのいずれかを送信してください。"
	msgConversionFailed = "❌ ファイルのPDF変換に失敗しました。PDF形式で再送してください。"
)

// AttachmentSource streams the raw bytes of a received chat attachment.
type AttachmentSource interface {
	Content(ctx context.Context, messageID string) (io.ReadCloser, error)
}

// ArtifactStore is the remote drive the finished PDFs land on.
type ArtifactStore interface {
	Upload(ctx context.Context, name string, data []byte) error
	Rename(ctx context.Context, oldName, newName string) error
	CreateShareLink(ctx context.Context, name string) (string, error)
}

// PDFConverter turns an office document into a PDF next to it.
type PDFConverter interface {
	ToPDF(ctx context.Context, inputPath, outputDir string) (string, error)
}

// Shortener exchanges the long share link for a short viewer URL.
type Shortener interface {
	Shorten(ctx context.Context, target string) (string, error)
}

// Pipeline is the two-phase file intake. Receive pulls the attachment,
// converts it to PDF and parks it in tempDir. Finalize names it, pushes it
// to the drive, records it and announces the upload on the bus.
type Pipeline struct {
	attachments AttachmentSource
	artifacts   ArtifactStore
	records     contract.ReportRepository
	converter   PDFConverter
	publisher   message.Publisher
	shortener   Shortener
	tempDir     string
	logger      logger.ILogger
	now         func() time.Time
}

func NewPipeline(
	attachments AttachmentSource,
	artifacts ArtifactStore,
	records contract.ReportRepository,
	converter PDFConverter,
	publisher message.Publisher,
	shortener Shortener,
	tempDir string,
	log logger.ILogger,
) *Pipeline {
	return &Pipeline{
		attachments: attachments,
		artifacts:   artifacts,
		records:     records,
		converter:   converter,
		publisher:   publisher,
		shortener:   shortener,
		tempDir:     tempDir,
		logger:      log,
		now:         time.Now,
	}
}

func receivedMessage(ext string) (string, bool) {
	switch ext {
	case "xlsx", "xls":
		return msgReceivedExcel, true
	case "docx", "doc":
		return msgReceivedWord, true
	case "pdf":
		return msgReceivedPDF, true
	default:
		return "", false
	}
}

// Receive downloads the attachment, converts non-PDFs, and advances the
// session to the filename step. Unsupported types and conversion failures
// reply without advancing.
func (p *Pipeline) Receive(ctx context.Context, messageID, fileName string, s store.Session) (store.Session, []dto.Message, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	received, ok := receivedMessage(ext)
	if !ok {
		return s, []dto.Message{dto.TextMessage(msgUnsupportedFile)}, nil
	}

	stream, err := p.attachments.Content(ctx, messageID)
	if err != nil {
		return s, nil, fmt.Errorf("fetch attachment %s: %w", messageID, err)
	}
	defer stream.Close()
	data, err := io.ReadAll(stream)
	if err != nil {
		return s, nil, fmt.Errorf("read attachment %s: %w", messageID, err)
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	tempPath := filepath.Join(p.tempDir, fmt.Sprintf("%s_%s.%s", s.UserID, token, ext))
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return s, nil, fmt.Errorf("write temp file: %w", err)
	}

	if ext != "pdf" {
		converted, err := p.converter.ToPDF(ctx, tempPath, p.tempDir)
		os.Remove(tempPath)
		if err != nil {
			p.logger.Error("UploadPipeline", "PDF conversion failed", map[string]interface{}{
				"user_id": s.UserID,
				"file":    fileName,
				"error":   err.Error(),
			})
			return s, []dto.Message{dto.TextMessage(msgConversionFailed)}, nil
		}
		tempPath = converted
	}

	code, name := defaultEmployeeCode, defaultEmployeeName
	if s.SelectedEmployee != nil {
		if s.SelectedEmployee.Code != "" {
			code = s.SelectedEmployee.Code
		}
		if s.SelectedEmployee.Name != "" {
			name = s.SelectedEmployee.Name
		}
	}

	next := s.WithStep(store.StepWaitingForFilename).
		WithTemp(store.TempUploadedFilePath, tempPath).
		WithTemp(store.TempEmployeeCode, code).
		WithTemp(store.TempEmployeeName, name)

	p.logger.Info("UploadPipeline", "Attachment staged", map[string]interface{}{
		"user_id": s.UserID,
		"path":    tempPath,
	})
	return next, []dto.Message{dto.TextMessage(received)}, nil
}

// Finalize assembles the artifact name, archives any previous copy under an
// OLD_ prefix, uploads the staged PDF, records it and returns the share
// link. Only the archive step is best effort; every failure from the upload
// on is returned, the staged file stays for a retry.
func (p *Pipeline) Finalize(ctx context.Context, s store.Session, baseName string) (string, error) {
	srcPath := s.TempValue(store.TempUploadedFilePath)
	if srcPath == "" {
		return "", fmt.Errorf("no staged file for user %s", s.UserID)
	}
	code := s.TempValue(store.TempEmployeeCode)
	if code == "" {
		code = defaultEmployeeCode
	}
	name := s.TempValue(store.TempEmployeeName)
	if name == "" {
		name = defaultEmployeeName
	}
	finalName := fmt.Sprintf("%s_%s_%s.pdf", code, baseName, name)

	if err := p.artifacts.Rename(ctx, finalName, "OLD_"+finalName); err != nil {
		p.logger.Warn("UploadPipeline", "Archiving previous copy failed", map[string]interface{}{
			"name":  finalName,
			"error": err.Error(),
		})
	}

	data, err := os.ReadFile(srcPath)
	if err != nil {
		return "", fmt.Errorf("read staged file: %w", err)
	}
	if err := p.artifacts.Upload(ctx, finalName, data); err != nil {
		return "", fmt.Errorf("upload %s: %w", finalName, err)
	}
	link, err := p.artifacts.CreateShareLink(ctx, finalName)
	if err != nil {
		return "", fmt.Errorf("share link for %s: %w", finalName, err)
	}
	if p.shortener != nil {
		if short, err := p.shortener.Shorten(ctx, link); err != nil {
			p.logger.Warn("UploadPipeline", "Shorten failed, returning raw link", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			link = short
		}
	}

	record := &entity.Report{
		Name:      strings.TrimSuffix(finalName, ".pdf"),
		Category:  store.CategoryInstruction,
		WriteDate: p.now().Format(writeDateLayout),
	}
	// A record failure surfaces to the user even though the artifact is
	// already on the drive; without the row the report never shows up in
	// the browse lists. The uploaded copy stays, no rollback.
	if err := p.records.Upsert(ctx, record); err != nil {
		return "", fmt.Errorf("record %s: %w", record.Name, err)
	}

	p.announce(s.UserID, code, finalName, link)
	os.Remove(srcPath)

	p.logger.Info("UploadPipeline", "Upload finished", map[string]interface{}{
		"user_id": s.UserID,
		"name":    finalName,
	})
	return link, nil
}

func (p *Pipeline) announce(userID, code, artifactName, link string) {
	if p.publisher == nil {
		return
	}
	payload, err := json.Marshal(events.ReportUploaded{
		UserID:       userID,
		EmployeeCode: code,
		ArtifactName: artifactName,
		ShareLink:    link,
		UploadedAt:   p.now(),
	})
	if err != nil {
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.publisher.Publish(events.TopicReportUploaded, msg); err != nil {
		p.logger.Warn("UploadPipeline", "Publishing upload event failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
