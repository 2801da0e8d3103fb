package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"report-bot-be/internal/pkg/logger"
	"report-bot-be/internal/pkg/mailer"
	"report-bot-be/pkg/events"
)

type IAuditService interface {
	Consume(ctx context.Context) error
}

// auditService tails the upload topic and writes one audit line per
// finished upload. The mailer is optional, when present the admin gets a
// notification as well.
type auditService struct {
	pubSub   *gochannel.GoChannel
	auditLog logger.ILogger
	mailer   mailer.IEmailService
}

func NewAuditService(
	pubSub *gochannel.GoChannel,
	auditLog logger.ILogger,
	mail mailer.IEmailService,
) IAuditService {
	return &auditService{
		pubSub:   pubSub,
		auditLog: auditLog,
		mailer:   mail,
	}
}

func (s *auditService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, events.TopicReportUploaded)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(msg)
		}
	}()

	return nil
}

func (s *auditService) processMessage(msg *message.Message) {
	var payload events.ReportUploaded
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		// Ack malformed messages, retrying cannot fix them.
		msg.Ack()
		return
	}

	s.auditLog.Info("UploadAudit", "Report uploaded", map[string]interface{}{
		"user_id":       payload.UserID,
		"employee_code": payload.EmployeeCode,
		"artifact_name": payload.ArtifactName,
		"share_link":    payload.ShareLink,
		"uploaded_at":   payload.UploadedAt,
	})

	if s.mailer != nil {
		subject := "指示書アップロード通知"
		body := fmt.Sprintf("社員コード %s の指示書「%s」がアップロードされました。<br>リンク: %s",
			payload.EmployeeCode, payload.ArtifactName, payload.ShareLink)
		if err := s.mailer.NotifyAdmin(subject, body); err != nil {
			s.auditLog.Warn("UploadAudit", "Admin notification failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	msg.Ack()
}
