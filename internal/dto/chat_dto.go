package dto

// Outbound message shapes for the chat platform reply API.

const (
	MessageTypeText     = "text"
	MessageTypeTemplate = "template"

	TemplateTypeCarousel = "carousel"

	ActionTypeMessage = "message"
	ActionTypeURI     = "uri"
)

type Action struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Text  string `json:"text,omitempty"`
	URI   string `json:"uri,omitempty"`
}

type CarouselColumn struct {
	Title   string   `json:"title"`
	Text    string   `json:"text"`
	Actions []Action `json:"actions"`
}

type Template struct {
	Type    string           `json:"type"`
	Columns []CarouselColumn `json:"columns"`
}

type Message struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	AltText  string    `json:"altText,omitempty"`
	Template *Template `json:"template,omitempty"`
}

// TextMessage builds a plain text reply.
func TextMessage(text string) Message {
	return Message{Type: MessageTypeText, Text: text}
}

// CarouselMessage wraps columns into a carousel template reply.
func CarouselMessage(altText string, columns []CarouselColumn) Message {
	return Message{
		Type:    MessageTypeTemplate,
		AltText: altText,
		Template: &Template{
			Type:    TemplateTypeCarousel,
			Columns: columns,
		},
	}
}

// Inbound webhook shapes.

type WebhookRequest struct {
	Events []WebhookEvent `json:"events"`
}

type WebhookEvent struct {
	Type       string          `json:"type"`
	ReplyToken string          `json:"replyToken"`
	Source     WebhookSource   `json:"source"`
	Message    *WebhookMessage `json:"message,omitempty"`
}

type WebhookSource struct {
	UserID string `json:"userId"`
}

type WebhookMessage struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	FileName string `json:"fileName,omitempty"`
}
