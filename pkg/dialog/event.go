package dialog

// Kind tells the router whether an event carries text or a file.
type Kind string

const (
	KindText Kind = "text"
	KindFile Kind = "file"
)

// Event is one inbound chat event, already stripped of transport detail.
type Event struct {
	UserID     string
	ReplyToken string
	Kind       Kind
	Text       string
	MessageID  string
	FileName   string
}
