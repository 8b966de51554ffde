package domain

// Message roles as used by both the HTTP API and the inference backend.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Supported response languages. Unrecognized values fall back to English.
const (
	LanguageEnglish = "en"
	LanguageChinese = "zh"
)

// Message is a single entry in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Location is an optional caller geolocation attached to a chat request.
type Location struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	City string  `json:"city,omitempty"`
}

// ChatRequest is the inbound chat payload.
// Messages must be non-empty; the last entry is normally the user's turn.
type ChatRequest struct {
	Messages []Message `json:"messages"`
	Model    string    `json:"model"`
	Language string    `json:"language"`
	Location *Location `json:"location,omitempty"`
}

// LastUserMessage returns the content of the most recent user message,
// or "" when the request carries none.
func (r *ChatRequest) LastUserMessage() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i].Content
		}
	}
	return ""
}
