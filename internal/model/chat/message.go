package chat

// Sender identifies who authored a chat bubble.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one bubble in the UI transcript. Transcripts are append-only and
// live only as long as the UI that holds them.
type Message struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
	Safety bool   `json:"safety,omitempty"`
}

// Request is the relay request body.
type Request struct {
	Message string `json:"message" validate:"required"`
}

// Reply is the relay success body. Safety reports that the crisis
// short-circuit produced the text instead of the model.
type Reply struct {
	Reply  string `json:"reply"`
	Safety bool   `json:"safety"`
}

// ErrorBody is the relay failure body.
type ErrorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}
