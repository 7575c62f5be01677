package domain

// Update is the inbound webhook payload from the chat platform.
type Update struct {
	UpdateID int64            `json:"update_id"`
	Message  *IncomingMessage `json:"message,omitempty"`
}

// IncomingMessage is the message portion of an update. Text and Photo are
// both optional; the classifier decides which handling path applies.
type IncomingMessage struct {
	From  Sender      `json:"from"`
	Text  string      `json:"text,omitempty"`
	Photo []PhotoSize `json:"photo,omitempty"`
}

// Sender identifies who sent the message. Only the username is consulted.
type Sender struct {
	Username string `json:"username"`
}

// PhotoSize is one resolution variant of an uploaded photo. The platform
// sends variants ordered smallest to largest.
type PhotoSize struct {
	FileID   string `json:"file_id"`
	FileSize int64  `json:"file_size"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}
