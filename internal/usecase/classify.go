package usecase

import "github.com/morgangallant/logs-old/internal/domain"

// MessageKind is the handling path selected for an inbound message.
type MessageKind int

const (
	KindUnhandled MessageKind = iota
	KindText
	KindPhoto
)

// Classification is the result of inspecting an inbound message.
type Classification struct {
	Kind   MessageKind
	Text   string
	Photos []domain.PhotoSize
}

// Classify inspects an inbound message and selects its handling path.
// Text takes precedence over photos when a payload carries both; the
// platform does not normally send such payloads, but the tie-break is
// explicit rather than an accident of branch order. Pure function, no
// side effects.
func Classify(msg *domain.IncomingMessage) Classification {
	if msg == nil {
		return Classification{Kind: KindUnhandled}
	}
	if msg.Text != "" {
		return Classification{Kind: KindText, Text: msg.Text}
	}
	if len(msg.Photo) > 0 {
		return Classification{Kind: KindPhoto, Photos: msg.Photo}
	}
	return Classification{Kind: KindUnhandled}
}
