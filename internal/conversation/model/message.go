package model

import (
	"time"

	"github.com/satish9484/chat-app/internal/platform"
	session "github.com/satish9484/chat-app/internal/session/model"
)

// Message is immutable once appended; the only later mutation is whole-
// message deletion. Position in the stored sequence is the order of record,
// not the timestamp.
type Message struct {
	ID       string    `json:"id" firestore:"id"`
	Text     string    `json:"text" firestore:"text"`
	ImageURL string    `json:"img,omitempty" firestore:"img,omitempty"`
	SenderID string    `json:"senderId" firestore:"senderId"`
	SentAt   time.Time `json:"date" firestore:"date"`
}

func (m Message) Document() platform.Document {
	doc := platform.Document{
		"id":       m.ID,
		"text":     m.Text,
		"senderId": m.SenderID,
		"date":     m.SentAt,
	}
	if m.ImageURL != "" {
		doc["img"] = m.ImageURL
	}
	return doc
}

func MessageFromDocument(doc platform.Document) Message {
	return Message{
		ID:       stringField(doc, "id"),
		Text:     stringField(doc, "text"),
		ImageURL: stringField(doc, "img"),
		SenderID: stringField(doc, "senderId"),
		SentAt:   timeField(doc, "date"),
	}
}

// LastMessage is the denormalized summary shown in the recent-chats list.
type LastMessage struct {
	Text string    `json:"text" firestore:"text"`
	Date time.Time `json:"date" firestore:"date"`
}

// IndexEntry is one row of a principal's recent-chats index: enough to
// render the list without reading any conversation document.
type IndexEntry struct {
	ChatID      string
	Peer        session.Principal
	LastMessage *LastMessage
	// Date is the conversation's creation / last-activity time, the
	// ranking fallback when no message exists yet.
	Date time.Time
}

// SortKey ranks entries for the recent-chats view: last message date first,
// conversation date as fallback, missing timestamps rank as epoch so
// no-message conversations sort last.
func (e IndexEntry) SortKey() time.Time {
	if e.LastMessage != nil && !e.LastMessage.Date.IsZero() {
		return e.LastMessage.Date
	}
	return e.Date
}

func stringField(doc platform.Document, key string) string {
	s, _ := doc[key].(string)
	return s
}

func timeField(doc platform.Document, key string) time.Time {
	t, _ := doc[key].(time.Time)
	return t
}
