package events

import "time"

// NoticeLevel is the severity of a user-visible notice.
type NoticeLevel string

// Notice levels.
const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// NoticeEvent is a one-shot message for the user, such as a failed delete.
type NoticeEvent struct {
	Level     NoticeLevel
	Text      string
	Timestamp time.Time
}

// NewInfoNotice creates an informational notice.
func NewInfoNotice(text string) NoticeEvent {
	return NoticeEvent{Level: NoticeInfo, Text: text, Timestamp: time.Now()}
}

// NewErrorNotice creates a failure notice.
func NewErrorNotice(text string) NoticeEvent {
	return NoticeEvent{Level: NoticeError, Text: text, Timestamp: time.Now()}
}
