// Package chat implements the chat widget: the message log, the submission
// state machine, local commands and the remote/simulated reply paths.
package chat

import (
	"time"

	"github.com/google/uuid"
)

// Origin says who a message is attributed to.
type Origin int

const (
	OriginUser Origin = iota
	OriginRemote
	OriginSystem
)

func (o Origin) String() string {
	switch o {
	case OriginUser:
		return "user"
	case OriginRemote:
		return "remote"
	case OriginSystem:
		return "system"
	}
	return "unknown"
}

// Severity styles system messages.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityError
	SeveritySuccess
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityNormal:
		return "normal"
	case SeverityError:
		return "error"
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	}
	return "unknown"
}

// DisplayMessage is one immutable entry of the conversation.
type DisplayMessage struct {
	ID        string
	Text      string
	Origin    Origin
	Severity  Severity
	Timestamp time.Time
}

// Log is the append-only message log.
type Log struct {
	messages []DisplayMessage
}

// Append stores a new message and returns it with its ID assigned.
func (l *Log) Append(text string, origin Origin, severity Severity, ts time.Time) DisplayMessage {
	m := DisplayMessage{
		ID:        uuid.NewString(),
		Text:      text,
		Origin:    origin,
		Severity:  severity,
		Timestamp: ts,
	}
	l.messages = append(l.messages, m)
	return m
}

// Len returns the number of logged messages.
func (l *Log) Len() int {
	return len(l.messages)
}

// All returns a copy of every logged message in order.
func (l *Log) All() []DisplayMessage {
	out := make([]DisplayMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

func (l *Log) since(start int) []DisplayMessage {
	if start >= len(l.messages) {
		return nil
	}
	return l.messages[start:]
}
