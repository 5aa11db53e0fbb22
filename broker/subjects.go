package broker

import "strings"

// Subject maps an event type to its NATS subject, e.g. "studysync.note.updated".
func Subject(prefix string, eventType string) string {
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}

// Wildcard matches every event published under prefix.
func Wildcard(prefix string) string {
	return Subject(prefix, ">")
}

// EventTypeFromSubject strips the prefix added by Subject.
func EventTypeFromSubject(prefix, subject string) string {
	if prefix == "" {
		return subject
	}
	return strings.TrimPrefix(subject, prefix+".")
}
