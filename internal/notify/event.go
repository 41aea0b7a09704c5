package notify

import "fmt"

// EventKind names a content-creation event that can trigger a fan-out.
type EventKind string

const (
	TopicCreated    EventKind = "topic_created"
	PostCreated     EventKind = "post_created"
	FeedbackCreated EventKind = "feedback_created"
	ReplyCreated    EventKind = "reply_created"
)

// Event carries the identifiers needed to scope a fan-out plus the bits of
// content used for templating the notification text.
type Event struct {
	Kind       EventKind
	TopicID    int
	PostID     int
	FeedbackID int

	ActorID   int
	ActorName string

	// Title is what was just created (post title, feedback body, ...);
	// ParentTitle is the container it landed in.
	Title       string
	ParentTitle string
}

func (e Event) render() (title, body string) {
	switch e.Kind {
	case TopicCreated:
		return "New topic", fmt.Sprintf("A topic %q is created by %s", e.Title, e.ActorName)
	case PostCreated:
		return "New subtopic", fmt.Sprintf("A subtopic %q is created under topic %q by %s", e.Title, e.ParentTitle, e.ActorName)
	case FeedbackCreated:
		return "New comment", fmt.Sprintf("A comment with title %q is created under subtopic %q", e.Title, e.ParentTitle)
	case ReplyCreated:
		return "New reply", fmt.Sprintf("A reply %q is created under comment %q", e.Title, e.ParentTitle)
	}
	return "Notification", e.Title
}
