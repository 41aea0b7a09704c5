// Package notify computes the recipient set for content-creation events and
// emits one notification per recipient.
package notify

import (
	"context"
	"log"
	"sync"

	"github.com/auxilio/backend/internal/apperr"
)

// PreferenceSource lists subscriber user IDs by preference flag.
// Broad covers "notify me about every such event"; Scoped covers the
// "only mine" variants that are narrowed by participation.
type PreferenceSource interface {
	BroadSubscribers(ctx context.Context, kind EventKind) ([]int, error)
	ScopedSubscribers(ctx context.Context, kind EventKind) ([]int, error)
}

// ParticipationSource filters candidate user IDs down to the ones who
// authored content within a scope. Pure reads, no side effects.
type ParticipationSource interface {
	// ParticipatedInTopic keeps candidates who authored at least one post
	// or feedback inside the topic.
	ParticipatedInTopic(ctx context.Context, topicID int, candidates []int) ([]int, error)
	// ParticipatedInPost keeps candidates who authored the post itself or
	// feedback under it.
	ParticipatedInPost(ctx context.Context, postID int, candidates []int) ([]int, error)
	// ParticipatedInThread keeps candidates who authored the feedback or a
	// reply to it.
	ParticipatedInThread(ctx context.Context, feedbackID int, candidates []int) ([]int, error)
}

// NotificationSink persists one notification. Creation is not idempotent:
// retrying a fan-out after partial success duplicates notifications.
type NotificationSink interface {
	Create(ctx context.Context, recipientID int, title, body string) error
}

type Fanout struct {
	prefs         PreferenceSource
	participation ParticipationSource
	sink          NotificationSink

	// ExcludeActor drops the acting user from the recipient set. The
	// participation filters would usually include the actor, so this is an
	// explicit choice rather than an emergent one.
	ExcludeActor bool
}

func NewFanout(prefs PreferenceSource, participation ParticipationSource, sink NotificationSink) *Fanout {
	return &Fanout{
		prefs:         prefs,
		participation: participation,
		sink:          sink,
		ExcludeActor:  true,
	}
}

// NotifyOnCreate computes the eligible recipients for the event and emits one
// notification each. A failure while reading preferences or participation
// aborts the whole fan-out; a failure while emitting for one recipient is
// logged and does not block the others.
func (f *Fanout) NotifyOnCreate(ctx context.Context, event Event) error {
	broad, err := f.prefs.BroadSubscribers(ctx, event.Kind)
	if err != nil {
		return apperr.Internal("Failed to load subscribers")
	}
	scoped, err := f.prefs.ScopedSubscribers(ctx, event.Kind)
	if err != nil {
		return apperr.Internal("Failed to load subscribers")
	}

	broad, scoped, err = f.applyScope(ctx, event, broad, scoped)
	if err != nil {
		return apperr.Internal("Failed to resolve participation")
	}

	recipients := distinctUnion(broad, scoped)
	if f.ExcludeActor {
		recipients = without(recipients, event.ActorID)
	}
	if len(recipients) == 0 {
		return nil
	}

	title, body := event.render()

	var wg sync.WaitGroup
	for _, id := range recipients {
		wg.Add(1)
		go func(recipientID int) {
			defer wg.Done()
			if err := f.sink.Create(ctx, recipientID, title, body); err != nil {
				log.Printf("notify: failed to create notification for user %d: %v", recipientID, err)
			}
		}(id)
	}
	wg.Wait()

	return nil
}

// applyScope narrows the candidate sets per event kind. Broad subscribers to
// feedback/reply events only hear about topics they participated in; scoped
// ("only mine") subscribers only hear about the specific post or thread they
// took part in.
func (f *Fanout) applyScope(ctx context.Context, event Event, broad, scoped []int) ([]int, []int, error) {
	var err error
	switch event.Kind {
	case TopicCreated:
		// no participation scope exists before the topic has content
	case PostCreated:
		scoped, err = f.participation.ParticipatedInTopic(ctx, event.TopicID, scoped)
	case FeedbackCreated:
		broad, err = f.participation.ParticipatedInTopic(ctx, event.TopicID, broad)
		if err == nil {
			scoped, err = f.participation.ParticipatedInPost(ctx, event.PostID, scoped)
		}
	case ReplyCreated:
		broad, err = f.participation.ParticipatedInTopic(ctx, event.TopicID, broad)
		if err == nil {
			scoped, err = f.participation.ParticipatedInThread(ctx, event.FeedbackID, scoped)
		}
	}
	if err != nil {
		return nil, nil, err
	}
	return broad, scoped, nil
}

// distinctUnion merges the two sets without assuming they are disjoint; a
// user qualifying under both flags still gets exactly one notification.
func distinctUnion(a, b []int) []int {
	seen := make(map[int]bool, len(a)+len(b))
	var out []int
	for _, id := range a {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range b {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func without(ids []int, drop int) []int {
	var out []int
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
