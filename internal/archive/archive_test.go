package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parthgoyal01/aurora/internal/chat"
	"github.com/parthgoyal01/aurora/internal/db"
	"github.com/parthgoyal01/aurora/internal/events"
	"github.com/parthgoyal01/aurora/internal/pubsub"
)

func newArchive(t *testing.T) *Archive {
	t.Helper()
	database, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return New(database)
}

func TestReplaceSessions(t *testing.T) {
	ctx := context.Background()
	a := newArchive(t)

	first := []chat.Session{{ID: "c", Title: "C"}, {ID: "b", Title: "B"}, {ID: "a", Title: "A"}}
	require.NoError(t, a.ReplaceSessions(ctx, first))
	require.NoError(t, a.ReplaceHistory(ctx, chat.Session{ID: "a", Title: "A"},
		[]chat.Message{chat.NewUserMessage("hi")}))

	got, err := a.Sessions(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(first, got); diff != "" {
		t.Errorf("sessions mismatch (-want +got):\n%s", diff)
	}

	second := []chat.Session{{ID: "b", Title: "B renamed"}, {ID: "c", Title: "C"}}
	require.NoError(t, a.ReplaceSessions(ctx, second))

	got, err = a.Sessions(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(second, got); diff != "" {
		t.Errorf("sessions mismatch (-want +got):\n%s", diff)
	}

	msgs, err := a.Messages(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, msgs, "pruned session keeps no messages")
}

func TestAddSessionGoesToTop(t *testing.T) {
	ctx := context.Background()
	a := newArchive(t)

	require.NoError(t, a.ReplaceSessions(ctx, []chat.Session{{ID: "a", Title: "A"}}))
	require.NoError(t, a.AddSession(ctx, chat.Session{ID: "n", Title: "New"}))

	got, err := a.Sessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []chat.Session{{ID: "n", Title: "New"}, {ID: "a", Title: "A"}}, got)
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	a := newArchive(t)
	trip := chat.Session{ID: "a", Title: "Trip"}

	require.NoError(t, a.ReplaceHistory(ctx, trip, []chat.Message{
		chat.NewUserMessage("hi"),
		chat.NewAssistantMessage("hello"),
	}))
	require.NoError(t, a.AppendMessage(ctx, "a", chat.NewUserMessage("again")))
	require.NoError(t, a.AppendMessage(ctx, "a", chat.NewAssistantMessage("sure")))

	got, err := a.Messages(ctx, "a")
	require.NoError(t, err)
	want := []chat.Message{
		chat.NewUserMessage("hi"),
		chat.NewAssistantMessage("hello"),
		chat.NewUserMessage("again"),
		chat.NewAssistantMessage("sure"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}

	sess, err := a.Session(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, trip, sess, "append keeps the known title")

	require.NoError(t, a.ReplaceHistory(ctx, trip, []chat.Message{chat.NewUserMessage("only")}))
	got, err = a.Messages(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []chat.Message{chat.NewUserMessage("only")}, got)
}

func TestAppendCreatesUnknownSession(t *testing.T) {
	ctx := context.Background()
	a := newArchive(t)

	require.NoError(t, a.AppendMessage(ctx, "x", chat.NewUserMessage("first")))

	sess, err := a.Session(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "x", sess.ID)
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()
	a := newArchive(t)

	require.NoError(t, a.ReplaceHistory(ctx, chat.Session{ID: "a", Title: "A"},
		[]chat.Message{chat.NewUserMessage("hi")}))
	require.NoError(t, a.DeleteSession(ctx, "a"))

	_, err := a.Session(ctx, "a")
	assert.ErrorIs(t, err, chat.ErrNotFound)

	msgs, err := a.Messages(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	assert.NoError(t, a.DeleteSession(ctx, "a"), "deleting twice is fine")
}

func TestRunRecordsSessionEvents(t *testing.T) {
	a := newArchive(t)
	hub := pubsub.NewHub()
	defer hub.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx, hub.Session)
		close(done)
	}()
	require.Eventually(t, func() bool { return hub.Session.SubscriberCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Session.Publish(pubsub.EventUpdated, events.NewListLoadedEvent([]chat.Session{{ID: "a", Title: "Trip"}}))
	hub.Session.Publish(pubsub.EventUpdated, events.NewHistoryLoadedEvent("a", "Trip",
		[]chat.Message{chat.NewUserMessage("hi")}))
	hub.Session.Publish(pubsub.EventUpdated, events.NewSessionMessageAddedEvent("a", chat.NewAssistantMessage("hello")))
	hub.Session.Publish(pubsub.EventCreated, events.NewSessionCreatedEvent("b", "Other"))
	hub.Session.Publish(pubsub.EventDeleted, events.NewSessionDeletedEvent("b"))

	require.Eventually(t, func() bool {
		msgs, err := a.Messages(context.Background(), "a")
		if err != nil || len(msgs) != 2 {
			return false
		}
		_, err = a.Session(context.Background(), "b")
		return err != nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
