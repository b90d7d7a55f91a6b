package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/parthgoyal01/aurora/internal/chat"
	"github.com/parthgoyal01/aurora/internal/debug"
	"github.com/parthgoyal01/aurora/internal/events"
	"github.com/parthgoyal01/aurora/internal/pubsub"
	"github.com/parthgoyal01/aurora/internal/store"
)

var errNotAuthenticated = fmt.Errorf("%w: log in first", chat.ErrAuth)

// Authenticate loads the session list with the current credential and, on
// success, opens the transport. A rejected credential leaves the client
// unauthenticated; a network failure leaves it unauthenticated with a
// notice. Authenticating twice is a no-op.
func (c *Coordinator) Authenticate(ctx context.Context) error {
	return c.call(ctx, func(reply func(error)) {
		if c.authenticated() {
			reply(nil)
			return
		}
		if !c.credential.Present() {
			reply(errNotAuthenticated)
			return
		}

		epoch := c.epoch
		debug.Auth("check", "listing sessions")
		async(ctx, c, c.loader.ListSessions, func(list []chat.Session, err error) {
			if epoch != c.epoch {
				reply(ErrSuperseded)
				return
			}
			if err != nil {
				if errors.Is(err, chat.ErrAuth) {
					c.unauthenticate(err)
				} else {
					c.notify(err, "Could not reach the server. Try again later.")
				}
				reply(err)
				return
			}

			c.store.SetSessions(list)
			c.store.SetState(store.StateIdle)
			c.hub.Session.Publish(pubsub.EventUpdated, events.NewListLoadedEvent(list))
			c.hub.Auth.Publish(pubsub.EventCreated, events.NewAuthenticatedEvent())
			debug.Auth("authenticated", fmt.Sprintf("%d sessions", len(list)))

			c.connect(ctx, epoch, reply)
		})
	})
}

// connect opens the transport for the current login. A failed connection
// is a notice; the REST half of the client keeps working.
func (c *Coordinator) connect(ctx context.Context, epoch uint64, reply func(error)) {
	async(ctx, c, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.transport.Connect(ctx)
	}, func(_ struct{}, err error) {
		if epoch != c.epoch {
			// A connection that outlived its login is closed unless a newer
			// login already owns the transport.
			if err == nil && !c.authenticated() {
				if cerr := c.transport.Close(); cerr != nil {
					debug.Error("coordinator", cerr, "closing stale connection")
				}
			}
			reply(ErrSuperseded)
			return
		}
		if err != nil {
			if errors.Is(err, chat.ErrAuth) {
				c.unauthenticate(err)
				reply(err)
				return
			}
			c.notify(err, "Live replies are unavailable. Messages cannot be sent.")
		}
		reply(nil)
	})
}

// Login stores token as the credential and authenticates with it. An
// existing login is closed first.
func (c *Coordinator) Login(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return chat.Invalid("token is required")
	}

	err := c.call(ctx, func(reply func(error)) {
		if c.authenticated() {
			c.logout()
		}
		c.credential.Set(token)
		if c.tokens != nil {
			if err := c.tokens.SaveToken(token); err != nil {
				debug.Error("coordinator", err, "persisting token")
			}
		}
		reply(nil)
	})
	if err != nil {
		return err
	}
	return c.Authenticate(ctx)
}

// Logout closes the transport, clears the credential and all session state.
func (c *Coordinator) Logout(ctx context.Context) error {
	return c.call(ctx, func(reply func(error)) {
		c.logout()
		reply(nil)
	})
}

func (c *Coordinator) logout() {
	c.teardown()
	if c.tokens != nil {
		if err := c.tokens.ClearToken(); err != nil {
			debug.Error("coordinator", err, "clearing stored token")
		}
	}
	c.hub.Auth.Publish(pubsub.EventDeleted, events.NewLoggedOutEvent())
	debug.Auth("logged_out", "")
}

// Refresh reloads the session list. The active session survives if the
// server still lists it.
func (c *Coordinator) Refresh(ctx context.Context) error {
	return c.call(ctx, func(reply func(error)) {
		if !c.authenticated() {
			reply(errNotAuthenticated)
			return
		}

		epoch := c.epoch
		async(ctx, c, c.loader.ListSessions, func(list []chat.Session, err error) {
			if epoch != c.epoch {
				reply(ErrSuperseded)
				return
			}
			if err != nil {
				c.handleFailure(err, "Failed to refresh chats.")
				reply(err)
				return
			}

			before := c.store.Snapshot().ActiveSessionID
			c.store.SetSessions(list)
			if before != "" && c.store.Snapshot().ActiveSessionID == "" {
				c.fetchGen++
				c.resetPending("active session vanished")
			}
			c.hub.Session.Publish(pubsub.EventUpdated, events.NewListLoadedEvent(list))
			reply(nil)
		})
	})
}

// SelectSession activates id and loads its history. A fetch that resolves
// after the user moved on is discarded. An empty id clears the selection.
// Switching abandons any outstanding send.
func (c *Coordinator) SelectSession(ctx context.Context, id string) error {
	return c.call(ctx, func(reply func(error)) {
		if !c.authenticated() {
			reply(errNotAuthenticated)
			return
		}
		if !c.store.SelectSession(id) {
			reply(chat.Invalid("unknown session " + id))
			return
		}
		c.resetPending("session switched")
		c.fetchGen++

		if id == "" {
			reply(nil)
			return
		}

		sess, _ := c.store.Snapshot().ActiveSession()
		c.hub.Session.Publish(pubsub.EventUpdated, events.NewSessionSwitchedEvent(sess.ID, sess.Title))
		c.fetchHistory(ctx, sess, reply)
	})
}

// fetchHistory loads the messages of sess, which must be active.
func (c *Coordinator) fetchHistory(ctx context.Context, sess chat.Session, reply func(error)) {
	epoch, gen := c.epoch, c.fetchGen
	async(ctx, c, func(ctx context.Context) ([]chat.Message, error) {
		return c.loader.FetchHistory(ctx, sess.ID)
	}, func(msgs []chat.Message, err error) {
		if epoch != c.epoch || gen != c.fetchGen || c.store.Snapshot().ActiveSessionID != sess.ID {
			debug.Event("coordinator", "stale_history", sess.ID)
			reply(nil)
			return
		}
		if err != nil {
			c.handleFailure(err, "Failed to load messages.")
			reply(err)
			return
		}

		c.store.SetMessages(sess.ID, msgs)
		c.hub.Session.Publish(pubsub.EventUpdated, events.NewHistoryLoadedEvent(sess.ID, sess.Title, msgs))
		reply(nil)
	})
}

// CreateSession creates a session titled title, activates it and loads its
// history. Blank titles are rejected without a network call. A failure
// leaves the list untouched.
func (c *Coordinator) CreateSession(ctx context.Context, title string) (chat.Session, error) {
	var created chat.Session
	err := c.call(ctx, func(reply func(error)) {
		if !c.authenticated() {
			reply(errNotAuthenticated)
			return
		}
		if chat.IsBlank(title) {
			reply(chat.Invalid("title is required"))
			return
		}

		epoch := c.epoch
		async(ctx, c, func(ctx context.Context) (chat.Session, error) {
			return c.loader.CreateSession(ctx, title)
		}, func(sess chat.Session, err error) {
			if epoch != c.epoch {
				reply(ErrSuperseded)
				return
			}
			if err != nil {
				c.handleFailure(err, "Failed to create chat.")
				reply(err)
				return
			}

			created = sess
			c.store.StartNewSession(sess)
			c.resetPending("session created")
			c.fetchGen++
			c.hub.Session.Publish(pubsub.EventCreated, events.NewSessionCreatedEvent(sess.ID, sess.Title))

			c.fetchHistory(ctx, sess, func(err error) {
				if errors.Is(err, chat.ErrAuth) {
					reply(err)
					return
				}
				// The chat exists even if its empty history failed to load.
				reply(nil)
			})
		})
	})
	if err != nil {
		return chat.Session{}, err
	}
	return created, nil
}

// DeleteSession deletes id. Confirmation is the caller's job. A session the
// server no longer knows counts as deleted. Any other failure leaves the
// list untouched and raises a notice.
func (c *Coordinator) DeleteSession(ctx context.Context, id string) error {
	return c.call(ctx, func(reply func(error)) {
		if !c.authenticated() {
			reply(errNotAuthenticated)
			return
		}

		epoch := c.epoch
		async(ctx, c, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.loader.DeleteSession(ctx, id)
		}, func(_ struct{}, err error) {
			if epoch != c.epoch {
				reply(ErrSuperseded)
				return
			}
			if err != nil && !errors.Is(err, chat.ErrNotFound) {
				c.handleFailure(err, "Failed to delete chat.")
				reply(err)
				return
			}

			wasActive := c.store.Snapshot().ActiveSessionID == id
			c.store.RemoveSession(id)
			if wasActive {
				c.fetchGen++
				c.resetPending("active session deleted")
			}
			c.hub.Session.Publish(pubsub.EventDeleted, events.NewSessionDeletedEvent(id))
			reply(nil)
		})
	})
}

// SetComposerText replaces the composer input.
func (c *Coordinator) SetComposerText(text string) error {
	return c.call(context.Background(), func(reply func(error)) {
		c.store.SetComposerText(text)
		reply(nil)
	})
}

// Send sends the composer text to the active session. It is rejected with
// chat.ErrValidation, changing nothing, while a reply is pending, without
// an active session or with a blank composer. Otherwise the user message is
// appended at once and the composer cleared; the reply arrives later.
func (c *Coordinator) Send() error {
	return c.call(context.Background(), func(reply func(error)) {
		snap := c.store.Snapshot()
		switch {
		case snap.State == store.StateUnauthenticated:
			reply(errNotAuthenticated)
			return
		case snap.IsSending:
			reply(chat.Invalid("a reply is still pending"))
			return
		case !snap.HasActiveSession():
			reply(chat.Invalid("no active session"))
			return
		case chat.IsBlank(snap.ComposerText):
			reply(chat.Invalid("message is empty"))
			return
		}

		sessionID := snap.ActiveSessionID
		content := strings.TrimSpace(snap.ComposerText)

		c.store.SendingStarted()
		c.store.AppendMessage(sessionID, chat.OriginUser, content)
		c.store.SetComposerText("")
		c.hub.Session.Publish(pubsub.EventUpdated,
			events.NewSessionMessageAddedEvent(sessionID, chat.NewUserMessage(content)))

		correlationID, err := c.transport.SendUserMessage(sessionID, content)
		if err != nil {
			// The user message stays; only the pending state is dropped.
			c.store.SendingFinished()
			c.notify(err, "Message not sent. The connection is down.")
			reply(fmt.Errorf("%w: %w", chat.ErrNetwork, err))
			return
		}

		c.pending = &pendingSend{sessionID: sessionID, correlationID: correlationID}
		debug.Event("coordinator", "sent", fmt.Sprintf("session=%s id=%s", sessionID, correlationID))
		reply(nil)
	})
}
