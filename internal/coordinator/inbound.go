package coordinator

import (
	"fmt"

	"github.com/parthgoyal01/aurora/internal/chat"
	"github.com/parthgoyal01/aurora/internal/debug"
	"github.com/parthgoyal01/aurora/internal/events"
	"github.com/parthgoyal01/aurora/internal/pubsub"
)

// handleTransport is the transport handler. It runs on transport
// goroutines, so it only queues the event and never blocks.
func (c *Coordinator) handleTransport(ev events.TransportEvent) {
	c.inboxMu.Lock()
	c.inbox = append(c.inbox, ev)
	c.inboxMu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Coordinator) applyInbox() {
	c.inboxMu.Lock()
	evs := c.inbox
	c.inbox = nil
	c.inboxMu.Unlock()

	for _, ev := range evs {
		c.onTransportEvent(ev)
	}
}

func (c *Coordinator) onTransportEvent(ev events.TransportEvent) {
	switch ev.Type {
	case events.TransportEventConnected:
		if !c.authenticated() {
			return
		}
		c.store.SetConnected(true)
		c.hub.Transport.Publish(pubsub.EventCreated, ev)

	case events.TransportEventDisconnected:
		// A clean close is always ours and already reflected in the store.
		if ev.Error == nil || !c.authenticated() {
			return
		}
		c.store.SetConnected(false)
		c.hub.Transport.Publish(pubsub.EventDeleted, ev)
		if c.pending != nil {
			c.resetPending("connection lost")
		}
		c.notify(ev.Error, "Connection lost. Log in again to resume live replies.")

	case events.TransportEventReply:
		c.onReply(ev)
	}
}

// onReply attributes an assistant reply to the send awaiting it. Replies
// with no pending send, or whose echoed session or correlation id do not
// match, are dropped rather than attached to another session.
func (c *Coordinator) onReply(ev events.TransportEvent) {
	p := c.pending
	switch {
	case p == nil:
		debug.Event("coordinator", "reply_dropped", "no pending send")
		return
	case ev.SessionID != "" && ev.SessionID != p.sessionID:
		debug.Event("coordinator", "reply_dropped",
			fmt.Sprintf("session %s does not match pending %s", ev.SessionID, p.sessionID))
		return
	case ev.CorrelationID != "" && ev.CorrelationID != p.correlationID:
		debug.Event("coordinator", "reply_dropped",
			fmt.Sprintf("id %s does not match pending %s", ev.CorrelationID, p.correlationID))
		return
	}

	c.pending = nil
	if !c.store.AppendMessage(p.sessionID, chat.OriginAssistant, ev.Content) {
		debug.Event("coordinator", "reply_dropped", "session no longer active")
		c.store.SendingFinished()
		return
	}
	c.store.SendingFinished()
	c.hub.Transport.Publish(pubsub.EventUpdated, ev)
	c.hub.Session.Publish(pubsub.EventUpdated,
		events.NewSessionMessageAddedEvent(p.sessionID, chat.NewAssistantMessage(ev.Content)))
}
