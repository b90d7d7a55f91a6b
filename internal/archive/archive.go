// Package archive keeps a local SQLite copy of every transcript the client
// has seen, so chats can be exported without the server.
//
// The archive is fed by session events from the hub. It never writes back
// to the store and the coordinator never reads from it.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/parthgoyal01/aurora/internal/chat"
	"github.com/parthgoyal01/aurora/internal/db"
	"github.com/parthgoyal01/aurora/internal/debug"
	"github.com/parthgoyal01/aurora/internal/events"
	"github.com/parthgoyal01/aurora/internal/pubsub"
)

// Archive stores sessions and their messages.
type Archive struct {
	db  *db.DB
	now func() time.Time
}

// New creates an archive on an open database.
func New(database *db.DB) *Archive {
	return &Archive{db: database, now: time.Now}
}

// ReplaceSessions records the full server list, most recent first.
// Sessions missing from the list are removed with their messages.
func (a *Archive) ReplaceSessions(ctx context.Context, sessions []chat.Session) error {
	now := a.now().UnixMilli()
	return a.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `CREATE TEMP TABLE IF NOT EXISTS listed (id TEXT PRIMARY KEY)`); err != nil {
			return fmt.Errorf("preparing list: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM listed`); err != nil {
			return fmt.Errorf("preparing list: %w", err)
		}

		for i, s := range sessions {
			if err := upsertSession(ctx, tx, s, i, now); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO listed (id) VALUES (?)`, s.ID); err != nil {
				return fmt.Errorf("marking session %s: %w", s.ID, err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM sessions WHERE id NOT IN (SELECT id FROM listed)`); err != nil {
			return fmt.Errorf("pruning sessions: %w", err)
		}
		return nil
	})
}

// AddSession records a newly created session at the top of the list.
func (a *Archive) AddSession(ctx context.Context, s chat.Session) error {
	now := a.now().UnixMilli()
	return a.db.WithTx(ctx, func(tx *sql.Tx) error {
		var top sql.NullInt64
		if err := tx.QueryRowContext(ctx, `SELECT MIN(position) FROM sessions`).Scan(&top); err != nil {
			return fmt.Errorf("reading positions: %w", err)
		}
		return upsertSession(ctx, tx, s, int(top.Int64)-1, now)
	})
}

// ReplaceHistory stores the full history of a session.
func (a *Archive) ReplaceHistory(ctx context.Context, s chat.Session, messages []chat.Message) error {
	now := a.now().UnixMilli()
	return a.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := ensureSession(ctx, tx, s, now); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, s.ID); err != nil {
			return fmt.Errorf("clearing history of %s: %w", s.ID, err)
		}
		for i, m := range messages {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO messages (session_id, seq, origin, content, created_at) VALUES (?, ?, ?, ?, ?)`,
				s.ID, i+1, string(m.Origin), m.Content, now); err != nil {
				return fmt.Errorf("storing message %d of %s: %w", i+1, s.ID, err)
			}
		}
		return nil
	})
}

// AppendMessage adds one message to the end of a session's history.
func (a *Archive) AppendMessage(ctx context.Context, sessionID string, m chat.Message) error {
	now := a.now().UnixMilli()
	return a.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := ensureSession(ctx, tx, chat.Session{ID: sessionID}, now); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (session_id, seq, origin, content, created_at)
			 VALUES (?, COALESCE((SELECT MAX(seq) FROM messages WHERE session_id = ?), 0) + 1, ?, ?, ?)`,
			sessionID, sessionID, string(m.Origin), m.Content, now); err != nil {
			return fmt.Errorf("appending to %s: %w", sessionID, err)
		}
		_, err := tx.ExecContext(ctx, `UPDATE sessions SET updated_at = ? WHERE id = ?`, now, sessionID)
		return err
	})
}

// DeleteSession removes a session and its messages.
func (a *Archive) DeleteSession(ctx context.Context, id string) error {
	if _, err := a.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	return nil
}

// Sessions lists archived sessions in the order the server last reported.
func (a *Archive) Sessions(ctx context.Context) ([]chat.Session, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT id, title FROM sessions ORDER BY position, updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []chat.Session
	for rows.Next() {
		var s chat.Session
		if err := rows.Scan(&s.ID, &s.Title); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Session returns one archived session. Unknown ids match chat.ErrNotFound.
func (a *Archive) Session(ctx context.Context, id string) (chat.Session, error) {
	s := chat.Session{ID: id}
	err := a.db.QueryRowContext(ctx, `SELECT title FROM sessions WHERE id = ?`, id).Scan(&s.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return chat.Session{}, fmt.Errorf("archive: %s: %w", id, chat.ErrNotFound)
	}
	if err != nil {
		return chat.Session{}, fmt.Errorf("reading session %s: %w", id, err)
	}
	return s, nil
}

// Messages returns the archived history of a session, oldest first.
func (a *Archive) Messages(ctx context.Context, sessionID string) ([]chat.Message, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT origin, content FROM messages WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("reading messages of %s: %w", sessionID, err)
	}
	defer func() { _ = rows.Close() }()

	var out []chat.Message
	for rows.Next() {
		var origin, content string
		if err := rows.Scan(&origin, &content); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		out = append(out, chat.Message{Origin: chat.OriginFromRole(origin), Content: content})
	}
	return out, rows.Err()
}

// Run records session events until ctx ends or the broker shuts down.
func (a *Archive) Run(ctx context.Context, broker *pubsub.Broker[events.SessionEvent]) {
	a.Consume(ctx, broker.Subscribe(ctx))
}

// Consume records events from an existing subscription until it closes.
func (a *Archive) Consume(ctx context.Context, sub <-chan pubsub.Event[events.SessionEvent]) {
	for ev := range sub {
		if err := a.Apply(ctx, ev.Payload); err != nil {
			debug.Error("archive", err, string(ev.Payload.Type))
		}
	}
}

// Apply records a single session event.
func (a *Archive) Apply(ctx context.Context, ev events.SessionEvent) error {
	switch ev.Type {
	case events.SessionEventListLoaded:
		return a.ReplaceSessions(ctx, ev.Sessions)
	case events.SessionEventCreated:
		return a.AddSession(ctx, chat.Session{ID: ev.SessionID, Title: ev.Title})
	case events.SessionEventHistoryLoaded:
		return a.ReplaceHistory(ctx, chat.Session{ID: ev.SessionID, Title: ev.Title}, ev.Messages)
	case events.SessionEventMessageAdded:
		return a.AppendMessage(ctx, ev.SessionID, ev.Message)
	case events.SessionEventDeleted:
		return a.DeleteSession(ctx, ev.SessionID)
	default:
		return nil
	}
}

func upsertSession(ctx context.Context, tx *sql.Tx, s chat.Session, position int, now int64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, title, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET title = excluded.title, position = excluded.position`,
		s.ID, s.Title, position, now, now)
	if err != nil {
		return fmt.Errorf("storing session %s: %w", s.ID, err)
	}
	return nil
}

// ensureSession creates the row if missing and fills in a blank title.
func ensureSession(ctx context.Context, tx *sql.Tx, s chat.Session, now int64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, title, position, created_at, updated_at) VALUES (?, ?, 0, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET title = CASE WHEN excluded.title <> '' THEN excluded.title ELSE title END`,
		s.ID, s.Title, now, now)
	if err != nil {
		return fmt.Errorf("storing session %s: %w", s.ID, err)
	}
	return nil
}
