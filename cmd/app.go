package cmd

import (
	"context"
	"fmt"

	"github.com/parthgoyal01/aurora/internal/archive"
	"github.com/parthgoyal01/aurora/internal/config"
	"github.com/parthgoyal01/aurora/internal/coordinator"
	"github.com/parthgoyal01/aurora/internal/db"
	"github.com/parthgoyal01/aurora/internal/debug"
	"github.com/parthgoyal01/aurora/internal/history"
	"github.com/parthgoyal01/aurora/internal/pubsub"
	"github.com/parthgoyal01/aurora/internal/store"
	"github.com/parthgoyal01/aurora/internal/transport"
)

// app holds the wired client: coordinator, brokers and the local archive.
type app struct {
	cfg        *config.Config
	credential *config.Credential
	hub        *pubsub.Hub
	coord      *coordinator.Coordinator
	database   *db.DB
	cancel     context.CancelFunc
	archiveRun chan struct{}
}

// newApp wires the client for cfg. The archive is optional: if the database
// cannot be opened the client runs without it.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	credential := config.NewCredential(cfg.Token)

	loader, err := history.New(cfg.APIURL, credential)
	if err != nil {
		return nil, fmt.Errorf("creating history client: %w", err)
	}

	hub := pubsub.NewHub()
	coord := coordinator.New(coordinator.Config{
		Store:      store.New(),
		Loader:     loader,
		Transport:  transport.New(cfg.SocketURL, credential),
		Credential: credential,
		Tokens:     cfg,
		Hub:        hub,
	})

	runCtx, cancel := context.WithCancel(ctx)
	a := &app{
		cfg:        cfg,
		credential: credential,
		hub:        hub,
		coord:      coord,
		cancel:     cancel,
	}

	database, err := db.Open(runCtx, cfg.ArchivePath())
	if err != nil {
		debug.Error("app", err, "opening archive; continuing without it")
	} else {
		a.database = database
		a.archiveRun = make(chan struct{})
		sub := hub.Session.Subscribe(runCtx)
		go func() {
			defer close(a.archiveRun)
			archive.New(database).Consume(runCtx, sub)
		}()
	}

	coord.Start()
	return a, nil
}

// authenticate signs in with the configured credential, if any. Failures
// surface as notices and auth events.
func (a *app) authenticate(ctx context.Context) {
	if !a.credential.Present() {
		return
	}
	go func() {
		if err := a.coord.Authenticate(ctx); err != nil {
			debug.Error("app", err, "authenticating on start")
		}
	}()
}

// close stops the coordinator, drains the archive and releases the database.
func (a *app) close() {
	a.coord.Stop()
	if debug.IsEnabled() {
		debug.Log("%s", a.hub.DebugString())
	}
	a.hub.Shutdown()
	if a.archiveRun != nil {
		<-a.archiveRun
	}
	a.cancel()
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			debug.Error("app", err, "closing archive")
		}
	}
}
