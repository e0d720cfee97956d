// Package app wires the chat client runtime: config, logging, snapshot
// store selection, the WebSocket transport, the conversation session, and
// the observability sidecar.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eltonjung81/atualizarfront/internal/chat"
	"github.com/eltonjung81/atualizarfront/internal/notify"
	"github.com/eltonjung81/atualizarfront/internal/storage"
	"github.com/eltonjung81/atualizarfront/internal/transport"
)

// App is the terminal chat client runtime.
type App struct {
	cfg Config
	log Logger

	snapshots storage.SnapshotStore

	dbPool *pgxpool.Pool
	rdb    *redis.Client

	ws *transport.WS
}

// New constructs a fully wired App instance from config and logger.
// The conversation id is validated later by the session, but the transport
// and store are connected eagerly so startup failures are loud.
func New(ctx context.Context, cfg Config, log Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	if err := a.newSnapshots(ctx); err != nil {
		return nil, err
	}

	ws, err := transport.DialWS(ctx, log, transport.WSConfig{
		URL:               cfg.WSURL,
		DialTimeout:       cfg.DialTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		HeartbeatInterval: cfg.HeartbeatInterval,
	})
	if err != nil {
		a.closeStores()
		return nil, err
	}
	a.ws = ws

	return a, nil
}

// newSnapshots selects the snapshot store: Postgres, then Redis, then the
// in-memory fallback.
func (a *App) newSnapshots(ctx context.Context) error {
	if a.cfg.DatabaseURL != "" {
		pool, err := NewDBPool(ctx, a.cfg)
		if err != nil {
			return err
		}
		st, err := storage.NewPostgresStore(pool)
		if err != nil {
			pool.Close()
			return err
		}
		a.dbPool = pool
		a.snapshots = st
		a.log.Info("snapshots.postgres")
		return nil
	}

	if a.cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPassword,
			DB:       int(a.cfg.RedisDB),
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return fmt.Errorf("redis ping: %w", err)
		}
		st, err := storage.NewRedisStore(rdb, storage.WithTTL(a.cfg.RedisTTL))
		if err != nil {
			_ = rdb.Close()
			return err
		}
		a.rdb = rdb
		a.snapshots = st
		a.log.Info("snapshots.redis", "addr", a.cfg.RedisAddr)
		return nil
	}

	a.snapshots = storage.NewMemoryStore()
	a.log.Info("snapshots.memory")
	return nil
}

// Run opens the conversation session and drives the terminal loop until
// context cancellation, stdin EOF, or connection loss.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	srv := a.startSidecar()

	sink, err := notify.NewTerminalSink(os.Stdout)
	if err != nil {
		return err
	}

	session, err := chat.NewSession(ctx, chat.SessionParams{
		ConversationID: a.cfg.ConversationID,
		PeerName:       a.cfg.PeerName,
		SenderKey:      a.cfg.SenderKey,
		Transport:      a.ws,
		Snapshots:      a.snapshots,
		Sink:           sink,
		Logger:         a.log,
		PersistDelay:   a.cfg.PersistDelay,
		OnHistoryLoaded: func() {
			fmt.Println("--- history loaded ---")
		},
		OnPeerMessage: func(m chat.Message) {
			fmt.Printf("[%s] %s: %s\n", m.DisplayTime, a.cfg.PeerName, m.Text)
		},
	})
	if err != nil {
		return err
	}
	defer session.Close()

	for _, m := range session.Messages() {
		printMessage(a.cfg.PeerName, m)
	}

	lines := readLines(ctx)

	for {
		select {
		case <-ctx.Done():
			a.shutdownSidecar(srv)
			return nil
		case <-a.ws.Done():
			a.log.Info("app.transport.lost")
			a.shutdownSidecar(srv)
			return errors.New("connection lost")
		case line, ok := <-lines:
			if !ok {
				a.shutdownSidecar(srv)
				return nil
			}
			a.handleLine(ctx, session, line)
		}
	}
}

func (a *App) handleLine(ctx context.Context, session *chat.Session, line string) {
	switch strings.TrimSpace(line) {
	case "/bg":
		session.SetForeground(false)
		fmt.Println("--- backgrounded ---")
		return
	case "/fg":
		session.SetForeground(true)
		fmt.Println("--- foregrounded ---")
		return
	}

	m, err := session.Send(ctx, line)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		fmt.Println("! type a message first")
	case errors.Is(err, chat.ErrNotConnected):
		fmt.Println("! no connection to the server; message kept:", line)
	case err != nil:
		fmt.Println("! send failed:", err)
	default:
		printMessage(a.cfg.PeerName, m)
	}
}

func printMessage(peerName string, m chat.Message) {
	who := "you"
	if m.Sender == chat.SenderPeer {
		who = peerName
	}
	fmt.Printf("[%s] %s: %s (%s)\n", m.DisplayTime, who, m.Text, m.Status)
}

// readLines pumps stdin lines into a channel so the select loop stays
// responsive to cancellation.
func readLines(ctx context.Context) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			select {
			case <-ctx.Done():
				return
			case out <- sc.Text():
			}
		}
	}()
	return out
}

func (a *App) startSidecar() *http.Server {
	if a.cfg.MetricsAddr == "" {
		return nil
	}

	mux := http.NewServeMux()
	registerHTTP(mux)

	srv := &http.Server{
		Addr:              a.cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Warn("sidecar.fail", "err", err)
		}
	}()

	a.log.Info("sidecar.start", "addr", a.cfg.MetricsAddr)
	return srv
}

func (a *App) shutdownSidecar(srv *http.Server) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

func (a *App) close() {
	if a.ws != nil {
		a.ws.Close()
	}
	a.closeStores()
}

func (a *App) closeStores() {
	if a.dbPool != nil {
		a.dbPool.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
}
