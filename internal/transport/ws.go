package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"

	v1 "github.com/eltonjung81/atualizarfront/contracts/chat/v1"
	"github.com/eltonjung81/atualizarfront/internal/ids"
)

const (
	wsDefaultWriteTimeout = 5 * time.Second
	wsDefaultDialTimeout  = 10 * time.Second

	// Heartbeat defaults: ping every interval, close after bounded failures.
	wsDefaultHeartbeatInterval = 25 * time.Second
	wsDefaultHeartbeatTimeout  = 5 * time.Second
	wsMaxPingFailures          = 3

	// Max bytes per websocket frame read (hard limit).
	wsMaxFrameBytes = 64 << 10 // 64 KiB
)

// WSConfig tunes the WebSocket transport.
type WSConfig struct {
	URL string

	DialTimeout  time.Duration
	WriteTimeout time.Duration

	HeartbeatInterval time.Duration
	HeartbeatTimeout  time.Duration
}

// WS is a Transport over one WebSocket connection.
//
// Reconnection is deliberately out of scope: when the connection drops,
// IsConnected flips to false and stays there; the owner decides what to do.
type WS struct {
	log    *slog.Logger
	cfg    WSConfig
	connID string

	conn     *websocket.Conn
	registry *listenerRegistry

	connected atomic.Bool
	cancel    context.CancelFunc
	dropOnce  sync.Once
	done      chan struct{}
}

// DialWS connects to cfg.URL and starts the read and heartbeat loops.
func DialWS(ctx context.Context, log *slog.Logger, cfg WSConfig) (*WS, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("transport: missing ws url")
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = wsDefaultDialTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = wsDefaultWriteTimeout
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = wsDefaultHeartbeatInterval
	}
	if cfg.HeartbeatTimeout <= 0 {
		cfg.HeartbeatTimeout = wsDefaultHeartbeatTimeout
	}

	dialCtx, dialCancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer dialCancel()

	conn, _, err := websocket.Dial(dialCtx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", cfg.URL, err)
	}
	conn.SetReadLimit(wsMaxFrameBytes)

	connID, err := ids.NewULID(time.Now().UTC())
	if err != nil {
		_ = conn.Close(websocket.StatusInternalError, "id generation failed")
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())

	w := &WS{
		log:      log,
		cfg:      cfg,
		connID:   connID,
		conn:     conn,
		registry: newListenerRegistry(),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	w.connected.Store(true)

	go w.readLoop(runCtx)
	go w.heartbeat(runCtx)

	log.Info("ws.connect", "conn_id", connID, "url", cfg.URL)
	return w, nil
}

// AddListener registers a handler for inbound events.
func (w *WS) AddListener(fn Listener) (remove func()) {
	return w.registry.add(fn)
}

// IsConnected reports whether the connection is still up.
func (w *WS) IsConnected() bool {
	return w.connected.Load()
}

// Done is closed when the connection has terminated.
func (w *WS) Done() <-chan struct{} {
	return w.done
}

// SendCommand marshals cmd and writes it as one text frame.
func (w *WS) SendCommand(ctx context.Context, cmd v1.Command) error {
	if !w.connected.Load() {
		return errors.New("transport: not connected")
	}
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("transport: invalid command: %w", err)
	}

	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("transport: encode command: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, w.cfg.WriteTimeout)
	defer cancel()

	if err := w.conn.Write(writeCtx, websocket.MessageText, data); err != nil {
		w.drop(websocket.StatusAbnormalClosure, "write failed")
		return fmt.Errorf("transport: write: %w", err)
	}
	return nil
}

// Close terminates the connection (idempotent).
func (w *WS) Close() {
	w.drop(websocket.StatusNormalClosure, "client closed")
}

func (w *WS) drop(code websocket.StatusCode, reason string) {
	w.dropOnce.Do(func() {
		w.connected.Store(false)
		w.cancel()
		_ = w.conn.Close(code, reason)
		close(w.done)
		w.log.Info("ws.close", "conn_id", w.connID, "reason", reason)
	})
}

func (w *WS) readLoop(ctx context.Context) {
	for {
		mt, data, err := w.conn.Read(ctx)
		if err != nil {
			switch classifyReadErr(err) {
			case readErrClose:
				w.drop(websocket.StatusNormalClosure, "peer closed")
			case readErrCtxDone:
				w.drop(websocket.StatusNormalClosure, "context done")
			case readErrConnClosed:
				w.drop(websocket.StatusAbnormalClosure, "conn closed")
			default:
				w.log.Info("ws.read.fail", "conn_id", w.connID, "err", err)
				w.drop(websocket.StatusAbnormalClosure, "read failed")
			}
			return
		}

		if mt != websocket.MessageText && mt != websocket.MessageBinary {
			w.log.Info("ws.read.skip", "conn_id", w.connID, "message_type", fmt.Sprint(mt))
			continue
		}

		var ev v1.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			w.log.Info("ws.event.bad_json", "conn_id", w.connID, "err", err)
			continue
		}
		if err := ev.Validate(); err != nil {
			w.log.Info("ws.event.invalid", "conn_id", w.connID, "err", err)
			continue
		}

		w.registry.dispatch(ev)
	}
}

func (w *WS) heartbeat(ctx context.Context) {
	t := time.NewTicker(w.cfg.HeartbeatInterval)
	defer t.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			hbCtx, hbCancel := context.WithTimeout(ctx, w.cfg.HeartbeatTimeout)
			err := w.conn.Ping(hbCtx)
			hbCancel()

			if err != nil {
				failures++
				w.log.Info("ws.ping.fail", "conn_id", w.connID, "failures", failures, "err", err)
				if failures >= wsMaxPingFailures {
					w.drop(websocket.StatusGoingAway, "heartbeat failed")
					return
				}
				continue
			}
			failures = 0
		}
	}
}

// ---- read error classification ----

type readErrKind uint8

const (
	readErrUnknown readErrKind = iota
	readErrClose
	readErrCtxDone
	readErrConnClosed
)

func classifyReadErr(err error) readErrKind {
	if websocket.CloseStatus(err) != -1 {
		return readErrClose
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return readErrCtxDone
	}
	if errors.Is(err, net.ErrClosed) || errors.Is(err, io.EOF) {
		return readErrConnClosed
	}
	return readErrUnknown
}
