package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/discograph/pkg/controller"
	apperr "github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/layout"
	"github.com/matzehuels/discograph/pkg/session"
)

// Websocket timeouts.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Message types exchanged over the stream.
const (
	msgSnapshot  = "snapshot"
	msgGraph     = "graph"
	msgNotice    = "notice"
	msgError     = "error"
	msgDragStart = "drag_start"
	msgDrag      = "drag"
	msgDragEnd   = "drag_end"
	msgClick     = "click"
	msgSelect    = "select"
	msgPing      = "ping"
)

// inbound is a client → server message.
type inbound struct {
	Type string  `json:"type"`
	ID   string  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// outbound is a server → client message.
type outbound struct {
	Type  string      `json:"type"`
	Data  any         `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
	Code  apperr.Code `json:"code,omitempty"`
}

// streamClient is one websocket connection bound to a session.
type streamClient struct {
	conn   *websocket.Conn
	sess   *session.Session
	logger *log.Logger

	snapshots chan layout.Snapshot // Holds only the latest frame
	send      chan outbound
	actions   *errgroup.Group // Controller calls; joined before the handler returns
}

// handleStream upgrades to a websocket that pushes a layout snapshot every
// frame while the simulation is hot and accepts drag and click messages.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "err", err)
		return
	}

	c := &streamClient{
		conn:      conn,
		sess:      sess,
		logger:    s.logger.With("session", sess.ID),
		snapshots: make(chan layout.Snapshot, 1),
		send:      make(chan outbound, 16),
	}
	c.logger.Debug("stream opened")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	c.actions = g
	g.Go(func() error {
		defer cancel()
		return c.readPump(ctx)
	})
	g.Go(func() error {
		defer cancel()
		return c.writePump(ctx)
	})
	g.Go(func() error {
		defer cancel()
		err := sess.Stream(ctx, c.pushSnapshot)
		if apperr.Is(err, apperr.ErrCodeInvalidState) {
			c.reply(ctx, errorMessage(err))
		}
		return err
	})
	g.Wait()
	c.logger.Debug("stream closed")
}

// pushSnapshot replaces any undelivered frame with s.
func (c *streamClient) pushSnapshot(s layout.Snapshot) {
	select {
	case c.snapshots <- s:
		return
	default:
	}
	select {
	case <-c.snapshots:
	default:
	}
	select {
	case c.snapshots <- s:
	default:
	}
}

func (c *streamClient) reply(ctx context.Context, m outbound) {
	select {
	case c.send <- m:
	case <-ctx.Done():
	}
}

func (c *streamClient) readPump(ctx context.Context) error {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure,
				websocket.CloseAbnormalClosure, websocket.CloseNoStatusReceived) {
				c.logger.Warn("websocket read error", "err", err)
			}
			return nil
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			c.reply(ctx, errorMessage(apperr.New(apperr.ErrCodeInvalidInput, "malformed message")))
			continue
		}
		c.route(ctx, msg)
	}
}

func (c *streamClient) route(ctx context.Context, msg inbound) {
	var err error
	switch msg.Type {
	case msgDragStart:
		err = c.sess.Layout.DragStart(msg.ID)
	case msgDrag:
		err = c.sess.Layout.Drag(msg.ID, msg.X, msg.Y)
	case msgDragEnd:
		err = c.sess.Layout.DragEnd(msg.ID)
	case msgClick:
		c.act(ctx, func() error {
			_, err := c.sess.Controller.ClickNode(ctx, msg.ID)
			return err
		})
	case msgSelect:
		c.act(ctx, func() error {
			_, err := c.sess.Controller.SelectArtist(ctx, msg.ID)
			return err
		})
	case msgPing:
	default:
		err = apperr.New(apperr.ErrCodeInvalidInput, "unknown message type %q", msg.Type)
	}
	if err != nil {
		c.reply(ctx, errorMessage(err))
	}
}

// act runs a controller action in the background and reports the resulting
// graph, or a notice if the action failed in a way the user should see.
func (c *streamClient) act(ctx context.Context, fn func() error) {
	c.actions.Go(func() error {
		if err := fn(); err != nil {
			if n := controller.NoticeFor(err); !n.IsZero() {
				c.reply(ctx, outbound{Type: msgNotice, Data: n})
			}
			c.logger.Debug("stream action failed", "err", err)
			return nil
		}
		c.reply(ctx, outbound{Type: msgGraph, Data: c.sess.Graph()})
		return nil
	})
}

func (c *streamClient) writePump(ctx context.Context) error {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.drain()
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return nil
		case snap := <-c.snapshots:
			if err := c.write(outbound{Type: msgSnapshot, Data: snap}); err != nil {
				return err
			}
		case m := <-c.send:
			if err := c.write(m); err != nil {
				return err
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// drain flushes queued replies before the connection closes.
func (c *streamClient) drain() {
	for {
		select {
		case m := <-c.send:
			if c.write(m) != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *streamClient) write(m outbound) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(m); err != nil {
		c.logger.Debug("websocket write failed", "type", m.Type, "err", err)
		return err
	}
	return nil
}

func errorMessage(err error) outbound {
	code := apperr.GetCode(err)
	if code == "" {
		code = apperr.ErrCodeInternal
	}
	return outbound{Type: msgError, Error: apperr.UserMessage(err), Code: code}
}
