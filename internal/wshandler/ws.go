package wshandler

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gofiber/contrib/websocket"

	"github.com/blaulicht/leitstelle/internal/events"
)

// JSONWsHandler pushes broadcast events to one connected client. Events
// are dropped when the client's buffer is full - a slow client misses
// them and reconciles on its next full read.
type JSONWsHandler struct {
	log    *slog.Logger
	name   string
	ws     *websocket.Conn
	ch     chan *events.Event
	active int32

	// guards ch against a send racing the close in stop
	mx sync.Mutex
}

func NewHandler(log *slog.Logger, name string, ws *websocket.Conn) *JSONWsHandler {
	return &JSONWsHandler{
		log:    log.With("client", name),
		name:   name,
		ws:     ws,
		ch:     make(chan *events.Event, 10),
		active: 1,
	}
}

func (w *JSONWsHandler) IsActive() bool {
	return w != nil && atomic.LoadInt32(&w.active) == 1
}

func (w *JSONWsHandler) stop() {
	if atomic.CompareAndSwapInt32(&w.active, 1, 0) {
		w.mx.Lock()
		close(w.ch)
		w.mx.Unlock()

		if w.ws != nil {
			w.ws.Close()
		}
	}
}

func (w *JSONWsHandler) writer() {
	for evt := range w.ch {
		if !w.IsActive() {
			return
		}

		if evt == nil {
			continue
		}

		_ = w.ws.WriteJSON(evt)
	}
}

func (w *JSONWsHandler) reader() {
	defer w.stop()

	for {
		// clients only connect and listen, any payload is discarded
		if _, _, err := w.ws.ReadMessage(); err != nil {
			return
		}
	}
}

// SendEvent queues an event for the client, it never blocks. The active
// flag is re-checked under the lock so a concurrent stop cannot close
// the channel between the check and the send.
func (w *JSONWsHandler) SendEvent(evt *events.Event) bool {
	if w == nil {
		return false
	}

	w.mx.Lock()
	defer w.mx.Unlock()

	if !w.IsActive() {
		return false
	}

	select {
	case w.ch <- evt:
	default:
	}

	return true
}

func (w *JSONWsHandler) closeHandler(code int, text string) error {
	w.log.Info(fmt.Sprintf("closed with code %d, msg %s", code, text))
	w.stop()

	return nil
}

func (w *JSONWsHandler) Listen() {
	w.log.Debug("ws start")
	w.ws.SetCloseHandler(w.closeHandler)

	go w.writer()
	w.reader()
	w.log.Debug("ws stop")
}
