package worker

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket is a Transport over a gorilla/websocket connection. Messages
// travel as JSON text frames, except render messages, which travel as a
// binary frame (4-byte header length, JSON header, raw pixels) so bitmaps
// are not base64 encoded.
type WebSocket struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	once    sync.Once
}

// NewWebSocket wraps an established connection.
func NewWebSocket(conn *websocket.Conn) *WebSocket {
	conn.SetReadLimit(maxFrameBytes)
	return &WebSocket{conn: conn}
}

// maxFrameBytes bounds a single incoming frame (a 4K RGBA bitmap fits).
const maxFrameBytes = 64 << 20

// Dial connects to a render server at url (ws:// or wss://).
func Dial(ctx context.Context, url string) (*WebSocket, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return NewWebSocket(conn), nil
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 1 << 16,
}

// Upgrade upgrades an HTTP request to a WebSocket transport.
func Upgrade(w http.ResponseWriter, r *http.Request) (*WebSocket, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("upgrade: %w", err)
	}
	return NewWebSocket(conn), nil
}

func (ws *WebSocket) Send(ctx context.Context, m Message) error {
	kind, data, err := encode(m)
	if err != nil {
		return err
	}
	ws.writeMu.Lock()
	defer ws.writeMu.Unlock()
	if dl, ok := ctx.Deadline(); ok {
		_ = ws.conn.SetWriteDeadline(dl)
	} else {
		_ = ws.conn.SetWriteDeadline(time.Time{})
	}
	if err := ws.conn.WriteMessage(kind, data); err != nil {
		return ws.mapErr(ctx, err)
	}
	return nil
}

func (ws *WebSocket) Receive(ctx context.Context) (Message, error) {
	stop := context.AfterFunc(ctx, func() {
		_ = ws.conn.SetReadDeadline(time.Now())
	})
	defer stop()
	kind, data, err := ws.conn.ReadMessage()
	if err != nil {
		return Message{}, ws.mapErr(ctx, err)
	}
	return decode(kind, data)
}

// Close sends a normal close frame and closes the connection.
func (ws *WebSocket) Close() error {
	var err error
	ws.once.Do(func() {
		ws.writeMu.Lock()
		_ = ws.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		ws.writeMu.Unlock()
		err = ws.conn.Close()
	})
	return err
}

func (ws *WebSocket) mapErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var ce *websocket.CloseError
	if errors.As(err, &ce) || errors.Is(err, websocket.ErrCloseSent) {
		return ErrClosed
	}
	return err
}

// --- Codec ---

func encode(m Message) (int, []byte, error) {
	if m.Type != TypeRender || m.Bitmap == nil {
		data, err := json.Marshal(m)
		if err != nil {
			return 0, nil, fmt.Errorf("encode %s: %w", m.Type, err)
		}
		return websocket.TextMessage, data, nil
	}
	pix := m.Bitmap.Pix
	hdr := m
	bm := *m.Bitmap
	bm.Pix = nil
	hdr.Bitmap = &bm
	head, err := json.Marshal(hdr)
	if err != nil {
		return 0, nil, fmt.Errorf("encode %s: %w", m.Type, err)
	}
	data := make([]byte, 4+len(head)+len(pix))
	binary.BigEndian.PutUint32(data, uint32(len(head)))
	copy(data[4:], head)
	copy(data[4+len(head):], pix)
	return websocket.BinaryMessage, data, nil
}

func decode(kind int, data []byte) (Message, error) {
	var m Message
	if kind != websocket.BinaryMessage {
		if err := json.Unmarshal(data, &m); err != nil {
			return Message{}, fmt.Errorf("decode message: %w", err)
		}
		return m, nil
	}
	if len(data) < 4 {
		return Message{}, fmt.Errorf("decode message: short binary frame")
	}
	n := int(binary.BigEndian.Uint32(data))
	if 4+n > len(data) {
		return Message{}, fmt.Errorf("decode message: header length %d exceeds frame", n)
	}
	if err := json.Unmarshal(data[4:4+n], &m); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	if m.Bitmap == nil {
		return Message{}, fmt.Errorf("decode message: binary frame without bitmap")
	}
	pix := data[4+n:]
	if len(pix) != 4*m.Bitmap.Width*m.Bitmap.Height {
		return Message{}, fmt.Errorf("decode message: bitmap %dx%d with %d bytes", m.Bitmap.Width, m.Bitmap.Height, len(pix))
	}
	m.Bitmap.Pix = pix
	return m, nil
}
