package stream

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/matrixvis/internal/color565"
	"github.com/san-kum/matrixvis/internal/framebuffer"
	"github.com/san-kum/matrixvis/internal/player"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFrameRoundTrip(t *testing.T) {
	buf := framebuffer.New(3, 2)
	buf.SetPixel(2, 1, color565.Red)

	data := EncodeFrame(buf)
	if len(data) != 4+12 {
		t.Fatalf("expected 16 bytes, got %d", len(data))
	}
	if data[0] != 3 || data[2] != 2 {
		t.Errorf("unexpected header % x", data[:4])
	}

	got, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Pixel(2, 1) != color565.Red || got.Lit() != 1 {
		t.Error("expected pixels to survive the round trip")
	}

	if _, err := DecodeFrame(data[:7]); !errors.Is(err, ErrShortFrame) {
		t.Errorf("expected ErrShortFrame, got %v", err)
	}
	if _, err := DecodeFrame([]byte{1}); !errors.Is(err, ErrShortFrame) {
		t.Errorf("expected ErrShortFrame, got %v", err)
	}
}

func TestApplyControl(t *testing.T) {
	s := New(":0", quietLogger())
	x, y := 0.5, -1.0

	s.apply(Control{X: &x})
	s.apply(Control{Y: &y, Button: "next"})
	s.apply(Control{Button: "down"})
	s.apply(Control{Button: "sideways"})

	in := s.Poll()
	if in.Accel.X != 0.5 || in.Accel.Y != -1 {
		t.Errorf("expected tilt (0.5,-1), got %+v", in.Accel)
	}
	if in.Button != player.ButtonNext {
		t.Errorf("expected next, got %s", in.Button)
	}
	if in = s.Poll(); in.Button != player.ButtonPrev {
		t.Errorf("expected prev, got %s", in.Button)
	}
	if in = s.Poll(); in.Button != player.ButtonNone {
		t.Errorf("expected no more presses, got %s", in.Button)
	}
}

func TestIndexPage(t *testing.T) {
	srv := httptest.NewServer(New(":0", quietLogger()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "<canvas") {
		t.Errorf("expected viewer page, got %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/nope")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestWebsocketStream(t *testing.T) {
	s := New(":0", quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.hub.Run(ctx)

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	buf := framebuffer.New(4, 4)
	buf.SetPixel(1, 2, color565.Green)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.OnFrame(player.Frame{Buffer: buf})
			}
		}
	}()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("expected binary frame, got %d", kind)
	}
	got, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Pixel(1, 2) != color565.Green {
		t.Error("expected streamed pixel")
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"x":1,"button":"next"}`)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	deadline := time.Now().Add(3 * time.Second)
	var in player.Input
	for time.Now().Before(deadline) {
		in = s.Poll()
		if in.Button != player.ButtonNone {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if in.Button != player.ButtonNext || in.Accel.X != 1 {
		t.Errorf("expected next with tilt x=1, got %+v", in)
	}
}

func TestHubBroadcastNeverBlocks(t *testing.T) {
	h := newHub(quietLogger())
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			h.Broadcast([]byte{byte(i)})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked without a running hub")
	}
	if got := <-h.broadcast; got[0] != 99 {
		t.Errorf("expected latest frame queued, got %d", got[0])
	}
}
