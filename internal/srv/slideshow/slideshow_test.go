package slideshow

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"testing"
	"testing/fstest"
	"time"

	"github.com/jypelle/vekislide/internal/srv/decode"
	"github.com/jypelle/vekislide/internal/srv/event"
	"github.com/jypelle/vekislide/internal/srv/storage"
)

// recorder keeps the order of the calls made by the controller to its collaborators
type recorder struct {
	calls []string
}

func (r *recorder) add(call string) {
	r.calls = append(r.calls, call)
}

type fakeSurface struct {
	height int
	pushes []image.Rectangle
}

func (s *fakeSurface) Height() int {
	return s.height
}

func (s *fakeSurface) PushImage(x, y, width, height int, pixels []uint16) {
	s.pushes = append(s.pushes, image.Rect(x, y, x+width, y+height))
}

type fakeScreen struct {
	rec   *recorder
	fills []color.Color
	texts []string
}

func (s *fakeScreen) Fill(c color.Color) {
	s.rec.add("fill")
	s.fills = append(s.fills, c)
}

func (s *fakeScreen) PrintText(text string) {
	s.rec.add("text")
	s.texts = append(s.texts, text)
}

type fakeGate struct {
	rec   *recorder
	waits int
}

func (g *fakeGate) WaitForAdvance() {
	g.rec.add("wait")
	g.waits++
}

// fakeDecoder pushes one 16x16 block per row of rows, and fails for identifiers in missing
type fakeDecoder struct {
	rec        *recorder
	rows       int
	missing    map[string]bool
	identifier []string
}

func (d *fakeDecoder) Decode(identifier string, sink decode.BlockSink) error {
	d.rec.add("decode " + identifier)
	d.identifier = append(d.identifier, identifier)
	if d.missing[identifier] {
		return &decode.ImageUnavailableError{Identifier: identifier}
	}
	pixels := make([]uint16, 16*16)
	for row := 0; row < d.rows; row++ {
		if sink.Push(decode.Block{X: 0, Y: row * 16, Width: 16, Height: 16, Pixels: pixels}) == decode.STOP {
			return nil
		}
	}
	return nil
}

type fakePoller struct {
	script  []event.InputFlags
	updates int
	current event.InputFlags
}

func (p *fakePoller) Update() {
	if p.updates < len(p.script) {
		p.current = p.script[p.updates]
	} else {
		p.current = event.NO_EVENT
	}
	p.updates++
}

func (p *fakePoller) Events() event.InputFlags {
	return p.current
}

func TestPlaylistCycles(t *testing.T) {
	all := []string{"/a.jpg", "/b.jpg", "/c.jpg", "/d.jpg", "/e.jpg"}
	for n := 1; n <= len(all); n++ {
		playlist, err := NewPlaylist(all[:n])
		if err != nil {
			t.Fatalf("NewPlaylist failed: %v", err)
		}
		if playlist.Len() != n {
			t.Errorf("Expected length %d, got %d", n, playlist.Len())
		}
		for i := 0; i < 3*n; i++ {
			if got := playlist.Next(); got != all[i%n] {
				t.Fatalf("n=%d: call %d returned %q, want %q", n, i, got, all[i%n])
			}
		}
	}
}

func TestPlaylistIsImmutable(t *testing.T) {
	if _, err := NewPlaylist(nil); err == nil {
		t.Error("Expected empty playlist to be rejected")
	}

	identifiers := []string{"/bios.jpg", "/desktop.jpg"}
	playlist, err := NewPlaylist(identifiers)
	if err != nil {
		t.Fatalf("NewPlaylist failed: %v", err)
	}
	identifiers[0] = "/changed.jpg"
	if got := playlist.Next(); got != "/bios.jpg" {
		t.Errorf("Playlist changed with its source slice: got %q", got)
	}
}

// TestFrameSinkClipping verifies the last visible row continues and the first hidden row stops.
func TestFrameSinkClipping(t *testing.T) {
	surface := &fakeSurface{height: 240}
	sink := NewFrameSink(surface)

	if v := sink.Push(decode.Block{X: 0, Y: 239, Width: 16, Height: 16}); v != decode.CONTINUE {
		t.Errorf("Block at y=239 should continue, got %v", v)
	}
	if v := sink.Push(decode.Block{X: 0, Y: 240, Width: 16, Height: 16}); v != decode.STOP {
		t.Errorf("Block at y=240 should stop, got %v", v)
	}
	if v := sink.Push(decode.Block{X: 300, Y: 500, Width: 16, Height: 16}); v != decode.STOP {
		t.Errorf("Block at y=500 should stop, got %v", v)
	}

	if len(surface.pushes) != 1 || surface.pushes[0] != image.Rect(0, 239, 16, 255) {
		t.Errorf("Expected only the y=239 block on the surface, got %v", surface.pushes)
	}
	if sink.Pushed() != 1 {
		t.Errorf("Expected 1 pushed block, got %d", sink.Pushed())
	}
	sink.Reset()
	if sink.Pushed() != 0 {
		t.Errorf("Expected counter reset, got %d", sink.Pushed())
	}
}

// TestFrameSinkStopsDecode verifies no block below the display reaches the surface.
func TestFrameSinkStopsDecode(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 64))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("jpeg.Encode failed: %v", err)
	}

	decoder, err := decode.NewDecoder(storage.NewMediaFS(fstest.MapFS{"tall.jpg": {Data: buf.Bytes()}}), decode.Config{Scale: 1})
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}

	surface := &fakeSurface{height: 20}
	sink := NewFrameSink(surface)
	if err := decoder.Decode("/tall.jpg", sink); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	want := []image.Rectangle{image.Rect(0, 0, 16, 16), image.Rect(0, 16, 16, 32)}
	if len(surface.pushes) != len(want) {
		t.Fatalf("Expected %d pushes, got %v", len(want), surface.pushes)
	}
	for i := range want {
		if surface.pushes[i] != want[i] {
			t.Errorf("Push %d = %v, want %v", i, surface.pushes[i], want[i])
		}
	}
}

func TestInputGateWaitsForQualifyingEvent(t *testing.T) {
	tests := []struct {
		name        string
		script      []event.InputFlags
		wantUpdates int
	}{
		{"release", []event.InputFlags{event.RELEASE_EVENT}, 1},
		{"move", []event.InputFlags{event.NO_EVENT, event.TOUCH_EVENT, event.MOVE_EVENT}, 3},
		{"release with tap", []event.InputFlags{event.TOUCH_EVENT, event.RELEASE_EVENT | event.TAP_EVENT}, 2},
		{"ignores others", []event.InputFlags{
			event.TOUCH_EVENT, event.TAP_EVENT, event.LONG_PRESS_EVENT, event.TOUCH_EVENT | event.LONG_PRESS_EVENT,
			event.NO_EVENT, event.MOVE_EVENT | event.TOUCH_EVENT,
		}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poller := &fakePoller{script: tt.script}
			gate := NewInputGate(poller, 100*time.Millisecond)
			var sleeps []time.Duration
			gate.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

			gate.WaitForAdvance()

			if poller.updates != tt.wantUpdates {
				t.Errorf("Expected %d updates, got %d", tt.wantUpdates, poller.updates)
			}
			if len(sleeps) != tt.wantUpdates-1 {
				t.Errorf("Expected %d sleeps, got %d", tt.wantUpdates-1, len(sleeps))
			}
			for _, d := range sleeps {
				if d != 100*time.Millisecond {
					t.Errorf("Expected 100ms sleep, got %v", d)
				}
			}
		})
	}
}

// TestInputGateNeverReturnsWithoutQualifyingEvent verifies the gate keeps polling on idle input.
func TestInputGateNeverReturnsWithoutQualifyingEvent(t *testing.T) {
	poller := &fakePoller{}
	gate := NewInputGate(poller, time.Millisecond)

	polls := 0
	done := make(chan bool)
	gate.sleep = func(time.Duration) {
		polls++
		if polls == 1000 {
			// Switch to a qualifying event: the gate must leave on the next update
			poller.script = make([]event.InputFlags, poller.updates+1)
			poller.script[poller.updates] = event.RELEASE_EVENT
		}
	}

	go func() {
		gate.WaitForAdvance()
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for the gate")
	}
	if poller.updates != 1001 {
		t.Errorf("Expected gate to leave on update 1001, got %d", poller.updates)
	}
}

func newTestController(t *testing.T, identifiers []string, decoder ImageDecoder, surface Surface, rec *recorder) (*Controller, *fakeScreen, *fakeGate) {
	t.Helper()
	playlist, err := NewPlaylist(identifiers)
	if err != nil {
		t.Fatalf("NewPlaylist failed: %v", err)
	}
	screen := &fakeScreen{rec: rec}
	gate := &fakeGate{rec: rec}
	controller := NewController(playlist, decoder, NewFrameSink(surface), gate, screen, color.RGBA{255, 0, 0, 255})
	return controller, screen, gate
}

// TestControllerScenario verifies decode order over two rounds of the playlist.
func TestControllerScenario(t *testing.T) {
	identifiers := []string{"/bios.jpg", "/desktop.jpg", "/start.jpg", "/desktop.jpg"}
	rec := &recorder{}
	decoder := &fakeDecoder{rec: rec, rows: 2}
	surface := &fakeSurface{height: 240}
	controller, screen, gate := newTestController(t, identifiers, decoder, surface, rec)

	for i := 0; i < 4; i++ {
		controller.Cycle()
	}
	for i := range identifiers {
		if decoder.identifier[i] != identifiers[i] {
			t.Errorf("Decode %d = %q, want %q", i, decoder.identifier[i], identifiers[i])
		}
	}

	for i := 0; i < 4; i++ {
		controller.Cycle()
	}
	if len(decoder.identifier) != 8 {
		t.Fatalf("Expected 8 decodes, got %d", len(decoder.identifier))
	}
	for i := 0; i < 4; i++ {
		if decoder.identifier[i+4] != decoder.identifier[i] {
			t.Errorf("Second round decode %d = %q, want %q", i, decoder.identifier[i+4], decoder.identifier[i])
		}
	}

	if gate.waits != 8 {
		t.Errorf("Expected 8 waits, got %d", gate.waits)
	}
	if len(screen.texts) != 0 {
		t.Errorf("Expected no error message, got %v", screen.texts)
	}
	if len(surface.pushes) != 16 {
		t.Errorf("Expected 16 pushed blocks, got %d", len(surface.pushes))
	}
	for i := 0; i < 8; i++ {
		cycle := rec.calls[3*i : 3*i+3]
		if cycle[0] != "fill" || cycle[1] != "decode "+identifiers[i%4] || cycle[2] != "wait" {
			t.Errorf("Cycle %d ran %v", i, cycle)
		}
	}
	if screen.fills[0] != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("Expected transition fill color, got %v", screen.fills[0])
	}
}

// TestControllerMissingImage verifies a failing image still waits for the user, like a shown one.
func TestControllerMissingImage(t *testing.T) {
	decoder, err := decode.NewDecoder(storage.NewMediaFS(fstest.MapFS{}), decode.Config{Scale: 1})
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}
	rec := &recorder{}
	surface := &fakeSurface{height: 240}
	controller, screen, gate := newTestController(t, []string{"/missing.jpg"}, decoder, surface, rec)

	controller.Cycle()

	if len(surface.pushes) != 0 {
		t.Errorf("Expected no block for a missing image, got %v", surface.pushes)
	}
	if gate.waits != 1 {
		t.Errorf("Expected 1 wait, got %d", gate.waits)
	}
	if len(screen.texts) != 1 || screen.texts[0] != "Could not open /missing.jpg" {
		t.Errorf("Unexpected error message: %v", screen.texts)
	}
	want := []string{"fill", "text", "wait"}
	if len(rec.calls) != len(want) {
		t.Fatalf("Expected calls %v, got %v", want, rec.calls)
	}
	for i := range want {
		if rec.calls[i] != want[i] {
			t.Errorf("Call %d = %q, want %q", i, rec.calls[i], want[i])
		}
	}

	// The next round retries the same image
	controller.Cycle()
	if gate.waits != 2 || len(screen.texts) != 2 {
		t.Errorf("Expected second failure to wait again, got %d waits and %d messages", gate.waits, len(screen.texts))
	}
}

// TestControllerMixedOutcome verifies failures and successes converge on the wait.
func TestControllerMixedOutcome(t *testing.T) {
	rec := &recorder{}
	decoder := &fakeDecoder{rec: rec, rows: 20, missing: map[string]bool{"/start.jpg": true}}
	surface := &fakeSurface{height: 64}
	controller, screen, gate := newTestController(t, []string{"/bios.jpg", "/start.jpg"}, decoder, surface, rec)

	controller.Cycle()
	controller.Cycle()

	if gate.waits != 2 {
		t.Errorf("Expected 2 waits, got %d", gate.waits)
	}
	// 64 pixels high: rows at y=0,16,32,48 only
	if len(surface.pushes) != 4 {
		t.Errorf("Expected 4 visible blocks, got %d", len(surface.pushes))
	}
	if len(screen.texts) != 1 || screen.texts[0] != "Could not open /start.jpg" {
		t.Errorf("Unexpected error messages: %v", screen.texts)
	}
}
