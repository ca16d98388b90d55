package player

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateEvent(t *testing.T) {
	tests := []struct {
		name string
		in   mpvEvent
		want Event
		ok   bool
	}{
		{"position", mpvEvent{Event: "property-change", Name: "time-pos", Data: json.RawMessage(`12.5`)}, Event{Type: EventPosition, PositionMs: 12500}, true},
		{"position unavailable", mpvEvent{Event: "property-change", Name: "time-pos", Data: json.RawMessage(`null`)}, Event{}, false},
		{"other property", mpvEvent{Event: "property-change", Name: "pause", Data: json.RawMessage(`true`)}, Event{}, false},
		{"eof", mpvEvent{Event: "end-file", Reason: "eof"}, Event{Type: EventEnded}, true},
		{"replaced", mpvEvent{Event: "end-file", Reason: "stop"}, Event{}, false},
		{"unrelated", mpvEvent{Event: "playback-restart"}, Event{}, false},
	}

	for _, tt := range tests {
		got, ok := translateEvent(tt.in)
		if ok != tt.ok || !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: translateEvent() = %+v, %v, want %+v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}

	got, ok := translateEvent(mpvEvent{Event: "end-file", Reason: "error", FileError: "loading failed"})
	require.True(t, ok)
	assert.Equal(t, EventError, got.Type)
	assert.EqualError(t, got.Err, "mpv: loading failed")
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"--fs", []string{"--fs"}},
		{"--fs  --volume=50", []string{"--fs", "--volume=50"}},
		{`--title="My Show" --fs`, []string{"--title=My Show", "--fs"}},
		{`--sub-file='it''s.srt'`, []string{"--sub-file=its.srt"}},
		{`--title="it's"`, []string{"--title=it's"}},
	}
	for _, tt := range tests {
		if got := ParseArgs(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseArgs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatStart(t *testing.T) {
	tests := map[int64]string{0: "none", -5: "none", 1500: "1.500", 93_000: "93.000"}
	for in, want := range tests {
		if got := formatStart(in); got != want {
			t.Errorf("formatStart(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestIPCClientRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	c := newIPCClient("pipe")
	c.attach(client)
	defer c.close()

	go func() {
		_, _ = server.Write([]byte(`{"request_id":0,"error":"success"}` + "\n"))
		_, _ = server.Write([]byte(`{"event":"property-change","id":1,"name":"time-pos","data":3.0}` + "\n"))
	}()

	select {
	case ev := <-c.events:
		assert.Equal(t, "property-change", ev.Event)
		assert.Equal(t, "time-pos", ev.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	sent := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(server).ReadString('\n')
		sent <- line
	}()
	require.NoError(t, c.send("loadfile", "http://nas/1.mp4", "replace"))
	assert.JSONEq(t, `{"command":["loadfile","http://nas/1.mp4","replace"]}`, <-sent)
}

func TestIPCClientNotConnected(t *testing.T) {
	assert.Error(t, newIPCClient("nowhere").send("quit"))
}

func TestWaitForConnectionGivesUp(t *testing.T) {
	c := newIPCClient("/nonexistent/nasflix-test.sock")
	err := c.waitForConnection(context.Background(), 2, time.Millisecond)
	assert.Error(t, err)
}

func TestStopBeforeLoadClosesEvents(t *testing.T) {
	p := NewMPV(MPVConfig{IPCPath: "/nonexistent/nasflix-test.sock"})
	require.NoError(t, p.Stop())
	_, open := <-p.Events()
	assert.False(t, open)
	require.NoError(t, p.Stop())
}
