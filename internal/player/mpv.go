package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/Nomadcxx/nasflix/internal/log"
)

const timePosObserverID = 1

// MPVConfig configures the mpv adapter.
type MPVConfig struct {
	// Path is the mpv binary; "mpv" when empty.
	Path string
	// Args are extra command line arguments, split with ParseArgs.
	Args string
	// IPCPath is the IPC socket or pipe; DefaultIPCPath when empty.
	IPCPath string
}

// MPV drives one idle mpv process over its JSON IPC. The process is
// started by the first Load and reused for every following file.
type MPV struct {
	config MPVConfig
	ipc    *ipcClient
	cmd    *exec.Cmd
	events chan Event

	startOnce  sync.Once
	startErr   error
	forwarding bool
	stopOnce   sync.Once
	stopped    chan struct{}
}

// NewMPV returns an mpv adapter. Nothing is started until Load.
func NewMPV(config MPVConfig) *MPV {
	if config.Path == "" {
		config.Path = "mpv"
	}
	if config.IPCPath == "" {
		config.IPCPath = DefaultIPCPath()
	}
	return &MPV{
		config:  config,
		ipc:     newIPCClient(config.IPCPath),
		events:  make(chan Event, 16),
		stopped: make(chan struct{}),
	}
}

// Events implements Player.
func (p *MPV) Events() <-chan Event {
	return p.events
}

// Load implements Player.
func (p *MPV) Load(ctx context.Context, url string, startMs int64) error {
	p.startOnce.Do(func() { p.startErr = p.start(ctx) })
	if p.startErr != nil {
		return p.startErr
	}

	log.Info("Loading file in mpv", "url", url, "start_ms", startMs)
	// The start option applies to the next loadfile.
	if err := p.ipc.send("set_property", "start", formatStart(startMs)); err != nil {
		return err
	}
	return p.ipc.send("loadfile", url, "replace")
}

// Play implements Player.
func (p *MPV) Play() error {
	return p.ipc.send("set_property", "pause", false)
}

// Pause implements Player.
func (p *MPV) Pause() error {
	return p.ipc.send("set_property", "pause", true)
}

// Stop implements Player. It quits mpv and closes the event channel.
func (p *MPV) Stop() error {
	var err error
	p.stopOnce.Do(func() {
		close(p.stopped)
		if !p.forwarding {
			close(p.events)
		}
		if p.ipc.conn != nil {
			_ = p.ipc.send("quit")
			err = p.ipc.close()
		}
		if p.cmd != nil && p.cmd.Process != nil {
			// Give mpv a moment to honour quit before killing it.
			done := make(chan struct{})
			go func() {
				_ = p.cmd.Wait()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				log.Warn("mpv did not quit, killing it")
				_ = p.cmd.Process.Kill()
			}
		}
		if runtime.GOOS != "windows" {
			_ = os.Remove(p.config.IPCPath)
		}
	})
	return err
}

func (p *MPV) start(ctx context.Context) error {
	args := []string{
		"--idle=yes",
		"--force-window=yes",
		"--no-terminal",
		"--input-ipc-server=" + p.config.IPCPath,
	}
	args = append(args, ParseArgs(p.config.Args)...)

	cmd := exec.Command(p.config.Path, args...)
	setupPlayerProcess(cmd)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start mpv: %w", err)
	}
	p.cmd = cmd
	log.Info("Started mpv", "pid", cmd.Process.Pid, "ipc", p.config.IPCPath)

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := p.ipc.waitForConnection(connCtx, 20, 250*time.Millisecond); err != nil {
		_ = cmd.Process.Kill()
		return err
	}
	if err := p.ipc.send("observe_property", timePosObserverID, "time-pos"); err != nil {
		return err
	}

	p.forwarding = true
	go p.forward()
	return nil
}

// forward translates mpv events into player events until the IPC
// connection closes.
func (p *MPV) forward() {
	defer close(p.events)
	for ev := range p.ipc.events {
		out, ok := translateEvent(ev)
		if !ok {
			continue
		}
		select {
		case p.events <- out:
		case <-p.stopped:
			return
		}
	}

	select {
	case <-p.stopped:
	case p.events <- Event{Type: EventError, Err: errors.New("mpv exited")}:
	}
}

// translateEvent maps one mpv event to a player event. Files replaced by
// loadfile end with reason "stop" and are not reported.
func translateEvent(ev mpvEvent) (Event, bool) {
	switch ev.Event {
	case "property-change":
		if ev.Name != "time-pos" || len(ev.Data) == 0 || string(ev.Data) == "null" {
			return Event{}, false
		}
		var seconds float64
		if err := json.Unmarshal(ev.Data, &seconds); err != nil {
			return Event{}, false
		}
		return Event{Type: EventPosition, PositionMs: int64(seconds * 1000)}, true
	case "end-file":
		switch ev.Reason {
		case "eof":
			return Event{Type: EventEnded}, true
		case "error":
			msg := ev.FileError
			if msg == "" {
				msg = "unknown error"
			}
			return Event{Type: EventError, Err: fmt.Errorf("mpv: %s", msg)}, true
		}
	}
	return Event{}, false
}

func formatStart(startMs int64) string {
	if startMs <= 0 {
		return "none"
	}
	return strconv.FormatFloat(float64(startMs)/1000, 'f', 3, 64)
}

// ParseArgs splits a command line string on spaces, keeping quoted
// sections together.
func ParseArgs(argsString string) []string {
	var args []string
	var quote rune
	current := []rune{}

	for _, r := range argsString {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '"' || r == '\''):
			quote = r
		case quote == 0 && r == ' ':
			if len(current) > 0 {
				args = append(args, string(current))
				current = current[:0]
			}
		default:
			current = append(current, r)
		}
	}
	if len(current) > 0 {
		args = append(args, string(current))
	}
	return args
}
