package player

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Nomadcxx/nasflix/internal/log"
)

// mpvEvent is one line received on the mpv JSON IPC connection.
type mpvEvent struct {
	Event     string          `json:"event"`
	ID        int             `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	FileError string          `json:"file_error,omitempty"`
	RequestID int             `json:"request_id,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// ipcClient speaks mpv's line-delimited JSON protocol.
type ipcClient struct {
	path   string
	conn   net.Conn
	events chan mpvEvent
	done   chan struct{}

	writeMu   sync.Mutex
	closeOnce sync.Once
}

func newIPCClient(path string) *ipcClient {
	return &ipcClient{
		path:   path,
		events: make(chan mpvEvent, 100),
		done:   make(chan struct{}),
	}
}

// DefaultIPCPath returns a fresh socket (or named pipe) path for one mpv
// instance.
func DefaultIPCPath() string {
	name := "nasflix-mpv-" + uuid.NewString()[:8]
	if runtime.GOOS == "windows" {
		return `\\.\pipe\` + name
	}
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, name+".sock")
}

// waitForConnection retries dial until mpv has created its socket.
func (c *ipcClient) waitForConnection(ctx context.Context, maxAttempts int, retryDelay time.Duration) error {
	log.Debug("Waiting for mpv IPC", "path", c.path, "max_attempts", maxAttempts)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		conn, err := dialIPC(ctx, c.path)
		if err == nil {
			c.attach(conn)
			log.Debug("Connected to mpv", "attempt", attempt)
			return nil
		}
		lastErr = err
		log.Trace("mpv IPC not ready", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return fmt.Errorf("failed to connect to mpv after %d attempts: %w", maxAttempts, lastErr)
}

func (c *ipcClient) attach(conn net.Conn) {
	c.conn = conn
	go c.readEvents()
}

func (c *ipcClient) readEvents() {
	defer close(c.events)

	scanner := bufio.NewScanner(c.conn)
	for scanner.Scan() {
		line := scanner.Bytes()
		log.Trace("Raw mpv event", "data", string(line))

		var ev mpvEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			log.Warn("Failed to unmarshal mpv event", "error", err)
			continue
		}
		// Command replies carry no event name; only failures are of interest.
		if ev.Event == "" {
			if ev.Error != "" && ev.Error != "success" {
				log.Warn("mpv command failed", "request_id", ev.RequestID, "error", ev.Error)
			}
			continue
		}
		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Debug("mpv IPC read stopped", "error", err)
	}
}

func (c *ipcClient) send(args ...any) error {
	if c.conn == nil {
		return fmt.Errorf("not connected to mpv")
	}
	data, err := json.Marshal(map[string]any{"command": args})
	if err != nil {
		return fmt.Errorf("failed to marshal command: %w", err)
	}
	data = append(data, '\n')

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.conn.Write(data); err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}
	return nil
}

func (c *ipcClient) close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}
