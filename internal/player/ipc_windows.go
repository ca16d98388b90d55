//go:build windows

package player

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"syscall"
	"time"

	"gopkg.in/natefinch/npipe.v2"
)

func setupPlayerProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}

func dialIPC(ctx context.Context, path string) (net.Conn, error) {
	timeout := 2 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	conn, err := npipe.DialTimeout(path, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mpv pipe: %w", err)
	}
	return conn, nil
}
