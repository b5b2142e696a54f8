package mcp

import (
	"context"
	"os"
	"time"

	"prospector/internal/logging"
)

// WatchParent polls for parent process death and cancels the server when the
// parent PID changes (the MCP host disconnected or restarted). This keeps
// orphaned stdio servers from accumulating.
//
// It must never read from stdin: the SDK's StdioTransport owns stdin, and
// stealing bytes here would corrupt the JSON-RPC stream.
func WatchParent(ctx context.Context, cancel context.CancelFunc) {
	ppid := os.Getppid()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(2 * time.Second):
				if os.Getppid() != ppid {
					logging.New("mcp").Warn("parent process died, shutting down", "was_pid", ppid)
					cancel()
					return
				}
			}
		}
	}()
}
