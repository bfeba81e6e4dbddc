package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/runtime-zero/internal/core"
	"github.com/vovakirdan/runtime-zero/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with the stage select.
Runs are stored per-server (all users share the same run log).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.runtimezero/host_key

Examples:
  runtimezero serve                           # Listen on :23234 with auto-generated key
  runtimezero serve --ssh :2222               # Listen on port 2222
  runtimezero serve --host-key ./my_host_key  # Use specific host key
  runtimezero serve --db ./runs.db            # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().BoolVar(&flagFixedStep, "fixed", false, "Advance the simulation in fixed steps")
}

func runServe(_ *cobra.Command, _ []string) {
	rt := core.DefaultConfig()
	rt.TickRate = flagFPS
	rt.FixedStep = flagFixedStep

	app, cleanup := newApp(false, rt)
	defer cleanup()

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
	}

	server, err := tui.NewSSHServer(cfg, app)
	if err != nil {
		cleanup()
		fail("creating server: %v", err)
	}

	fmt.Printf("Starting Runtime Zero SSH server on %s\n", server.Addr())
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		cleanup()
		fail("server: %v", err)
	}
}
