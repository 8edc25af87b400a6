package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgy583/account-book/internal/daemon"
	"github.com/mgy583/account-book/internal/ledger"
)

// daemonState is written next to the state database while the daemon runs.
type daemonState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	BaseURL   string    `json:"base_url"`
}

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonEventsBuffer int
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Keep the local order snapshot fresh and serve it over HTTP/SSE",
	RunE:  runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	daemonCmd.Flags().StringVar(&flagDaemonAddr, "addr", "127.0.0.1:8787", "HTTP listen address (empty disables the API)")
	daemonCmd.Flags().DurationVar(&flagDaemonInterval, "interval", time.Minute, "Polling interval")
	daemonCmd.Flags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 200, "Max in-memory events retained")

	daemonCmd.AddCommand(daemonStatusCmd, daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

func daemonStatePath() string {
	return filepath.Join(filepath.Dir(flagStatePath), "abookd.json")
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	path := daemonStatePath()
	if st, err := readDaemonState(path); err == nil && processAlive(st.PID) {
		return fmt.Errorf("daemon already running (pid %d)", st.PID)
	}

	s, err := openSession(ledger.LogNotifier{Logger: slog.Default()})
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	state := daemonState{
		PID:       os.Getpid(),
		Addr:      flagDaemonAddr,
		StartedAt: time.Now(),
		BaseURL:   s.baseURL,
	}
	if err := writeDaemonState(path, state); err != nil {
		return err
	}
	defer func() { _ = os.Remove(path) }()

	svc := daemon.New(daemon.Config{
		BaseURL:      s.baseURL,
		Interval:     flagDaemonInterval,
		Addr:         flagDaemonAddr,
		EventsBuffer: flagDaemonEventsBuffer,
	}, s.book, slog.Default())

	if flagDaemonAddr != "" {
		fmt.Printf("  abook daemon listening on http://%s\n", flagDaemonAddr)
	}
	fmt.Printf("  Polling %s every %s\n", s.baseURL, flagDaemonInterval)
	fmt.Println("  Stop with: abook daemon stop")

	return svc.Run(cmd.Context())
}

func runDaemonStatus(cmd *cobra.Command, _ []string) error {
	st, err := readDaemonState(daemonStatePath())
	if err != nil {
		fmt.Println("  Daemon: not running")
		return nil
	}
	if !processAlive(st.PID) {
		fmt.Printf("  Daemon: stale state file (pid %d not alive)\n", st.PID)
		return nil
	}

	fmt.Printf("  Daemon PID: %d\n", st.PID)
	fmt.Printf("  Server: %s\n", st.BaseURL)
	if st.Addr == "" {
		fmt.Println("  API: disabled")
		return nil
	}
	fmt.Printf("  API: http://%s\n", st.Addr)

	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, "http://"+st.Addr+"/v1/status", nil)
	if err != nil {
		return err
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var status daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	if status.LastPollAt.IsZero() {
		fmt.Println("  Last poll: pending")
	} else {
		fmt.Printf("  Last poll: %s\n", status.LastPollAt.Local().Format(time.RFC3339))
	}
	fmt.Printf("  Poll count: %d\n", status.PollCount)
	fmt.Printf("  Orders: %d (%d this month)\n", status.Summary.Orders, status.Summary.MonthOrders)
	if status.LastError != "" {
		fmt.Printf("  Last error: %s\n", status.LastError)
	}
	return nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	path := daemonStatePath()
	st, err := readDaemonState(path)
	if err != nil {
		return errors.New("daemon is not running")
	}

	proc, err := os.FindProcess(st.PID)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(st.PID) {
			_ = os.Remove(path)
			fmt.Printf("  Stopped daemon (pid %d)\n", st.PID)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}
	return fmt.Errorf("daemon (pid %d) did not exit in time", st.PID)
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

func writeDaemonState(path string, st daemonState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func readDaemonState(path string) (daemonState, error) {
	var st daemonState
	//nolint:gosec // path derives from the user's --state flag
	data, err := os.ReadFile(path)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, err
	}
	if st.PID <= 0 {
		return st, fmt.Errorf("invalid pid in %s", path)
	}
	return st, nil
}
