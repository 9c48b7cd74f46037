package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/vstetris/internal/api"
	"github.com/mcoot/vstetris/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "vstetris-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/vstetris")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) command(ctx context.Context, args ...string) *exec.Cmd {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)
	return exec.CommandContext(ctx, r.binaryPath, fullArgs...)
}

func (r *cliRunner) run(args ...string) (string, error) {
	output, err := r.command(context.Background(), args...).CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	app *factory.App
	url string
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)
	go app.Hub.Run()

	router := api.NewRouter(api.RouterConfig{
		Logger:  logger,
		Storage: app.Storage,
		Hub:     app.Hub,
	})
	server := api.NewServer(router, api.DefaultServerConfig(), logger)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		if err := server.Serve(listener); err != nil {
			t.Logf("server error: %v", err)
		}
	}()
	t.Cleanup(func() {
		_ = server.Shutdown(context.Background())
		app.Hub.Close()
	})

	serverURL := "http://" + listener.Addr().String()
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{app: app, url: serverURL}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type healthResponse struct {
	Status string `json:"status"`
}

type statsResponse struct {
	Connections int   `json:"connections"`
	Waiting     bool  `json:"waiting"`
	Rooms       int   `json:"rooms"`
	Matches     int64 `json:"matches"`
}

type roomListResponse struct {
	Rooms []struct {
		ID string `json:"id"`
	} `json:"rooms"`
}

type simulateResponse struct {
	Strategy string  `json:"strategy"`
	Pieces   int     `json:"pieces"`
	Status   string  `json:"status"`
	Lines    int     `json:"lines"`
	Board    [][]int `json:"board"`
}

type botResponse struct {
	Room   string `json:"room"`
	Result string `json:"result"`
	Pieces int    `json:"pieces"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	cli := newCLIRunner(t, ts.url)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_RoomsAndStats(t *testing.T) {
	ts := startTestServer(t)
	cli := newCLIRunner(t, ts.url)

	output, err := cli.run("rooms", "list")
	require.NoError(t, err, "output: %s", output)
	var rooms roomListResponse
	require.NoError(t, json.Unmarshal([]byte(output), &rooms))
	assert.Empty(t, rooms.Rooms)

	output, err = cli.run("stats")
	require.NoError(t, err, "output: %s", output)
	var stats statsResponse
	require.NoError(t, json.Unmarshal([]byte(output), &stats))
	assert.Equal(t, 0, stats.Connections)
	assert.False(t, stats.Waiting)

	output, err = cli.run("rooms", "get", "nobody#here")
	require.Error(t, err)
	var errResp errorResponse
	require.NoError(t, json.Unmarshal([]byte(output), &errResp))
	assert.Contains(t, errResp.Error.Message, "ROOM_NOT_FOUND")
}

func TestCLI_Simulate(t *testing.T) {
	cli := newCLIRunner(t, "http://127.0.0.1:1")

	output, err := cli.run("simulate", "--strategy", "heuristic", "--pieces", "40", "--board")
	require.NoError(t, err, "output: %s", output)

	var resp simulateResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "heuristic", resp.Strategy)
	assert.Equal(t, 40, resp.Pieces)
	assert.Equal(t, "playing", resp.Status)
	assert.Len(t, resp.Board, 20)

	output, err = cli.run("simulate", "--strategy", "clairvoyant")
	require.Error(t, err)
	assert.Contains(t, output, "unknown bot strategy")
}

func TestCLI_BotsPlayVersusMatch(t *testing.T) {
	ts := startTestServer(t)
	cli := newCLIRunner(t, ts.url)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	args := []string{"bot", "--tick", "2ms", "--think", "4ms", "--wait", "30s"}
	first := cli.command(ctx, append(args, "--strategy", "random")...)
	second := cli.command(ctx, append(args, "--strategy", "heuristic")...)

	firstOut := make(chan []byte, 1)
	go func() {
		out, err := first.Output()
		assert.NoError(t, err)
		firstOut <- out
	}()

	// Pairing is first come first served, so let the first bot park
	require.Eventually(t, func() bool {
		stats, err := ts.app.Hub.Stats(ctx)
		return err == nil && stats.Waiting
	}, 10*time.Second, 20*time.Millisecond)

	out, err := second.Output()
	require.NoError(t, err, "output: %s", string(out))

	var a, b botResponse
	require.NoError(t, json.Unmarshal(<-firstOut, &a))
	require.NoError(t, json.Unmarshal(out, &b))

	assert.Equal(t, a.Room, b.Room)
	assert.ElementsMatch(t, []string{"won", "lost"}, []string{a.Result, b.Result})
	assert.Positive(t, a.Pieces)
	assert.Positive(t, b.Pieces)
}
