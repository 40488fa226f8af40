package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analyticshub/banner"
	"analyticshub/config"
	"analyticshub/logger"
)

func init() {
	color.NoColor = true
}

// freePort returns a port that was free a moment ago
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func testConfig(t *testing.T, port int) *config.Config {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "ANALYTICS_HUB.html"), []byte("<html>ok</html>"), 0o644))

	cfg := config.New(root)
	cfg.BindAddress = "127.0.0.1"
	cfg.Port = port
	return cfg
}

func TestRunServesUntilCancelled(t *testing.T) {
	cfg := testConfig(t, freePort(t))
	addr := cfg.Addr()

	var stdout bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, logger.New(io.Discard), &stdout) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		r, err := http.Get("http://" + addr + "/ANALYTICS_HUB.html")
		if err != nil {
			return false
		}
		resp = r
		return true
	}, 2*time.Second, 20*time.Millisecond)

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<html>ok</html>", string(body))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancellation")
	}

	out := stdout.String()
	assert.Contains(t, out, "🚀 Analytics Hub Server Running")
	assert.Contains(t, out, "http://localhost:"+strconv.Itoa(cfg.Port)+"/ANALYTICS_HUB.html")
	assert.Contains(t, out, cfg.RootDir)

	// Banner first, shutdown message last
	assert.Less(t, bytes.Index(stdout.Bytes(), []byte("Press Ctrl+C")), bytes.Index(stdout.Bytes(), []byte("Server stopped by user")))
	assert.True(t, bytes.HasSuffix(stdout.Bytes(), []byte("✋ Server stopped by user\n"+banner.Separator+"\n")))

	_, err = net.DialTimeout("tcp", addr, 200*time.Millisecond)
	assert.Error(t, err, "no new connections after shutdown")
}

func TestRunFailsOnBusyPortWithoutBanner(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	cfg := testConfig(t, taken.Addr().(*net.TCPAddr).Port)

	var stdout bytes.Buffer
	err = run(context.Background(), cfg, logger.New(io.Discard), &stdout)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to bind")
	assert.Empty(t, stdout.String(), "nothing is printed when the port is in use")
}

func TestRunIsSilentBeyondBanner(t *testing.T) {
	cfg := testConfig(t, freePort(t))
	require.NoError(t, os.Remove(cfg.LandingPagePath()))

	var logs, stdout bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, run(ctx, cfg, logger.New(&logs), &stdout))

	assert.Empty(t, logs.String(), "a missing landing page is only reported at debug level")
	assert.Contains(t, stdout.String(), "Server stopped by user")
}
