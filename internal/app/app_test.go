package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chrissnell/sensorlog/pkg/config"
	"go.uber.org/zap"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find a free port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestNewServiceRejectsBadTimezone(t *testing.T) {
	cfg := &config.ConfigData{Sensor: config.SensorData{Timezone: "Nowhere/Special"}}
	if _, err := NewService(cfg, zap.NewNop().Sugar()); err == nil {
		t.Error("expected an error for an unknown timezone")
	}
}

func TestRunServesAndShutsDown(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(logFile, []byte("2024-05-01 14:30 21.5 45 60 12 false\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.ConfigData{
		Sensor: config.SensorData{LogFile: logFile},
		REST:   config.RESTServerData{ListenAddr: "127.0.0.1", Port: freePort(t)},
	}
	cfg.ApplyDefaults()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(cfg, zap.NewNop().Sugar()).Run(ctx)
	}()

	url := fmt.Sprintf("http://127.0.0.1:%d/last-reading", cfg.REST.Port)
	var resp *http.Response
	var err error
	for i := 0; i < 50; i++ {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("server never came up: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
