package server

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/whybudget/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.StorageBackend = "memory"
	c.NotifierBackend = "log"
	c.EndpointAddrHTTP = freeAddr(t)
	c.EndpointAddrGRPC = freeAddr(t)
	return c
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := logOutput
	logOutput = &buf
	t.Cleanup(func() { logOutput = orig })
	return &buf
}

func TestNewApp_InvalidSettings(t *testing.T) {
	captureLogs(t)
	ctx := context.Background()

	c := memoryConfig(t)
	c.StorageBackend = "mongo"
	_, err := NewApp(ctx, c)
	assert.ErrorContains(t, err, "storage init error")

	c = memoryConfig(t)
	c.NotifierBackend = "pigeon"
	_, err = NewApp(ctx, c)
	assert.ErrorContains(t, err, "notifier init error")

	c = memoryConfig(t)
	c.LogBackend = "printf"
	_, err = NewApp(ctx, c)
	assert.Error(t, err)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	logs := captureLogs(t)

	app, err := NewApp(context.Background(), memoryConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
	assert.Contains(t, logs.String(), "App stopped")
}

func TestRun_ServerFailureStopsApp(t *testing.T) {
	captureLogs(t)

	c := memoryConfig(t)
	c.EndpointAddrGRPC = "127.0.0.1:99999"
	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after server failure")
	}
}
