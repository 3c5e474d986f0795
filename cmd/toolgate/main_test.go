package main

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codex-k8s/toolgate/internal/config"
	"github.com/codex-k8s/toolgate/internal/log"
)

type trackingReader struct {
	reads int
}

func (r *trackingReader) Read([]byte) (int, error) {
	r.reads++
	return 0, io.ErrUnexpectedEOF
}

func TestRunInertWithoutTaskID(t *testing.T) {
	logger := log.NewWriter(io.Discard, "error")

	for _, taskID := range []string{"", "   ", "\t\n"} {
		in := &trackingReader{}
		var out bytes.Buffer

		err := run(context.Background(), config.Config{TaskID: taskID}, "", logger, in, &out)

		require.NoError(t, err)
		assert.Zero(t, in.reads)
		assert.Empty(t, out.String())
	}
}

func TestRunInertIgnoresMalformedStdin(t *testing.T) {
	logger := log.NewWriter(io.Discard, "error")
	var out bytes.Buffer

	err := run(context.Background(), config.Config{}, "", logger, bytes.NewBufferString("not json"), &out)

	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestRunSafeToolEmitsAllow(t *testing.T) {
	logger := log.NewWriter(io.Discard, "error")
	cfg := config.Config{
		TaskID:            "task-1",
		ApprovalServerURL: "http://localhost:3001",
		AuthTokenFile:     "/nonexistent/auth-token",
	}

	in := bytes.NewBufferString(`{"tool_name":"Read","tool_input":{}}`)
	var out bytes.Buffer

	err := run(context.Background(), cfg, "", logger, in, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), `"permissionDecision":"allow"`)
}
