package hook

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadParsesRequest(t *testing.T) {
	req, err := Read(strings.NewReader(`{"tool_name":"Bash","tool_input":{"command":"ls","timeout":5}}`))
	require.NoError(t, err)

	assert.Equal(t, "Bash", req.ToolName)
	assert.Equal(t, "ls", req.ToolInput["command"])
}

func TestReadToleratesMissingInput(t *testing.T) {
	req, err := Read(strings.NewReader(`{"tool_name":"Write"}`))
	require.NoError(t, err)

	assert.Equal(t, "Write", req.ToolName)
	assert.Nil(t, req.ToolInput)
}

func TestReadMalformedJSON(t *testing.T) {
	_, err := Read(strings.NewReader(`{"tool_name": "Bash"`))

	assert.Error(t, err)
}

func TestReadEmptyInput(t *testing.T) {
	_, err := Read(strings.NewReader(""))

	assert.Error(t, err)
}

func TestWriteEmitsDecisionObject(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, DecisionDeny, "not now"))

	assert.JSONEq(t, `{
		"hookSpecificOutput": {
			"hookEventName": "PreToolUse",
			"permissionDecision": "deny",
			"permissionDecisionReason": "not now"
		}
	}`, buf.String())
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestWriteAllow(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, DecisionAllow, ""))

	assert.Contains(t, buf.String(), `"permissionDecision":"allow"`)
}
