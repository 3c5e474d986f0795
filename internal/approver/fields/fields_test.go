package fields

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codex-k8s/toolgate/internal/gate/approver"
	"github.com/codex-k8s/toolgate/internal/policy"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestNewRejectsInvalidRegex(t *testing.T) {
	_, err := New(map[string]policy.FieldPolicy{"command": {Regex: "["}})

	assert.Error(t, err)
}

func TestApproveValidInput(t *testing.T) {
	a, err := New(map[string]policy.FieldPolicy{
		"command": {MaxLength: intPtr(100)},
		"count":   {Max: floatPtr(10)},
	})
	require.NoError(t, err)

	decision, err := a.Approve(context.Background(), approver.Request{
		ToolInput: map[string]any{"command": "ls", "count": float64(3)},
	})
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
}

func TestApproveRegexMismatchDenies(t *testing.T) {
	a, err := New(map[string]policy.FieldPolicy{"branch": {Regex: `^[a-z0-9-]+$`}})
	require.NoError(t, err)

	decision, err := a.Approve(context.Background(), approver.Request{
		ToolInput: map[string]any{"branch": "feature/Bad Name"},
	})
	require.NoError(t, err)

	assert.False(t, decision.Allowed)
	assert.Contains(t, decision.Reason, "branch")
}

func TestApproveStringTooLongDenies(t *testing.T) {
	a, err := New(map[string]policy.FieldPolicy{"command": {MaxLength: intPtr(3)}})
	require.NoError(t, err)

	decision, err := a.Approve(context.Background(), approver.Request{
		ToolInput: map[string]any{"command": "rm -rf"},
	})
	require.NoError(t, err)

	assert.False(t, decision.Allowed)
}

func TestApproveNumberAboveMaxDenies(t *testing.T) {
	a, err := New(map[string]policy.FieldPolicy{"timeout": {Max: floatPtr(60)}})
	require.NoError(t, err)

	decision, err := a.Approve(context.Background(), approver.Request{
		ToolInput: map[string]any{"timeout": float64(600)},
	})
	require.NoError(t, err)

	assert.False(t, decision.Allowed)
}

func TestApproveMultipleViolationsReportDeterministically(t *testing.T) {
	a, err := New(map[string]policy.FieldPolicy{
		"alpha": {MaxLength: intPtr(1)},
		"beta":  {MaxLength: intPtr(1)},
	})
	require.NoError(t, err)

	req := approver.Request{
		ToolInput: map[string]any{"alpha": "xx", "beta": "yy"},
	}

	for i := 0; i < 200; i++ {
		decision, err := a.Approve(context.Background(), req)
		require.NoError(t, err)

		assert.False(t, decision.Allowed)
		assert.Equal(t, "field alpha is longer than 1", decision.Reason)
	}
}

func TestApproveAbsentFieldIsSkipped(t *testing.T) {
	a, err := New(map[string]policy.FieldPolicy{"branch": {Regex: `^[a-z]+$`}})
	require.NoError(t, err)

	decision, err := a.Approve(context.Background(), approver.Request{
		ToolInput: map[string]any{"command": "ls"},
	})
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
}
