package status

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		status string
		want   Category
	}{
		{"Done", Completed},
		{"Approved", Completed},
		{"Complete", Completed},
		{"COMPLETED", Completed},
		{"In Progress", InProgress},
		{"in progress", InProgress},
		{"Pending", Pending},
		{"Pending customer", Pending},
		{"Reopened", Reopened},
		{"Open", Open},
		{"  open ", Open},
		{"Opened", Unknown},
		{"Waiting for Approval", WaitingForApproval},
		{"Waiting for customer response", WaitingForCustomer},
		{"Waiting for support", WaitingForCustomer},
		{"To Do", Unknown},
		{"", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.status))
		})
	}
}

func TestClassifyPrecedence(t *testing.T) {
	tests := []struct {
		status string
		want   Category
		why    string
	}{
		{"Reopened", Reopened, "reopened is not an exact open match"},
		{"Work In Progress - Reopened", Reopened, "reopened beats progress"},
		{"Completed - was In Progress", Completed, "complete beats progress"},
		{"Done - pending review", Completed, "done beats pending"},
		{"In progress, pending vendor", InProgress, "progress beats pending"},
		{"Pending approval (waiting)", Pending, "pending beats waiting"},
		{"Waiting for approval - approved", Completed, "approved beats waiting"},
		{"Reopened - Done", Completed, "done beats reopened"},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.status), tt.why)
		})
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Completed", Label("Done"))
	assert.Equal(t, "Waiting for Approval", Label("Waiting for approval"))
	assert.Equal(t, "Waiting for Customer", Label("Waiting for customer"))
	assert.Equal(t, "Triage (L2)", Label("Triage (L2)"))
}

func TestCategoryJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Category{"c": WaitingForApproval, "u": Category(99)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"c":"waiting_for_approval","u":"unknown"}`, string(data))
	assert.True(t, WaitingForCustomer.IsWaiting())
	assert.False(t, Pending.IsWaiting())
}
