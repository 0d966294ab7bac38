// Package workflow picks the JIRA transition that carries out an approve or
// reject decision.
package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dt-pm-tools/jsm-panel/internal/jira"
)

// Intent is the decision an agent made on a subtask.
type Intent string

const (
	Approve Intent = "approve"
	Reject  Intent = "reject"
)

// ErrNoTransition is returned when no available transition fits the intent.
var ErrNoTransition = errors.New("no matching transition")

// Search tiers per intent, tried in order. Within a tier, the first
// transition whose name or target status contains any keyword wins.
var tiers = map[Intent][][]string{
	Approve: {{"approve"}, {"done", "complete"}},
	// Reject parks the subtask in Pending first; real rejection is the fallback.
	Reject: {{"pending"}, {"reject", "decline"}},
}

var notFoundMessages = map[Intent]string{
	Approve: "no approval or completion transition found",
	Reject:  "no pending or rejection transition found",
}

// Select returns the transition to execute for intent.
func Select(transitions []jira.TransitionInfo, intent Intent) (jira.TransitionInfo, error) {
	search, ok := tiers[intent]
	if !ok {
		return jira.TransitionInfo{}, fmt.Errorf("unknown intent %q", intent)
	}

	for _, keywords := range search {
		for _, t := range transitions {
			if matches(t, keywords) {
				return t, nil
			}
		}
	}

	return jira.TransitionInfo{}, fmt.Errorf("%s: %w", notFoundMessages[intent], ErrNoTransition)
}

func matches(t jira.TransitionInfo, keywords []string) bool {
	name := strings.ToLower(t.Name)
	target := strings.ToLower(t.To.Name)
	for _, kw := range keywords {
		if strings.Contains(name, kw) || strings.Contains(target, kw) {
			return true
		}
	}
	return false
}

// Describe lists transitions for error messages, e.g. "'Close' (-> Done)".
func Describe(transitions []jira.TransitionInfo) string {
	available := make([]string, 0, len(transitions))
	for _, t := range transitions {
		available = append(available, fmt.Sprintf("'%s' (-> %s)", t.Name, t.To.Name))
	}
	return strings.Join(available, ", ")
}
