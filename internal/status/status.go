// Package status classifies free-text workflow status names.
package status

import "strings"

// Category is the coarse state of a workflow status.
type Category int

const (
	Unknown Category = iota
	Completed
	InProgress
	Pending
	Reopened
	Open
	WaitingForApproval
	WaitingForCustomer
)

var categoryNames = map[Category]string{
	Unknown:            "unknown",
	Completed:          "completed",
	InProgress:         "in_progress",
	Pending:            "pending",
	Reopened:           "reopened",
	Open:               "open",
	WaitingForApproval: "waiting_for_approval",
	WaitingForCustomer: "waiting_for_customer",
}

var categoryLabels = map[Category]string{
	Completed:          "Completed",
	InProgress:         "In Progress",
	Pending:            "Pending",
	Reopened:           "Reopened",
	Open:               "Open",
	WaitingForApproval: "Waiting for Approval",
	WaitingForCustomer: "Waiting for Customer",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return categoryNames[Unknown]
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// IsWaiting reports whether the category is one of the waiting subtypes.
func (c Category) IsWaiting() bool {
	return c == WaitingForApproval || c == WaitingForCustomer
}

// Classify maps a status name to a Category. Checks run in a fixed order and
// the first match wins; status names often contain several of the keywords.
func Classify(name string) Category {
	s := strings.ToLower(name)
	switch {
	case strings.Contains(s, "done"), strings.Contains(s, "complete"), strings.Contains(s, "approved"):
		return Completed
	// "Reopened" must win over "progress" in names like "Work In Progress - Reopened".
	case strings.Contains(s, "reopened"):
		return Reopened
	case strings.Contains(s, "progress"):
		return InProgress
	case strings.Contains(s, "pending"):
		return Pending
	case strings.TrimSpace(s) == "open":
		return Open
	case strings.Contains(s, "waiting"):
		if strings.Contains(s, "approval") {
			return WaitingForApproval
		}
		return WaitingForCustomer
	}
	return Unknown
}

// Label returns the badge text for a status. Unknown statuses show the raw name.
func Label(name string) string {
	if label, ok := categoryLabels[Classify(name)]; ok {
		return label
	}
	return name
}
