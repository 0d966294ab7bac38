package board

import (
	"math"
	"strconv"
	"strings"

	"github.com/dt-pm-tools/jsm-panel/internal/aggregate"
	"github.com/dt-pm-tools/jsm-panel/internal/config"
	"github.com/dt-pm-tools/jsm-panel/internal/status"
)

// Bucket is a display column of the board.
type Bucket int

const (
	RequiresInput Bucket = iota
	InProgress
	NotStarted
	Completed
	// Other holds subtasks whose status fits no column.
	Other
)

var bucketTitles = [...]string{
	RequiresInput: "Requires Input",
	InProgress:    "In Progress",
	NotStarted:    "Not Started",
	Completed:     "Completed",
	Other:         "Other",
}

func (b Bucket) String() string {
	if b < RequiresInput || b > Other {
		return "Unknown"
	}
	return bucketTitles[b]
}

// BucketOf places a status category in a column.
func BucketOf(c status.Category) Bucket {
	switch c {
	case status.WaitingForApproval, status.WaitingForCustomer, status.Pending:
		return RequiresInput
	case status.InProgress:
		return InProgress
	case status.Open, status.Reopened:
		return NotStarted
	case status.Completed:
		return Completed
	}
	return Other
}

// Group lists the subtasks of one bucket.
type Group struct {
	Bucket   Bucket
	SubTasks []aggregate.SubTask
}

// Groups splits subtasks into buckets in display order. Empty buckets are
// omitted; every subtask lands in exactly one group.
func Groups(subtasks []aggregate.SubTask) []Group {
	byBucket := make([][]aggregate.SubTask, Other+1)
	for _, st := range subtasks {
		b := BucketOf(st.Category)
		byBucket[b] = append(byBucket[b], st)
	}

	var groups []Group
	for b, list := range byBucket {
		if len(list) > 0 {
			groups = append(groups, Group{Bucket: Bucket(b), SubTasks: list})
		}
	}
	return groups
}

// Progress counts subtasks per bar segment. Segments are taken from the raw
// status name and are independent of the buckets.
type Progress struct {
	Total      int
	Completed  int
	Waiting    int
	InProgress int
	Neutral    int
}

// ComputeProgress counts each subtask into exactly one segment.
func ComputeProgress(subtasks []aggregate.SubTask) Progress {
	p := Progress{Total: len(subtasks)}
	for _, st := range subtasks {
		s := strings.ToLower(st.Status)
		switch {
		case strings.Contains(s, "done"), strings.Contains(s, "complete"), strings.Contains(s, "approved"):
			p.Completed++
		case strings.Contains(s, "waiting"):
			p.Waiting++
		case strings.Contains(s, "progress"), strings.Contains(s, "review"):
			p.InProgress++
		default:
			p.Neutral++
		}
	}
	return p
}

// Percent is the rounded share of completed subtasks, 0 for an empty board.
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return int(math.Round(float64(p.Completed) * 100 / float64(p.Total)))
}

// CanDecide reports whether approve and reject are offered for a subtask.
func CanDecide(st aggregate.SubTask) bool {
	return st.Category == status.WaitingForApproval
}

// Team returns the configured team of the subtask's assignee, falling back
// to the assignee's name.
func Team(panel config.PanelConfig, st aggregate.SubTask) string {
	if team, ok := panel.TeamFor(st.Assignee); ok {
		return team
	}
	if st.Assignee != "" {
		return st.Assignee
	}
	return "Unassigned"
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders a byte count with binary units and at most two
// decimals, e.g. "1.5 KB".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i := 0
	for i < len(sizeUnits)-1 && bytes >= int64(1)<<(10*(i+1)) {
		i++
	}
	v := float64(bytes) / float64(int64(1)<<(10*i))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
