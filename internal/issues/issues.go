// Package issues defines the remote project-board issue model and the
// mutation contracts exercised by issue-scoped actions.
package issues

import "time"

// Status is an issue's board column.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "inprogress"
	StatusInReview   Status = "inreview"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
)

// Priority orders issues within a column.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityNone   Priority = "none"
)

// Issue is one card on a remote project board.
type Issue struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"project_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Status        Status    `json:"status"`
	Priority      Priority  `json:"priority"`
	Assignee      string    `json:"assignee,omitempty"`
	ParentIssueID string    `json:"parent_issue_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// HasParent reports whether the issue is a sub-issue.
func (i Issue) HasParent() bool {
	return i.ParentIssueID != ""
}

// Find returns the issue with the given id, or nil.
func Find(list []Issue, id string) *Issue {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}

// Relationship names how two issues are linked.
type Relationship string

const (
	RelationParent  Relationship = "parent"
	RelationSub     Relationship = "sub"
	RelationBlocks  Relationship = "blocks"
	RelationBlocked Relationship = "blocked_by"
	RelationRelated Relationship = "related"
)
