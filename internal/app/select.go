package app

import (
	"context"
	"sort"

	"github.com/quilthq/quilt/internal/dialog"
	"github.com/quilthq/quilt/internal/issues"
)

// The selection callbacks back the issue-mutation actions. Each raises a
// picker dialog and reports ok=false when the user cancels.

var statusChoices = []dialog.SelectItem{
	{ID: string(issues.StatusTodo), Label: "Todo"},
	{ID: string(issues.StatusInProgress), Label: "In Progress"},
	{ID: string(issues.StatusInReview), Label: "In Review"},
	{ID: string(issues.StatusDone), Label: "Done"},
	{ID: string(issues.StatusCancelled), Label: "Cancelled"},
}

var priorityChoices = []dialog.SelectItem{
	{ID: string(issues.PriorityUrgent), Label: "Urgent"},
	{ID: string(issues.PriorityHigh), Label: "High"},
	{ID: string(issues.PriorityMedium), Label: "Medium"},
	{ID: string(issues.PriorityLow), Label: "Low"},
	{ID: string(issues.PriorityNone), Label: "No priority"},
}

var relationshipChoices = []dialog.SelectItem{
	{ID: string(issues.RelationBlocks), Label: "Blocks"},
	{ID: string(issues.RelationBlocked), Label: "Blocked by"},
	{ID: string(issues.RelationRelated), Label: "Related to"},
}

func (m *Model) selectStatus(ctx context.Context) (issues.Status, bool, error) {
	res, err := m.modals.Select(ctx, dialog.SelectOptions{Title: "Set status", Items: statusChoices})
	if err != nil || !res.Outcome.Confirmed() {
		return "", false, err
	}
	return issues.Status(res.ID), true, nil
}

func (m *Model) selectPriority(ctx context.Context) (issues.Priority, bool, error) {
	res, err := m.modals.Select(ctx, dialog.SelectOptions{Title: "Set priority", Items: priorityChoices})
	if err != nil || !res.Outcome.Confirmed() {
		return "", false, err
	}
	return issues.Priority(res.ID), true, nil
}

func (m *Model) selectAssignee(ctx context.Context, projectID string) (string, bool, error) {
	seen := map[string]bool{}
	items := []dialog.SelectItem{{ID: "", Label: "Unassigned"}}
	for _, is := range m.projectIssues {
		if is.ProjectID != projectID || is.Assignee == "" || seen[is.Assignee] {
			continue
		}
		seen[is.Assignee] = true
		items = append(items, dialog.SelectItem{ID: is.Assignee, Label: is.Assignee})
	}
	sort.Slice(items[1:], func(i, j int) bool { return items[i+1].Label < items[j+1].Label })

	res, err := m.modals.Select(ctx, dialog.SelectOptions{Title: "Assign to", Items: items})
	if err != nil || !res.Outcome.Confirmed() {
		return "", false, err
	}
	return res.ID, true, nil
}

func (m *Model) selectSubIssue(ctx context.Context, projectID string) (string, bool, error) {
	items := m.issueChoices(projectID)
	res, err := m.modals.Select(ctx, dialog.SelectOptions{Title: "Add as sub-issue of", Items: items})
	if err != nil || !res.Outcome.Confirmed() {
		return "", false, err
	}
	return res.ID, true, nil
}

func (m *Model) selectWorkspaceFor(ctx context.Context) (string, bool, error) {
	items := make([]dialog.SelectItem, 0, len(m.workspaces))
	for _, ws := range m.workspaces {
		if ws.Archived {
			continue
		}
		items = append(items, dialog.SelectItem{ID: ws.ID, Label: ws.Name})
	}
	res, err := m.modals.Select(ctx, dialog.SelectOptions{Title: "Link workspace", Items: items})
	if err != nil || !res.Outcome.Confirmed() {
		return "", false, err
	}
	return res.ID, true, nil
}

func (m *Model) selectRelationship(ctx context.Context, projectID string) (string, issues.Relationship, bool, error) {
	other, err := m.modals.Select(ctx, dialog.SelectOptions{Title: "Relate to issue", Items: m.issueChoices(projectID)})
	if err != nil || !other.Outcome.Confirmed() {
		return "", "", false, err
	}
	rel, err := m.modals.Select(ctx, dialog.SelectOptions{Title: "Relationship", Items: relationshipChoices})
	if err != nil || !rel.Outcome.Confirmed() {
		return "", "", false, err
	}
	return other.ID, issues.Relationship(rel.ID), true, nil
}

func (m *Model) issueChoices(projectID string) []dialog.SelectItem {
	items := make([]dialog.SelectItem, 0, len(m.projectIssues))
	for _, is := range m.projectIssues {
		if projectID != "" && is.ProjectID != projectID {
			continue
		}
		items = append(items, dialog.SelectItem{ID: is.ID, Label: is.Title})
	}
	return items
}
