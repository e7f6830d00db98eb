package git

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/quilthq/quilt/internal/logger"
)

// Executor runs external commands. The default implementation shells out;
// tests substitute a recording fake.
type Executor interface {
	Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)
	Run(ctx context.Context, dir, name string, args ...string) error
}

type cliExecutor struct{}

func (cliExecutor) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.Output()
}

func (cliExecutor) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Service inspects and mutates workspace branches via the git and gh CLIs.
type Service struct {
	executor Executor
}

// NewService creates a Service backed by the real CLIs.
func NewService() *Service {
	return &Service{executor: cliExecutor{}}
}

// NewServiceWithExecutor creates a Service with a custom executor (tests).
func NewServiceWithExecutor(e Executor) *Service {
	return &Service{executor: e}
}

// DefaultBranch returns the repository's default branch (main or master).
func (s *Service) DefaultBranch(ctx context.Context, repoPath string) string {
	out, err := s.executor.Output(ctx, repoPath, "git", "symbolic-ref", "refs/remotes/origin/HEAD")
	if err == nil {
		ref := strings.TrimSpace(string(out))
		if idx := strings.LastIndex(ref, "/"); idx >= 0 {
			return ref[idx+1:]
		}
	}
	if s.executor.Run(ctx, repoPath, "git", "rev-parse", "--verify", "main") == nil {
		return "main"
	}
	return "master"
}

// ghPR mirrors the fields requested from `gh pr view --json`.
type ghPR struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
	State  string `json:"state"` // OPEN, CLOSED, MERGED
}

// BranchStatus gathers the full status of branch relative to target in repoPath.
func (s *Service) BranchStatus(ctx context.Context, repoID, repoPath, branch, target string) (BranchStatus, error) {
	log := logger.WithComponent("git")

	if target == "" {
		target = s.DefaultBranch(ctx, repoPath)
	}

	status := BranchStatus{
		RepoID:       repoID,
		Branch:       branch,
		TargetBranch: target,
	}

	// ahead/behind relative to the merge target
	out, err := s.executor.Output(ctx, repoPath, "git", "rev-list", "--left-right", "--count",
		fmt.Sprintf("%s...%s", branch, target))
	if err != nil {
		return status, fmt.Errorf("rev-list %s...%s failed: %w", branch, target, err)
	}
	status.CommitsAhead, status.CommitsBehind, err = parseAheadBehind(string(out))
	if err != nil {
		return status, err
	}

	// unpushed commits relative to the remote tracking branch; a missing
	// remote branch means everything is unpushed
	out, err = s.executor.Output(ctx, repoPath, "git", "rev-list", "--count",
		fmt.Sprintf("origin/%s..%s", branch, branch))
	if err != nil {
		status.RemoteCommitsAhead = status.CommitsAhead
	} else {
		status.RemoteCommitsAhead, _ = strconv.Atoi(strings.TrimSpace(string(out)))
	}

	// conflict probe: a merge-tree dry run against the target
	out, err = s.executor.Output(ctx, repoPath, "git", "merge-tree", "--write-tree", "--name-only", target, branch)
	if err != nil {
		// merge-tree exits non-zero when the merge would conflict
		status.HasConflicts = true
	} else {
		status.HasConflicts = strings.Contains(string(out), "CONFLICT")
	}

	out, err = s.executor.Output(ctx, repoPath, "git", "status", "--porcelain")
	if err == nil {
		status.HasUncommitted = strings.TrimSpace(string(out)) != ""
	}

	// PR lookup via gh; absence of a PR is not an error
	out, err = s.executor.Output(ctx, repoPath, "gh", "pr", "view", branch, "--json", "number,url,state")
	if err == nil {
		var pr ghPR
		if jsonErr := json.Unmarshal(out, &pr); jsonErr == nil && pr.Number > 0 {
			status.Merges = append(status.Merges, MergeRecord{
				Type: MergeTypePR,
				PR: &PRInfo{
					Number: pr.Number,
					URL:    pr.URL,
					Status: prStatusFromState(pr.State),
				},
			})
		}
	}

	log.Debug("branch status",
		"repo", repoID,
		"branch", branch,
		"ahead", status.CommitsAhead,
		"behind", status.CommitsBehind,
		"unpushed", status.RemoteCommitsAhead,
		"conflicts", status.HasConflicts,
	)
	return status, nil
}

// parseAheadBehind parses `git rev-list --left-right --count A...B` output
// of the form "ahead\tbehind".
func parseAheadBehind(out string) (ahead, behind int, err error) {
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q", out)
	}
	ahead, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q", out)
	}
	behind, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q", out)
	}
	return ahead, behind, nil
}

func prStatusFromState(state string) PRStatus {
	switch strings.ToUpper(state) {
	case "OPEN":
		return PRStatusOpen
	case "MERGED":
		return PRStatusMerged
	default:
		return PRStatusClosed
	}
}

// Merge merges branch into target inside repoPath.
func (s *Service) Merge(ctx context.Context, repoPath, branch, target string) error {
	log := logger.WithComponent("git")
	log.Info("merging", "branch", branch, "target", target, "repo", repoPath)

	if err := s.executor.Run(ctx, repoPath, "git", "checkout", target); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", target, err)
	}
	if err := s.executor.Run(ctx, repoPath, "git", "merge", branch, "--no-edit"); err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}
	return nil
}

// Rebase rebases branch onto target inside repoPath.
func (s *Service) Rebase(ctx context.Context, repoPath, branch, target string) error {
	log := logger.WithComponent("git")
	log.Info("rebasing", "branch", branch, "target", target, "repo", repoPath)

	if err := s.executor.Run(ctx, repoPath, "git", "checkout", branch); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", branch, err)
	}
	if err := s.executor.Run(ctx, repoPath, "git", "rebase", target); err != nil {
		return fmt.Errorf("rebase failed: %w", err)
	}
	return nil
}

// Push pushes branch to origin. When force is false and the remote has
// diverged, the returned error wraps KindConflict so callers can prompt.
func (s *Service) Push(ctx context.Context, repoPath, branch string, force bool) error {
	args := []string{"push", "-u", "origin", branch}
	if force {
		args = []string{"push", "--force-with-lease", "origin", branch}
	}
	if err := s.executor.Run(ctx, repoPath, "git", args...); err != nil {
		if !force && strings.Contains(err.Error(), "rejected") {
			return fmt.Errorf("force push required for %s: %w", branch, err)
		}
		return fmt.Errorf("push failed: %w", err)
	}
	return nil
}

// DeleteBranch removes the local branch and, when remote is true, the
// remote counterpart as well.
func (s *Service) DeleteBranch(ctx context.Context, repoPath, branch string, remote bool) error {
	if err := s.executor.Run(ctx, repoPath, "git", "branch", "-D", branch); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branch, err)
	}
	if remote {
		// Missing remote branch is fine
		_ = s.executor.Run(ctx, repoPath, "git", "push", "origin", "--delete", branch)
	}
	return nil
}

// CreatePR pushes the branch and opens a pull request with the gh CLI.
func (s *Service) CreatePR(ctx context.Context, repoPath, branch, target, title, body string) (string, error) {
	if _, err := exec.LookPath("gh"); err != nil {
		return "", fmt.Errorf("gh CLI not found - install from https://cli.github.com")
	}
	if err := s.Push(ctx, repoPath, branch, false); err != nil {
		return "", err
	}
	out, err := s.executor.Output(ctx, repoPath, "gh", "pr", "create",
		"--base", target, "--head", branch, "--title", title, "--body", body)
	if err != nil {
		return "", fmt.Errorf("failed to create PR: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Diff returns the unified diff of the working tree against HEAD.
func (s *Service) Diff(ctx context.Context, repoPath string) (string, error) {
	out, err := s.executor.Output(ctx, repoPath, "git", "diff", "--no-ext-diff", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get diff: %w", err)
	}
	return string(out), nil
}

// Branches lists local branch names.
func (s *Service) Branches(ctx context.Context, repoPath string) ([]string, error) {
	out, err := s.executor.Output(ctx, repoPath, "git", "branch", "--format", "%(refname:short)")
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	var branches []string
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			branches = append(branches, line)
		}
	}
	return branches, nil
}

// ChangedFiles lists paths with uncommitted changes.
func (s *Service) ChangedFiles(ctx context.Context, repoPath string) ([]string, error) {
	out, err := s.executor.Output(ctx, repoPath, "git", "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	var files []string
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if len(line) > 3 {
			files = append(files, strings.TrimSpace(line[3:]))
		}
	}
	return files, nil
}
