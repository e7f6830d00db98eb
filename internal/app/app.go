// Package app wires the stores, the action system, the process managers,
// and the ui components into the Bubble Tea program.
package app

import (
	"context"
	"os/exec"
	"runtime"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/quilthq/quilt/internal/action"
	"github.com/quilthq/quilt/internal/attempt"
	"github.com/quilthq/quilt/internal/cache"
	"github.com/quilthq/quilt/internal/clipboard"
	"github.com/quilthq/quilt/internal/config"
	"github.com/quilthq/quilt/internal/devserver"
	"github.com/quilthq/quilt/internal/dialog"
	"github.com/quilthq/quilt/internal/git"
	"github.com/quilthq/quilt/internal/issues"
	"github.com/quilthq/quilt/internal/keys"
	"github.com/quilthq/quilt/internal/logger"
	"github.com/quilthq/quilt/internal/notification"
	"github.com/quilthq/quilt/internal/store"
	"github.com/quilthq/quilt/internal/ui"
	"github.com/quilthq/quilt/internal/workspace"
)

// Deps are the remote capabilities injected by the caller. Nil fields
// degrade to empty data and no-op actions.
type Deps struct {
	Workspaces  workspace.API
	RemoteLinks workspace.RemoteLinks
	Issues      issues.API
	Projects    issues.ProjectMutations

	// ListWorkspaces feeds the sidebar; the API interface is per-id only.
	ListWorkspaces func(ctx context.Context) ([]workspace.Workspace, error)

	SignIn func(ctx context.Context) error
}

// editorChoices is the fallback list offered when the default editor fails.
var editorChoices = []dialog.SelectItem{
	{ID: "code", Label: "VS Code"},
	{ID: "zed", Label: "Zed"},
	{ID: "vim", Label: "Vim"},
}

type wakeMsg struct{}

type actionDoneMsg struct {
	id  action.ID
	err error
}

type invokeMsg struct {
	def *action.Definition
}

type dataLoadedMsg struct {
	workspaces []workspace.Workspace
	remotes    []workspace.Remote
	err        error
}

type issuesLoadedMsg struct {
	issues []issues.Issue
	err    error
}

type statusesLoadedMsg struct {
	workspaceID string
	statuses    []git.BranchStatus
	err         error
}

type diffLoadedMsg struct {
	workspaceID string
	diff        string
	err         error
}

// Model is the root Bubble Tea model.
type Model struct {
	cfg     *config.Config
	version string
	deps    Deps
	// session correlates this process's log lines.
	session string

	navigator *store.NavigatorStore
	panels    *store.PanelVisibilityStore
	compact   *store.CompactLayoutStore
	diffView  *store.DiffViewStore
	prefs     *store.PreferencesStore
	data      *cache.Client

	registry   *action.Registry
	dispatcher *action.Dispatcher

	gitSvc     *git.Service
	gitCtl     *gitControl
	devMgr     *devserver.Manager
	devCtl     *devControl
	attempts   *attempt.Runner
	attemptCtl *attemptControl

	workspaces    []workspace.Workspace
	remotes       []workspace.Remote
	statuses      map[string][]git.BranchStatus
	projectIssues []issues.Issue
	signedIn      bool

	styles     ui.Styles
	navbar     *ui.Navbar
	sidebar    *ui.Sidebar
	changes    *ui.ChangesPanel
	logs       *ui.LogsPanel
	preview    *ui.PreviewPanel
	commandBar *ui.CommandBar
	kanban     *ui.KanbanBoard
	footer     *ui.Footer
	modals     *ui.Modals

	program *tea.Program
	width   int
	height  int
}

// New builds the app model from loaded config and injected capabilities.
func New(cfg *config.Config, version string, deps Deps) *Model {
	styles := ui.NewStyles(ui.ThemeByName(cfg.GetTheme()))

	m := &Model{
		cfg:     cfg,
		version: version,
		deps:    deps,
		session: uuid.NewString(),

		navigator: store.NewNavigatorStore(),
		panels:    store.NewPanelVisibilityStore(),
		compact:   store.NewCompactLayoutStore(),
		diffView:  store.NewDiffViewStore(),
		prefs:     store.NewPreferencesStore(),
		data:      cache.NewClient(),

		registry:   action.NewRegistry(),
		dispatcher: action.NewDispatcher(),

		gitSvc:   git.NewService(),
		devMgr:   devserver.NewManager(),
		attempts: attempt.NewRunner(cfg.AgentCommand),

		statuses: map[string][]git.BranchStatus{},
		signedIn: deps.SignIn == nil,

		styles:  styles,
		navbar:  ui.NewNavbar(styles),
		preview: ui.NewPreviewPanel(styles),
		kanban:  ui.NewKanbanBoard(styles),
		footer:  ui.NewFooter(styles),
	}
	m.sidebar = ui.NewSidebar(styles, m.prefs)
	m.changes = ui.NewChangesPanel(styles, m.diffView, m.prefs)
	m.logs = ui.NewLogsPanel(styles, m.wake)
	m.commandBar = ui.NewCommandBar(styles)
	m.modals = ui.NewModals(styles, m.wake)
	m.footer.SetHelp("↑↓ select · enter open · ctrl+k actions · esc back")

	m.gitCtl = newGitControl(m.gitSvc, m.findWorkspace)
	m.devCtl = newDevControl(m.devMgr, m.findWorkspace)
	m.attemptCtl = newAttemptControl(m.attempts, m.findWorkspace)

	m.restorePreferences()
	m.devMgr.SetOnChange(m.wake)
	m.devMgr.SetOnExit(func(workspaceID string) {
		name := workspaceID
		if ws, found := m.findWorkspace(workspaceID); found {
			name = ws.Name
		}
		notification.DevServerExited(name)
		m.wake()
	})
	m.attempts.SetOnChange(m.wake)
	m.attempts.SetOnDone(func(workspaceID string, ok bool) {
		if ws, found := m.findWorkspace(workspaceID); found {
			notification.AttemptFinished(ws.Name, ok)
		}
		m.data.Invalidate(cache.BranchStatusKey(workspaceID))
		m.wake()
	})

	logger.WithComponent("app").Info("app created", "version", version, "session", m.session)
	return m
}

// SetProgram hands the model its program so background goroutines can wake
// the render loop. Call before Run.
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
}

// Close stops every child process. Deferred by the caller around Run.
func (m *Model) Close() {
	m.devMgr.StopAll()
	m.attempts.StopAll()
	m.logs.Close()
	m.persistPreferences()
}

func (m *Model) wake() {
	if m.program != nil {
		m.program.Send(wakeMsg{})
	}
}

// restorePreferences seeds the view stores from the config file.
func (m *Model) restorePreferences() {
	expansion, paneSizes, sectionOpen := m.cfg.Snapshot()
	sortPref := store.SortByActivity
	switch m.cfg.WorkspaceSort {
	case "name":
		sortPref = store.SortByName
	case "created":
		sortPref = store.SortByCreated
	}
	m.prefs.Restore(expansion, sortPref, m.cfg.ShowArchived, paneSizes, sectionOpen)
}

// persistPreferences writes the view stores back to the config file.
func (m *Model) persistPreferences() {
	m.cfg.Update(func(c *config.Config) {
		c.WorkspaceSort = m.prefs.Sort().String()
		c.ShowArchived = m.prefs.ShowArchived()
		c.DiffExpansion = m.prefs.ExpansionSnapshot()
		c.PaneSizes = m.prefs.PaneSizesSnapshot()
	})
	if err := m.cfg.Save(); err != nil {
		logger.WithComponent("app").Warn("config save failed", "error", err)
	}
}

func (m *Model) findWorkspace(id string) (workspace.Workspace, bool) {
	for _, w := range m.workspaces {
		if w.ID == id {
			return w, true
		}
	}
	return workspace.Workspace{}, false
}

// currentWorkspaceID extracts the routed workspace from the path.
func (m *Model) currentWorkspaceID() string {
	path := m.navigator.Route().Path
	if rest, ok := strings.CutPrefix(path, "/workspaces/"); ok {
		return rest
	}
	return ""
}

func (m *Model) currentWorkspace() *workspace.Workspace {
	id := m.currentWorkspaceID()
	if id == "" {
		return nil
	}
	if ws, ok := m.findWorkspace(id); ok {
		return &ws
	}
	return nil
}

// activeWorkspaces is the sidebar's visible order as Active entries.
func (m *Model) activeWorkspaces() []workspace.Active {
	visible := m.sidebar.Visible(m.workspaces)
	out := make([]workspace.Active, 0, len(visible))
	for _, w := range visible {
		out = append(out, workspace.Active{
			ID:        w.ID,
			IsRunning: m.attempts.IsRunning(w.ID) || len(m.devMgr.RunningFor(w.ID)) > 0,
		})
	}
	return out
}

// buildContext assembles the immutable visibility snapshot.
func (m *Model) buildContext() action.Context {
	ws := m.currentWorkspace()
	wsID := m.currentWorkspaceID()
	starting, stopping := m.devMgr.InFlight(wsID)
	route := m.navigator.Route()

	var selected []string
	if route.LayoutMode() == store.LayoutKanban {
		selected = m.kanban.SelectedIDs()
	}

	return action.Build(action.Sources{
		Navigator: m.navigator,
		Panels:    m.panels,
		DiffView:  m.diffView,
		Prefs:     m.prefs,
		Compact:   m.compact,

		Workspace:      ws,
		BranchStatuses: m.statuses[wsID],

		DevStartInFlight:  starting,
		DevStopInFlight:   stopping,
		RunningDevServers: m.devMgr.RunningFor(wsID),

		AttemptRunning: m.attempts.IsRunning(wsID),
		LogsContent:    m.logs.Content(),

		SelectedIssueIDs: selected,
		ProjectIssues:    m.projectIssues,
		IsCreatingIssue:  route.CreateMode && route.LayoutMode() == store.LayoutKanban,

		SignedIn: m.signedIn,
	})
}

// execContext assembles the capability bundle for one dispatch.
func (m *Model) execContext() *action.ExecContext {
	route := m.navigator.Route()
	return &action.ExecContext{
		Navigator: m.navigator,
		Panels:    m.panels,
		Compact:   m.compact,
		DiffView:  m.diffView,
		Prefs:     m.prefs,
		Cache:     m.data,

		SelectWorkspace: func(id string) {
			m.navigator.NavigateToWorkspace(id)
		},
		ActiveWorkspaces:   m.activeWorkspaces(),
		CurrentWorkspaceID: m.currentWorkspaceID(),
		Container:          m.cfg.Container,

		Workspaces:  m.deps.Workspaces,
		RemoteLinks: m.deps.RemoteLinks,
		Remotes:     m.remotes,

		Git:        m.gitCtl,
		DevServers: m.devCtl,
		Attempts:   m.attemptCtl,

		Issues:          m.deps.Issues,
		Projects:        m.deps.Projects,
		KanbanOrgID:     m.cfg.KanbanOrgID,
		KanbanProjectID: route.ProjectID,

		Dialogs:     m.modals,
		LogsContent: m.logs.Content(),

		SelectStatus:       m.selectStatus,
		SelectPriority:     m.selectPriority,
		SelectAssignee:     m.selectAssignee,
		SelectSubIssue:     m.selectSubIssue,
		SelectWorkspaceFor: m.selectWorkspaceFor,
		SelectRelationship: m.selectRelationship,

		NavigateToCreateIssue: func(projectID string, _ issues.Status) {
			m.navigator.NavigateToCreateIssue(projectID)
		},

		CopyToClipboard: clipboard.Copy,
		Notify:          notification.Notify,
		OpenURL:         openURL,
		OpenEditor:      m.openEditor,
		Editors:         editorChoices,
		SignIn:          m.signIn,
	}
}

func (m *Model) signIn(ctx context.Context) error {
	if m.deps.SignIn == nil {
		return nil
	}
	if err := m.deps.SignIn(ctx); err != nil {
		return err
	}
	m.signedIn = true
	m.wake()
	return nil
}

// openEditor launches the named editor on the workspace's primary repo.
func (m *Model) openEditor(ctx context.Context, workspaceID, editor string) error {
	ws, ok := m.findWorkspace(workspaceID)
	if !ok || len(ws.Repos) == 0 {
		return &exec.Error{Name: "editor", Err: exec.ErrNotFound}
	}
	if editor == "" {
		editor = m.cfg.GetEditor()
	}
	if editor == "" {
		editor = "code"
	}
	cmd := exec.CommandContext(ctx, editor, ws.Repos[0].Path)
	return cmd.Start()
}

// openURL opens a URL in the default browser.
func openURL(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

// Init starts the first data load.
func (m *Model) Init() tea.Cmd {
	m.subscribe()
	return tea.Batch(m.loadData(), m.loadIssues())
}

// subscribe wires store and cache notifications into the render loop.
func (m *Model) subscribe() {
	m.navigator.Subscribe(m.wake)
	m.panels.Subscribe(m.wake)
	m.compact.Subscribe(m.wake)
	m.diffView.Subscribe(m.wake)
	m.prefs.Subscribe(m.wake)

	m.data.Subscribe(cache.KeyWorkspaces, func() {
		if m.program != nil {
			m.program.Send(dataReloadRequest{})
		}
	})
	m.data.Subscribe(cache.KeyRemoteWorkspaces, func() {
		if m.program != nil {
			m.program.Send(dataReloadRequest{})
		}
	})
	m.data.SubscribePrefix(cache.PrefixIssues, func() {
		if m.program != nil {
			m.program.Send(issuesReloadRequest{})
		}
	})
	m.data.SubscribePrefix(cache.PrefixBranchStatus, func() {
		if m.program != nil {
			m.program.Send(statusReloadRequest{})
		}
	})
}

type dataReloadRequest struct{}

type issuesReloadRequest struct{}

type statusReloadRequest struct{}

func (m *Model) loadData() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var msg dataLoadedMsg
		if m.deps.ListWorkspaces != nil {
			msg.workspaces, msg.err = m.deps.ListWorkspaces(ctx)
		}
		if m.deps.RemoteLinks != nil && msg.err == nil {
			msg.remotes, msg.err = m.deps.RemoteLinks.List(ctx)
		}
		return msg
	}
}

func (m *Model) loadIssues() tea.Cmd {
	projectID := m.navigator.Route().ProjectID
	if projectID == "" {
		projectID = m.cfg.KanbanProjectID
	}
	if m.deps.Issues == nil || projectID == "" {
		return nil
	}
	return func() tea.Msg {
		list, err := m.deps.Issues.List(context.Background(), projectID)
		return issuesLoadedMsg{issues: list, err: err}
	}
}

func (m *Model) loadStatuses(workspaceID string) tea.Cmd {
	if workspaceID == "" {
		return nil
	}
	return func() tea.Msg {
		statuses, err := m.gitCtl.BranchStatuses(context.Background(), workspaceID)
		return statusesLoadedMsg{workspaceID: workspaceID, statuses: statuses, err: err}
	}
}

func (m *Model) loadDiff(workspaceID string) tea.Cmd {
	ws, ok := m.findWorkspace(workspaceID)
	if !ok || len(ws.Repos) == 0 {
		return nil
	}
	repos := ws.Repos
	return func() tea.Msg {
		var parts []string
		for _, repo := range repos {
			diff, err := m.gitSvc.Diff(context.Background(), repo.Path)
			if err != nil {
				return diffLoadedMsg{workspaceID: workspaceID, err: err}
			}
			if strings.TrimSpace(diff) != "" {
				parts = append(parts, diff)
			}
		}
		return diffLoadedMsg{workspaceID: workspaceID, diff: strings.Join(parts, "\n")}
	}
}

// dispatch runs an action off the render loop and reports its result.
func (m *Model) dispatch(def *action.Definition) tea.Cmd {
	ec := m.execContext()
	route := m.navigator.Route()
	ref := action.Ref{
		WorkspaceID: m.currentWorkspaceID(),
		ProjectID:   route.ProjectID,
	}
	if route.LayoutMode() == store.LayoutKanban {
		ref.IssueIDs = m.kanban.SelectedIDs()
	}
	if ws := m.currentWorkspace(); ws != nil && len(ws.Repos) > 0 {
		ref.RepoID = ws.Repos[0].ID
	}
	return func() tea.Msg {
		err := m.dispatcher.Execute(context.Background(), def, ec, ref)
		return actionDoneMsg{id: def.ID, err: err}
	}
}

// Update is the single message handler.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.compact.UpdateTerminalWidth(msg.Width)
		m.layout()
		return m, nil

	case wakeMsg:
		m.layout()
		return m, nil

	case dataReloadRequest:
		return m, m.loadData()

	case issuesReloadRequest:
		return m, m.loadIssues()

	case statusReloadRequest:
		wsID := m.currentWorkspaceID()
		return m, tea.Batch(m.loadStatuses(wsID), m.loadDiff(wsID))

	case dataLoadedMsg:
		if msg.err != nil {
			m.footer.Flash(msg.err.Error(), true)
			return m, nil
		}
		m.workspaces = msg.workspaces
		m.remotes = msg.remotes
		wsID := m.currentWorkspaceID()
		return m, tea.Batch(m.loadStatuses(wsID), m.loadDiff(wsID))

	case issuesLoadedMsg:
		if msg.err != nil {
			m.footer.Flash(msg.err.Error(), true)
			return m, nil
		}
		m.projectIssues = msg.issues
		m.kanban.SetIssues(msg.issues)
		return m, nil

	case statusesLoadedMsg:
		if msg.err != nil {
			logger.WithComponent("app").Warn("branch status failed", "workspace", msg.workspaceID, "error", msg.err)
			return m, nil
		}
		m.statuses[msg.workspaceID] = msg.statuses
		return m, nil

	case diffLoadedMsg:
		if msg.err != nil {
			logger.WithComponent("app").Warn("diff load failed", "workspace", msg.workspaceID, "error", msg.err)
			return m, nil
		}
		if msg.workspaceID == m.currentWorkspaceID() {
			m.changes.SetDiff(msg.diff)
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.footer.Flash(msg.err.Error(), true)
		}
		return m, nil

	case invokeMsg:
		return m, m.dispatch(msg.def)

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.MouseWheelMsg:
		return m, m.routeScroll(msg)
	}
	return m, nil
}

// routeScroll forwards wheel events to the focused scrolling panel.
func (m *Model) routeScroll(msg tea.Msg) tea.Cmd {
	if m.panels.Flags(m.currentWorkspaceID()).BottomBar {
		return m.logs.Update(msg)
	}
	return m.changes.Update(msg)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	// Modal dialogs swallow all input first, then the command palette.
	if m.modals.HasActive() {
		return m, m.modals.Update(msg)
	}
	if m.commandBar.IsOpen() {
		def, handled := m.commandBar.Update(msg)
		if def != nil {
			return m, m.dispatch(def)
		}
		if handled {
			return m, nil
		}
	}

	switch msg.String() {
	case keys.CtrlC:
		m.Close()
		return m, tea.Quit

	case keys.CtrlK:
		ws := m.currentWorkspace()
		m.commandBar.Open(m.registry, m.buildContext(), func(def *action.Definition) string {
			return action.ResolveLabel(def, ws)
		})
		return m, nil

	case keys.Escape:
		m.footer.ClearFlash()
		m.navigator.Back()
		return m, nil

	case keys.Up, "k":
		return m, m.moveSelection(-1)

	case keys.Down, "j":
		return m, m.moveSelection(1)

	case keys.Left, "h":
		if m.navigator.Route().LayoutMode() == store.LayoutKanban {
			m.kanban.MoveCursor(-1, 0)
			return m, nil
		}

	case keys.Right, "l":
		if m.navigator.Route().LayoutMode() == store.LayoutKanban {
			m.kanban.MoveCursor(1, 0)
			return m, nil
		}

	case keys.Space:
		if m.navigator.Route().LayoutMode() == store.LayoutKanban {
			m.kanban.ToggleSelect()
		} else if m.currentWorkspaceID() != "" {
			m.changes.ToggleCurrent()
		}
		return m, nil

	case "[":
		if m.currentWorkspaceID() != "" {
			m.changes.MoveCursor(-1)
		}
		return m, nil

	case "]":
		if m.currentWorkspaceID() != "" {
			m.changes.MoveCursor(1)
		}
		return m, nil

	case keys.Enter:
		return m, m.openSelection()

	case keys.Tab:
		if m.compact.IsCompact() {
			m.cycleCompactPanel()
			return m, nil
		}
		return m, nil
	}

	// Registry shortcuts resolve against the current context.
	c := m.buildContext()
	for _, def := range m.registry.All() {
		if def.Shortcut == "" || def.Shortcut != msg.String() {
			continue
		}
		if !action.Visible(def, c) || !action.Enabled(def, c) {
			continue
		}
		return m, m.dispatch(def)
	}
	return m, nil
}

// moveSelection moves the sidebar cursor, or the kanban cursor on a board.
func (m *Model) moveSelection(delta int) tea.Cmd {
	if m.navigator.Route().LayoutMode() == store.LayoutKanban {
		m.kanban.MoveCursor(0, delta)
		return nil
	}
	visible := m.sidebar.Visible(m.workspaces)
	m.sidebar.MoveCursor(delta, len(visible))
	return nil
}

// openSelection opens whatever the cursor points at.
func (m *Model) openSelection() tea.Cmd {
	route := m.navigator.Route()
	if route.LayoutMode() == store.LayoutKanban {
		if cur := m.kanban.Current(); cur != nil {
			m.navigator.NavigateToIssue(cur.ProjectID, cur.ID)
		}
		return nil
	}
	visible := m.sidebar.Visible(m.workspaces)
	idx := m.sidebar.Cursor()
	if idx < 0 || idx >= len(visible) {
		return nil
	}
	ws := visible[idx]
	m.navigator.NavigateToWorkspace(ws.ID)
	m.watchLogs(ws.ID)
	return tea.Batch(m.loadStatuses(ws.ID), m.loadDiff(ws.ID))
}

// watchLogs retargets the logs panel at the routed workspace's log file,
// preferring the attempt log while an attempt runs.
func (m *Model) watchLogs(workspaceID string) {
	path := logger.DevServerLogPath(workspaceID)
	if m.attempts.IsRunning(workspaceID) {
		path = logger.AttemptLogPath(workspaceID)
	}
	if err := m.logs.Watch(path); err != nil {
		logger.WithComponent("app").Warn("log watch failed", "error", err)
	}
}

func (m *Model) cycleCompactPanel() {
	switch m.compact.ActivePanel() {
	case store.CompactPanelSidebar:
		m.compact.SetActivePanel(store.CompactPanelMain)
	case store.CompactPanelMain:
		m.compact.SetActivePanel(store.CompactPanelRight)
	default:
		m.compact.SetActivePanel(store.CompactPanelSidebar)
	}
}
