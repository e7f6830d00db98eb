package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"

	"github.com/quilthq/quilt/internal/dialog"
	"github.com/quilthq/quilt/internal/keys"
)

// modalWidth is the inner width of dialog forms.
const modalWidth = 52

// modal is one queued dialog: a form plus the closure that delivers its
// result back to the blocked executor. Info dialogs carry a body and no form.
type modal struct {
	title       string
	body        string
	form        *huh.Form
	destructive bool
	resolve     func(confirmed bool)
	done        chan struct{}
}

// Modals implements dialog.Service on top of huh forms. Executors run on
// goroutines and block in the Service methods; the program loop drives the
// active form through Update and View.
type Modals struct {
	styles Styles

	mu     sync.Mutex
	queue  []*modal
	active *modal

	// wake pokes the program loop so a freshly queued modal renders without
	// waiting for the next input event.
	wake func()
}

var _ dialog.Service = (*Modals)(nil)

// NewModals creates the dialog layer. wake is typically program.Send of a
// no-op message.
func NewModals(styles Styles, wake func()) *Modals {
	return &Modals{styles: styles, wake: wake}
}

// SetStyles swaps the style set after a theme change.
func (m *Modals) SetStyles(styles Styles) {
	m.mu.Lock()
	m.styles = styles
	m.mu.Unlock()
}

// HasActive reports whether a dialog is showing or queued.
func (m *Modals) HasActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current() != nil
}

// current promotes the next queued modal. Callers hold m.mu.
func (m *Modals) current() *modal {
	if m.active == nil && len(m.queue) > 0 {
		m.active = m.queue[0]
		m.queue = m.queue[1:]
	}
	return m.active
}

// Update routes a message to the active dialog. Enter confirms with the
// form's bound values, Escape cancels, everything else drives the form.
func (m *Modals) Update(msg tea.Msg) tea.Cmd {
	m.mu.Lock()
	mod := m.current()
	m.mu.Unlock()
	if mod == nil {
		return nil
	}

	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case keys.Enter:
			m.finish(mod, true)
			return nil
		case keys.Escape:
			m.finish(mod, false)
			return nil
		}
	}
	if mod.form == nil {
		return nil
	}

	var cmd tea.Cmd
	mod.form, cmd = huhFormUpdate(mod.form, msg)
	return cmd
}

// finish resolves a modal and clears it from the active slot.
func (m *Modals) finish(mod *modal, confirmed bool) {
	m.mu.Lock()
	if m.active == mod {
		m.active = nil
	}
	m.mu.Unlock()
	mod.resolve(confirmed)
	close(mod.done)
}

// View renders the active dialog, or "" when none is showing.
func (m *Modals) View() string {
	m.mu.Lock()
	mod := m.current()
	styles := m.styles
	m.mu.Unlock()
	if mod == nil {
		return ""
	}
	title := styles.ModalTitle
	if mod.destructive {
		title = styles.FlashError.Bold(true)
	}
	body := title.Render(mod.title)
	if mod.body != "" {
		body += "\n\n" + mod.body
	}
	if mod.form != nil {
		body += "\n\n" + mod.form.View()
	}
	body += "\n\n" + styles.Help.Render("enter confirm · esc cancel")
	return styles.ModalBox.Render(body)
}

// present queues a modal and blocks until it resolves or ctx is cancelled.
// Cancellation withdraws the dialog and reports it as cancelled.
func (m *Modals) present(ctx context.Context, mod *modal) bool {
	confirmed := false
	inner := mod.resolve
	mod.resolve = func(ok bool) {
		confirmed = ok
		if inner != nil {
			inner(ok)
		}
	}
	mod.done = make(chan struct{})

	m.mu.Lock()
	m.queue = append(m.queue, mod)
	m.mu.Unlock()
	if m.wake != nil {
		m.wake()
	}

	select {
	case <-mod.done:
		return confirmed
	case <-ctx.Done():
		m.withdraw(mod)
		return false
	}
}

// withdraw removes a modal that its caller no longer waits on.
func (m *Modals) withdraw(mod *modal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == mod {
		m.active = nil
		return
	}
	for i, q := range m.queue {
		if q == mod {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			return
		}
	}
}

// newForm builds a themed single-group form.
func (m *Modals) newForm(fields ...huh.Field) *huh.Form {
	m.mu.Lock()
	theme := m.styles.Theme
	m.mu.Unlock()
	form := huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(ModalTheme(theme)).
		WithShowHelp(false).
		WithWidth(modalWidth)
	initHuhForm(form)
	return form
}

func outcomeOf(confirmed bool) dialog.Outcome {
	if confirmed {
		return dialog.OutcomeConfirmed
	}
	return dialog.OutcomeCancelled
}

// Confirm shows a generic confirm/cancel dialog.
func (m *Modals) Confirm(ctx context.Context, opts dialog.ConfirmOptions) (dialog.ConfirmResult, error) {
	accepted := false
	affirmative := "Confirm"
	if opts.Destructive {
		affirmative = "Delete"
	}
	form := m.newForm(
		huh.NewConfirm().
			Title(opts.Message).
			Affirmative(affirmative).
			Negative("Cancel").
			Value(&accepted),
	)
	ok := m.present(ctx, &modal{title: opts.Title, form: form, destructive: opts.Destructive})
	return dialog.ConfirmResult{Outcome: outcomeOf(ok && accepted)}, nil
}

// ConfirmDelete shows the workspace delete dialog with its cleanup options.
func (m *Modals) ConfirmDelete(ctx context.Context, opts dialog.ConfirmDeleteOptions) (dialog.ConfirmDeleteResult, error) {
	var cleanup []string
	options := []huh.Option[string]{
		huh.NewOption(fmt.Sprintf("Delete branch %s", opts.BranchName), "branches"),
	}
	if opts.HasLinkedIssue {
		options = append(options, huh.NewOption("Unlink kanban issue", "issue"))
	}
	accepted := false
	fields := []huh.Field{
		huh.NewMultiSelect[string]().
			Title("Also clean up").
			Options(options...).
			Value(&cleanup),
		huh.NewConfirm().
			Title(deleteWarning(opts)).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&accepted),
	}
	form := m.newForm(fields...)
	ok := m.present(ctx, &modal{
		title:       fmt.Sprintf("Delete %s?", opts.WorkspaceName),
		form:        form,
		destructive: true,
	})

	res := dialog.ConfirmDeleteResult{Outcome: outcomeOf(ok && accepted)}
	for _, c := range cleanup {
		switch c {
		case "branches":
			res.DeleteBranches = true
		case "issue":
			res.UnlinkIssue = true
		}
	}
	return res, nil
}

func deleteWarning(opts dialog.ConfirmDeleteOptions) string {
	if opts.HasOpenPR {
		return "This workspace has an open pull request. Delete anyway?"
	}
	return "This cannot be undone."
}

// ConfirmMerge shows the merge confirmation.
func (m *Modals) ConfirmMerge(ctx context.Context, opts dialog.MergeOptions) (dialog.ConfirmResult, error) {
	accepted := false
	msg := fmt.Sprintf("Merge %d commit(s) from %s into %s?", opts.CommitsAhead, opts.Branch, opts.TargetBranch)
	form := m.newForm(
		huh.NewConfirm().Title(msg).Affirmative("Merge").Negative("Cancel").Value(&accepted),
	)
	ok := m.present(ctx, &modal{title: "Merge branch", form: form})
	return dialog.ConfirmResult{Outcome: outcomeOf(ok && accepted)}, nil
}

// PromptRebase offers a rebase when the branch is behind its target.
func (m *Modals) PromptRebase(ctx context.Context, opts dialog.RebaseOptions) (dialog.ConfirmResult, error) {
	accepted := false
	msg := fmt.Sprintf("%s is %d commit(s) behind %s. Rebase first?", opts.Branch, opts.CommitsBehind, opts.TargetBranch)
	form := m.newForm(
		huh.NewConfirm().Title(msg).Affirmative("Rebase").Negative("Cancel").Value(&accepted),
	)
	ok := m.present(ctx, &modal{title: "Branch behind target", form: form})
	return dialog.ConfirmResult{Outcome: outcomeOf(ok && accepted)}, nil
}

// ShowInfo shows a dismissable note.
func (m *Modals) ShowInfo(ctx context.Context, opts dialog.InfoOptions) error {
	m.present(ctx, &modal{title: opts.Title, body: opts.Message})
	return nil
}

// ShowConflicts reports merge conflicts, listing the conflicted repos.
func (m *Modals) ShowConflicts(ctx context.Context, opts dialog.ConflictOptions) (dialog.ConfirmResult, error) {
	accepted := false
	msg := fmt.Sprintf("%s has conflicts in: %s. Open the workspace to resolve them?",
		opts.WorkspaceName, strings.Join(opts.RepoNames, ", "))
	form := m.newForm(
		huh.NewConfirm().Title(msg).Affirmative("Open").Negative("Dismiss").Value(&accepted),
	)
	ok := m.present(ctx, &modal{title: "Merge conflicts", form: form, destructive: true})
	return dialog.ConfirmResult{Outcome: outcomeOf(ok && accepted)}, nil
}

// Select shows a single-choice picker.
func (m *Modals) Select(ctx context.Context, opts dialog.SelectOptions) (dialog.SelectResult, error) {
	chosen := opts.Current
	options := make([]huh.Option[string], 0, len(opts.Items))
	for _, it := range opts.Items {
		options = append(options, huh.NewOption(it.Label, it.ID))
	}
	form := m.newForm(
		huh.NewSelect[string]().Title(opts.Title).Options(options...).Value(&chosen),
	)
	ok := m.present(ctx, &modal{title: opts.Title, form: form})
	if !ok {
		return dialog.SelectResult{Outcome: dialog.OutcomeCancelled}, nil
	}
	return dialog.SelectResult{Outcome: dialog.OutcomeConfirmed, ID: chosen}, nil
}

// Input shows a single-line text prompt.
func (m *Modals) Input(ctx context.Context, opts dialog.InputOptions) (dialog.InputResult, error) {
	value := opts.Initial
	form := m.newForm(
		huh.NewInput().Title(opts.Title).Placeholder(opts.Placeholder).Value(&value),
	)
	ok := m.present(ctx, &modal{title: opts.Title, form: form})
	if !ok {
		return dialog.InputResult{Outcome: dialog.OutcomeCancelled}, nil
	}
	return dialog.InputResult{Outcome: dialog.OutcomeConfirmed, Value: value}, nil
}
