package action

import "github.com/quilthq/quilt/internal/workspace"

// Resolution functions are total over any Definition: a missing override
// resolves to an explicit default rather than relying on zero values at
// the call site. Defaults: visible=true, active=false, enabled=true,
// icon=the static Icon field, tooltip=the resolved label.

// ResolveLabel returns the action's label, invoking LabelFunc with the
// optional workspace when present.
func ResolveLabel(def *Definition, ws *workspace.Workspace) string {
	if def.LabelFunc != nil {
		return def.LabelFunc(ws)
	}
	return def.Label
}

// Visible reports whether the action is visible in the given context.
func Visible(def *Definition, c Context) bool {
	if def.IsVisible != nil {
		return def.IsVisible(c)
	}
	return true
}

// Active reports whether the action renders in its active state.
func Active(def *Definition, c Context) bool {
	if def.IsActive != nil {
		return def.IsActive(c)
	}
	return false
}

// Enabled reports whether the action can be invoked.
func Enabled(def *Definition, c Context) bool {
	if def.IsEnabled != nil {
		return def.IsEnabled(c)
	}
	return true
}

// ResolveIcon returns the action's effective icon.
func ResolveIcon(def *Definition, c Context) Icon {
	if def.GetIcon != nil {
		return def.GetIcon(c)
	}
	return def.Icon
}

// ResolveTooltip returns the action's tooltip, falling back to its label.
func ResolveTooltip(def *Definition, c Context, ws *workspace.Workspace) string {
	if def.GetTooltip != nil {
		return def.GetTooltip(c)
	}
	return ResolveContextLabel(def, c, ws)
}

// ResolveContextLabel returns the context-aware label, falling back to
// ResolveLabel when no GetLabel override is set.
func ResolveContextLabel(def *Definition, c Context, ws *workspace.Workspace) string {
	if def.GetLabel != nil {
		return def.GetLabel(c, ws)
	}
	return ResolveLabel(def, ws)
}

// IsSpecialIcon reports whether icon is one of the reserved sentinel tags.
// Actions resolving to a sentinel icon are excluded from generic icon-strip
// rendering regardless of visibility.
func IsSpecialIcon(icon Icon) bool {
	return icon == IconDevServerIndicator || icon == IconAttemptSpinner
}
