package action

import "github.com/quilthq/quilt/internal/workspace"

// Item is a render-ready navbar descriptor. Divider items carry only the
// IsDivider flag.
type Item struct {
	ID        ID
	Icon      Icon
	Active    bool
	Tooltip   string
	Shortcut  string
	Disabled  bool
	IsDivider bool
	// Invoke dispatches the action. Nil on dividers.
	Invoke func()
}

// Normalize filters a navbar sequence for the given context: invisible and
// sentinel-icon actions are dropped, then dividers are collapsed so the
// result never starts with, ends with, or contains consecutive dividers.
// Normalize is idempotent.
func Normalize(seq []Entry, c Context) []Entry {
	var out []Entry
	for _, e := range seq {
		if e.Divider {
			if len(out) == 0 || out[len(out)-1].Divider {
				continue
			}
			out = append(out, e)
			continue
		}
		if !Visible(e.Def, c) || IsSpecialIcon(ResolveIcon(e.Def, c)) {
			continue
		}
		out = append(out, e)
	}
	if len(out) > 0 && out[len(out)-1].Divider {
		out = out[:len(out)-1]
	}
	return out
}

// Compose normalizes seq and maps each surviving entry to a render item.
// bind produces the click handler for an action; it is called once per
// surviving action.
func Compose(seq []Entry, c Context, ws *workspace.Workspace, bind func(def *Definition) func()) []Item {
	norm := Normalize(seq, c)
	items := make([]Item, 0, len(norm))
	for _, e := range norm {
		if e.Divider {
			items = append(items, Item{IsDivider: true})
			continue
		}
		var invoke func()
		if bind != nil {
			invoke = bind(e.Def)
		}
		items = append(items, Item{
			ID:       e.Def.ID,
			Icon:     ResolveIcon(e.Def, c),
			Active:   Active(e.Def, c),
			Tooltip:  ResolveTooltip(e.Def, c, ws),
			Shortcut: e.Def.Shortcut,
			Disabled: !Enabled(e.Def, c),
			Invoke:   invoke,
		})
	}
	return items
}
