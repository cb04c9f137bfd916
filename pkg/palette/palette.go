// Package palette describes the dashboard command palette: the command list,
// keyboard shortcuts and query filtering.
package palette

import (
	"path"
	"strings"
)

// ActionKind tells the client what invoking a command does.
type ActionKind string

const (
	ActionNavigate    ActionKind = "navigate"
	ActionToggleTheme ActionKind = "toggle-theme"
	ActionRefresh     ActionKind = "refresh"
	ActionExport      ActionKind = "export"
	ActionHelp        ActionKind = "help"
	ActionLogout      ActionKind = "logout"
)

const (
	CategoryNavigation = "Navigation"
	CategoryActions    = "Actions"
	CategoryHelp       = "Help"
	CategoryAccount    = "Account"
)

// Command is one palette entry.
type Command struct {
	ID       string     `json:"id"`
	Label    string     `json:"label"`
	Icon     string     `json:"icon"`
	Shortcut string     `json:"shortcut,omitempty"`
	Category string     `json:"category"`
	Action   ActionKind `json:"action"`
	Target   string     `json:"target,omitempty"`
}

// Group is a category heading with its matching commands.
type Group struct {
	Category string    `json:"category"`
	Commands []Command `json:"commands"`
}

// Shortcut documents a global key binding.
type Shortcut struct {
	Keys        string `json:"keys"`
	Description string `json:"description"`
}

// Options adjusts the generated command list.
type Options struct {
	// BasePath prefixes navigation targets, e.g. "/admin".
	BasePath string
	// Dark reports whether the viewer currently uses the dark theme.
	Dark bool
}

type navEntry struct {
	id, label, icon, key string
}

var navigation = []navEntry{
	{"dashboard", "Dashboard", "dashboard", "D"},
	{"analytics", "Analytics", "analytics", "A"},
	{"users", "Users", "people", "U"},
	{"reports", "Reports", "assessment", "R"},
	{"settings", "Settings", "settings", "S"},
}

// Commands returns the full palette in display order.
func Commands(opts Options) []Command {
	base := opts.BasePath
	if base == "" {
		base = "/"
	}

	cmds := make([]Command, 0, len(navigation)+5)
	for _, n := range navigation {
		cmds = append(cmds, Command{
			ID:       n.id,
			Label:    "Go to " + n.label,
			Icon:     n.icon,
			Shortcut: "G " + n.key,
			Category: CategoryNavigation,
			Action:   ActionNavigate,
			Target:   path.Join(base, n.id),
		})
	}

	themeLabel, themeIcon := "Switch to Dark Mode", "dark_mode"
	if opts.Dark {
		themeLabel, themeIcon = "Switch to Light Mode", "light_mode"
	}

	return append(cmds,
		Command{ID: "toggle-theme", Label: themeLabel, Icon: themeIcon, Shortcut: "Ctrl+Shift+L", Category: CategoryActions, Action: ActionToggleTheme},
		Command{ID: "refresh-data", Label: "Refresh Dashboard Data", Icon: "refresh", Shortcut: "Ctrl+R", Category: CategoryActions, Action: ActionRefresh},
		Command{ID: "export-orders", Label: "Export Orders to CSV", Icon: "file_download", Shortcut: "Ctrl+E", Category: CategoryActions, Action: ActionExport, Target: "orders"},
		Command{ID: "shortcuts", Label: "View Keyboard Shortcuts", Icon: "keyboard", Shortcut: "?", Category: CategoryHelp, Action: ActionHelp},
		Command{ID: "logout", Label: "Logout", Icon: "logout", Category: CategoryAccount, Action: ActionLogout},
	)
}

// Filter keeps commands whose label or category contains query, ignoring
// case. An empty query keeps everything.
func Filter(cmds []Command, query string) []Command {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return cmds
	}
	out := make([]Command, 0, len(cmds))
	for _, c := range cmds {
		if strings.Contains(strings.ToLower(c.Label), q) || strings.Contains(strings.ToLower(c.Category), q) {
			out = append(out, c)
		}
	}
	return out
}

// GroupByCategory buckets commands by category in order of first appearance.
func GroupByCategory(cmds []Command) []Group {
	groups := []Group{}
	index := map[string]int{}
	for _, c := range cmds {
		i, ok := index[c.Category]
		if !ok {
			i = len(groups)
			index[c.Category] = i
			groups = append(groups, Group{Category: c.Category})
		}
		groups[i].Commands = append(groups[i].Commands, c)
	}
	return groups
}

// Search filters the palette and groups the result.
func Search(opts Options, query string) []Group {
	return GroupByCategory(Filter(Commands(opts), query))
}

// Lookup finds a command by id.
func Lookup(opts Options, id string) (Command, bool) {
	for _, c := range Commands(opts) {
		if c.ID == id {
			return c, true
		}
	}
	return Command{}, false
}

// Shortcuts lists the global key bindings shown by the help command.
func Shortcuts() []Shortcut {
	return []Shortcut{
		{Keys: "Ctrl+K", Description: "Open Command Palette"},
		{Keys: "Ctrl+Shift+L", Description: "Toggle Theme"},
		{Keys: "Ctrl+R", Description: "Refresh Data"},
		{Keys: "Ctrl+E", Description: "Export Orders"},
		{Keys: "Esc", Description: "Close Dialogs"},
	}
}
