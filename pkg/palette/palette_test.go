package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(cmds []Command) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.ID
	}
	return out
}

func TestCommandsCatalog(t *testing.T) {
	cmds := Commands(Options{BasePath: "/admin"})
	assert.Equal(t, []string{
		"dashboard", "analytics", "users", "reports", "settings",
		"toggle-theme", "refresh-data", "export-orders", "shortcuts", "logout",
	}, ids(cmds))

	assert.Equal(t, "Go to Reports", cmds[3].Label)
	assert.Equal(t, "G R", cmds[3].Shortcut)
	assert.Equal(t, "/admin/reports", cmds[3].Target)
	assert.Empty(t, cmds[9].Shortcut)
}

func TestThemeLabelFollowsMode(t *testing.T) {
	dark, _ := Lookup(Options{Dark: true}, "toggle-theme")
	light, _ := Lookup(Options{Dark: false}, "toggle-theme")
	if dark.Label != "Switch to Light Mode" {
		t.Fatalf("unexpected dark label %q", dark.Label)
	}
	if light.Label != "Switch to Dark Mode" {
		t.Fatalf("unexpected light label %q", light.Label)
	}
}

func TestSearchMatchesLabelOrCategory(t *testing.T) {
	groups := Search(Options{}, "EXPORT")
	if assert.Len(t, groups, 1) {
		assert.Equal(t, CategoryActions, groups[0].Category)
		assert.Equal(t, []string{"export-orders"}, ids(groups[0].Commands))
	}

	groups = Search(Options{}, "navigation")
	if assert.Len(t, groups, 1) {
		assert.Len(t, groups[0].Commands, 5)
	}

	assert.Empty(t, Search(Options{}, "zzz"))
}

func TestSearchGroupsInFirstAppearanceOrder(t *testing.T) {
	groups := Search(Options{}, "")
	cats := make([]string, len(groups))
	for i, g := range groups {
		cats[i] = g.Category
	}
	assert.Equal(t, []string{CategoryNavigation, CategoryActions, CategoryHelp, CategoryAccount}, cats)

	groups = Search(Options{}, "o")
	assert.Equal(t, CategoryNavigation, groups[0].Category)
}

func TestShortcuts(t *testing.T) {
	assert.Equal(t, "Ctrl+K", Shortcuts()[0].Keys)
}
