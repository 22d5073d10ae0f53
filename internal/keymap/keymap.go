// Package keymap defines key bindings for the application.
package keymap

// Contexts a binding can belong to.
const (
	ContextResults = "results"
	ContextForm    = "form"
)

// Binding maps keys to an action and documents it.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "results" or "form"
}

// All contains all key bindings for help generation.
var All = []Binding{
	// Results
	{ActionNextPage, []string{"n", "right"}, "next", ContextResults},
	{ActionPrevPage, []string{"b", "left"}, "back", ContextResults},
	{ActionFirstPage, []string{"g", "home"}, "first", ContextResults},
	{ActionLastPage, []string{"G", "end"}, "last", ContextResults},
	{ActionToggleLibrary, []string{"l"}, "library", ContextResults},
	{ActionNewSearch, []string{"s"}, "search", ContextResults},
	{ActionQuit, []string{"q", "esc", "ctrl+c"}, "quit", ContextResults},

	// Forms
	{ActionSubmit, []string{"enter"}, "submit", ContextForm},
	{ActionNextField, []string{"tab", "down"}, "next field", ContextForm},
	{ActionPrevField, []string{"shift+tab", "up"}, "previous field", ContextForm},
	{ActionQuit, []string{"esc", "ctrl+c"}, "quit", ContextForm},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
