package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"

	// Results actions
	ActionNextPage      Action = "next_page"
	ActionPrevPage      Action = "prev_page"
	ActionFirstPage     Action = "first_page"
	ActionLastPage      Action = "last_page"
	ActionToggleLibrary Action = "toggle_library"
	ActionNewSearch     Action = "new_search"

	// Form actions (login and search)
	ActionSubmit    Action = "submit"
	ActionNextField Action = "next_field"
	ActionPrevField Action = "prev_field"
)
