package release

import "fmt"

// TitleSeparator splits a provider compound title into artist and title.
const TitleSeparator = " - "

// MalformedTitleError is returned when a compound title lacks the separator.
// It is recoverable: the record is skipped, the rest of the page is kept.
type MalformedTitleError struct {
	Title string
}

func (e *MalformedTitleError) Error() string {
	return fmt.Sprintf("malformed title %q: missing %q separator", e.Title, TitleSeparator)
}
