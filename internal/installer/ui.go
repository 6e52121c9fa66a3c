package installer

import "context"

// UI is the host's dialog surface.
type UI interface {
	// Confirm shows a yes/no prompt and reports whether the user said yes.
	Confirm(ctx context.Context, heading, message string) (bool, error)

	// StartProgress opens a progress indicator. The caller closes it.
	StartProgress(heading, message string) Progress

	// Notify shows a final informational message.
	Notify(ctx context.Context, heading, message string) error
}

// Progress is an open progress indicator.
type Progress interface {
	// Update sets the completion percentage, 0 to 100.
	Update(percent int)
	Close()
}

// Strings resolves localized strings by numeric id, formatting args into
// the message.
type Strings interface {
	String(id int, args ...any) string
}
