package core

import "context"

// Picker asks the user for a path. ok is false when the user cancels, which is
// not an error.
type Picker interface {
	PickFolder(ctx context.Context, title string) (path string, ok bool, err error)
	PickArchive(ctx context.Context, title string) (path string, ok bool, err error)
}
