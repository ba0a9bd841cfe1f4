package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrStore indicates the calendar store could not be read or updated.
	// The runner stops consuming entries when it sees this.
	ErrStore = errors.New("calendar store")

	// ErrNoKeywords indicates keyword research returned nothing for every niche.
	ErrNoKeywords = errors.New("no keywords found for any niche")
)

// EntryError reports a pipeline failure for one calendar entry.
// The entry has been marked failed in the store.
type EntryError struct {
	ID  int64
	Err error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("calendar entry %d: %v", e.ID, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }
