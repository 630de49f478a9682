package tui

import (
	"shelf/internal/domain"
	"shelf/internal/upload"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// EntriesLoadedMsg signals that the library list has been refreshed
type EntriesLoadedMsg struct {
	Entries []domain.Entry
}

// StoreChangedMsg signals that the library store mutated; the view
// re-reads the store when it arrives
type StoreChangedMsg struct{}

// EntryDeletedMsg signals that an entry was deleted remotely and locally
type EntryDeletedMsg struct {
	ID   string
	Name string
}

// EntryRenamedMsg signals that an entry was renamed
type EntryRenamedMsg struct {
	ID   string
	Name string
}

// FileStagedMsg signals a local file was added to the upload selection
type FileStagedMsg struct {
	File   domain.LocalFile
	Staged int // selection size after staging
}

// UploadResolvedMsg carries the classified result of a submitted batch
type UploadResolvedMsg struct {
	Result upload.Result
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// TickMsg is a general tick message for animations
type TickMsg struct{}
