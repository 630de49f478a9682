package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"shelf/internal/library"
	"shelf/internal/upload"
)

// Command factories for async operations

// RefreshCmd fetches the full entry list from the file service
func RefreshCmd(store *library.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := store.Refresh(ctx); err != nil {
			return ErrMsg{Err: err, Context: "refreshing library"}
		}
		return EntriesLoadedMsg{Entries: store.Entries()}
	}
}

// DeleteEntryCmd deletes an entry, server-confirmed first
func DeleteEntryCmd(store *library.Store, id, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := store.Remove(ctx, id); err != nil {
			return ErrMsg{Err: err, Context: "deleting " + name}
		}
		return EntryDeletedMsg{ID: id, Name: name}
	}
}

// RenameEntryCmd renames an entry locally
func RenameEntryCmd(store *library.Store, id, newName string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := store.Rename(ctx, id, newName); err != nil {
			return ErrMsg{Err: err, Context: "renaming entry"}
		}
		return EntryRenamedMsg{ID: id, Name: newName}
	}
}

// StageFileCmd stats a path and adds it to the upload selection
func StageFileCmd(coord *upload.Coordinator, path string) tea.Cmd {
	return func() tea.Msg {
		file, err := upload.StageFile(path)
		if err != nil {
			return ErrMsg{Err: err, Context: "staging file"}
		}
		coord.Stage(file)
		return FileStagedMsg{File: file, Staged: len(coord.Selection())}
	}
}

// SubmitUploadCmd posts the staged selection as one batch. 60s budget:
// document batches can be large and the request is a single round trip.
func SubmitUploadCmd(coord *upload.Coordinator) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		result, err := coord.Submit(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "uploading batch"}
		}
		return UploadResolvedMsg{Result: result}
	}
}

// ListenStoreCmd waits for the next store mutation signal and turns it
// into a message. The handler re-arms it, continuation style, so every
// accepted mutation reaches the view no matter which code path caused it.
func ListenStoreCmd(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return StoreChangedMsg{}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
