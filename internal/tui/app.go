package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"shelf/internal/domain"
	"shelf/internal/library"
	"shelf/internal/tui/components"
	"shelf/internal/upload"
)

// inputPurpose records what an input modal submission means
type inputPurpose int

const (
	inputNone inputPurpose = iota
	inputRename
	inputStagePath
	inputSearch
)

const chromeHeight = 4 // header + rule + status + footer

// Model is the main Bubble Tea model for the application
type Model struct {
	Store    *library.Store
	Uploader *upload.Coordinator

	Keys    KeyMap
	List    components.EntryList
	Input   components.InputModal
	Confirm components.ConfirmModal

	// Dimensions
	Width  int
	Height int
	Ready  bool

	// Library load state. The three conditions the view distinguishes
	// (loading, error, empty) all live here plus the list itself.
	Loading      bool
	LoadErr      error
	SpinnerFrame int

	// Status line
	StatusMsg   string
	StatusIsErr bool

	inputFor     inputPurpose
	renameTarget domain.Entry
	deleteTarget domain.Entry

	// Ranked search query; empty means the full list is shown.
	searchQuery string

	// Store mutations arrive here via the subscription set up in NewModel.
	storeCh chan struct{}
}

// NewModel creates a new application model
func NewModel(store *library.Store, uploader *upload.Coordinator) Model {
	m := Model{
		Store:    store,
		Uploader: uploader,
		Keys:     DefaultKeyMap(),
		List:     components.NewEntryList(),
		Input:    components.NewInputModal(),
		Confirm:  components.NewConfirmModal(),
		Loading:  true,
		storeCh:  make(chan struct{}, 1),
	}
	// Bridge store notifications into the message loop. The send is
	// non-blocking: a burst of mutations coalesces into one redraw.
	ch := m.storeCh
	store.Subscribe(func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	})

	// Seed with whatever the cache provided; the first refresh replaces it.
	m.List.SetEntries(store.Entries())
	return m
}

// Init triggers the initial refresh and starts listening for store changes
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		RefreshCmd(m.Store),
		ListenStoreCmd(m.storeCh),
		TickCmd(100*time.Millisecond),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.List.SetSize(m.Width, m.Height-chromeHeight)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(100 * time.Millisecond)

	case EntriesLoadedMsg:
		m.Loading = false
		m.LoadErr = nil
		m.List.SetEntries(m.visibleEntries())
		return m, nil

	case StoreChangedMsg:
		// Any accepted mutation lands here via the subscription.
		m.List.SetEntries(m.visibleEntries())
		return m, ListenStoreCmd(m.storeCh)

	case EntryDeletedMsg:
		return m.setStatus(fmt.Sprintf("deleted %q", msg.Name), false)

	case EntryRenamedMsg:
		return m.setStatus(fmt.Sprintf("renamed to %q", msg.Name), false)

	case FileStagedMsg:
		return m.setStatus(fmt.Sprintf("staged %q (%d pending)", msg.File.Name, msg.Staged), false)

	case UploadResolvedMsg:
		return m.setStatus(uploadStatusText(msg.Result), msg.Result.Status == upload.StatusFailed)

	case ErrMsg:
		m.Loading = false
		if msg.Context == "refreshing library" {
			m.LoadErr = msg.Err
		}
		return m.setStatus(msg.Error(), true)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

// handleKeyMsg routes key events by UI state: modals first, then the
// filter input, then the browse bindings.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Confirm.IsVisible() {
		var confirmed, dismissed bool
		m.Confirm, confirmed, dismissed = m.Confirm.Update(msg)
		if dismissed && confirmed {
			return m, DeleteEntryCmd(m.Store, m.deleteTarget.ID, m.deleteTarget.Name)
		}
		return m, nil
	}

	if m.Input.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.Input, cmd, submitted = m.Input.Update(msg)
		if !submitted {
			return m, cmd
		}

		value := strings.TrimSpace(m.Input.Value())
		m.Input.Hide()
		switch m.inputFor {
		case inputRename:
			return m, RenameEntryCmd(m.Store, m.renameTarget.ID, value)
		case inputStagePath:
			if value == "" {
				return m, nil
			}
			return m, StageFileCmd(m.Uploader, value)
		case inputSearch:
			return m.applySearch(value)
		}
		return m, nil
	}

	if m.List.FilterActive() {
		if key.Matches(msg, m.Keys.Escape) {
			m.List.ClearFilter()
			return m, nil
		}
		return m, m.List.UpdateFilter(msg)
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Up):
		m.List.CursorUp()
		return m, nil

	case key.Matches(msg, m.Keys.Down):
		m.List.CursorDown()
		return m, nil

	case key.Matches(msg, m.Keys.Filter):
		m.List.StartFilter()
		return m, nil

	case key.Matches(msg, m.Keys.Search):
		m.inputFor = inputSearch
		m.Input.Show("Search library", "name...", m.searchQuery)
		return m, nil

	case key.Matches(msg, m.Keys.Escape):
		if m.searchQuery != "" {
			return m.applySearch("")
		}
		m.List.ClearFilter()
		return m, nil

	case key.Matches(msg, m.Keys.Refresh):
		m.Loading = true
		return m, RefreshCmd(m.Store)

	case key.Matches(msg, m.Keys.Rename):
		if entry, ok := m.List.Selected(); ok {
			m.renameTarget = entry
			m.inputFor = inputRename
			m.Input.Show("Rename entry", "new name...", entry.Name)
		}
		return m, nil

	case key.Matches(msg, m.Keys.Delete):
		if entry, ok := m.List.Selected(); ok {
			m.deleteTarget = entry
			m.Confirm.Show("Delete entry", fmt.Sprintf("Delete %q from the library?", entry.Name))
		}
		return m, nil

	case key.Matches(msg, m.Keys.Stage):
		m.inputFor = inputStagePath
		m.Input.Show("Add file to upload batch", "path/to/file", "")
		return m, nil

	case key.Matches(msg, m.Keys.Upload):
		if m.Uploader.InFlight() {
			return m.setStatus("upload already in progress", true)
		}
		if len(m.Uploader.Selection()) == 0 {
			return m.setStatus("nothing staged, press a to add files", true)
		}
		return m, SubmitUploadCmd(m.Uploader)
	}

	return m, nil
}

// visibleEntries is what the list should show right now: the ranked
// search results while a search is active, the full store list otherwise.
func (m Model) visibleEntries() []domain.Entry {
	if m.searchQuery != "" {
		return m.Store.Filter(m.searchQuery)
	}
	return m.Store.Entries()
}

// applySearch runs a ranked name search over the library. An empty query
// clears the search and restores the full list.
func (m Model) applySearch(query string) (tea.Model, tea.Cmd) {
	m.searchQuery = query
	entries := m.visibleEntries()
	m.List.SetEntries(entries)
	if query == "" {
		return m, nil
	}
	return m.setStatus(fmt.Sprintf("%d match(es) for %q, esc to clear", len(entries), query), false)
}

func (m Model) setStatus(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return m, ClearStatusCmd(5 * time.Second)
}

func uploadStatusText(res upload.Result) string {
	switch res.Status {
	case upload.StatusIdle:
		return "nothing staged"
	case upload.StatusSuccess:
		return fmt.Sprintf("uploaded %d file(s)", res.Added)
	case upload.StatusPartialSuccess:
		return fmt.Sprintf("uploaded %d file(s), failed: %s",
			res.Added, strings.Join(res.FailedNames(), ", "))
	default:
		return "upload failed: " + strings.Join(res.FailedNames(), ", ")
	}
}
