package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"shelf/internal/domain"
	"shelf/internal/library"
	"shelf/internal/upload"
)

// stubService serves a fixed entry list.
type stubService struct {
	entries []domain.Entry
}

func (s *stubService) List(ctx context.Context) ([]domain.Entry, error) {
	return s.entries, nil
}

func (s *stubService) Upload(ctx context.Context, collection string, files []domain.LocalFile) ([]domain.FileResult, error) {
	return nil, nil
}

func (s *stubService) Delete(ctx context.Context, id string) error { return nil }

func newTestModel(t *testing.T, entries ...domain.Entry) (Model, *library.Store) {
	t.Helper()
	svc := &stubService{entries: entries}
	store := library.NewStore(svc, nil, nil)
	uploader := upload.NewCoordinator(svc, store, "documents", nil)
	m := NewModel(store, uploader)
	require.NoError(t, store.Refresh(context.Background()))
	m.List.SetEntries(store.Entries())
	return m, store
}

func libEntry(id, name string) domain.Entry {
	return domain.Entry{ID: id, Name: name, Kind: domain.KindFile, SizeLabel: "1.00 KB", Owner: "You"}
}

func TestSearchShowsRankedMatches(t *testing.T) {
	m, _ := newTestModel(t,
		libEntry("a1", "a-very-long-notes-archive.tar"),
		libEntry("a2", "notes.txt"),
		libEntry("a3", "holiday.png"),
	)

	model, _ := m.applySearch("notes")
	m = model.(Model)

	require.Equal(t, "notes", m.searchQuery)
	require.Equal(t, 2, m.List.Len())
	sel, ok := m.List.Selected()
	require.True(t, ok)
	require.Equal(t, "notes.txt", sel.Name, "tighter match ranks first")
}

func TestSearchClearRestoresFullList(t *testing.T) {
	m, _ := newTestModel(t,
		libEntry("a1", "doc.pdf"),
		libEntry("a2", "notes.txt"),
	)

	model, _ := m.applySearch("doc")
	m = model.(Model)
	require.Equal(t, 1, m.List.Len())

	model, _ = m.applySearch("")
	m = model.(Model)
	require.Empty(t, m.searchQuery)
	require.Equal(t, 2, m.List.Len())
}

func TestSearchKeyFlow(t *testing.T) {
	m, _ := newTestModel(t,
		libEntry("a1", "doc.pdf"),
		libEntry("a2", "notes.txt"),
	)

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = model.(Model)
	require.True(t, m.Input.IsVisible())

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("notes")})
	m = model.(Model)
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(Model)

	require.False(t, m.Input.IsVisible())
	require.Equal(t, "notes", m.searchQuery)
	require.Equal(t, 1, m.List.Len())

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = model.(Model)
	require.Empty(t, m.searchQuery)
	require.Equal(t, 2, m.List.Len())
}

func TestStoreChangesReachTheViewViaSubscription(t *testing.T) {
	m, store := newTestModel(t, libEntry("a1", "doc.pdf"))

	// The refresh in newTestModel already signalled once; drain it.
	msg := ListenStoreCmd(m.storeCh)()
	require.IsType(t, StoreChangedMsg{}, msg)

	require.NoError(t, store.Rename(context.Background(), "a1", "report.pdf"))
	msg = ListenStoreCmd(m.storeCh)()
	require.IsType(t, StoreChangedMsg{}, msg)

	model, cmd := m.Update(msg)
	m = model.(Model)
	require.NotNil(t, cmd, "the listener re-arms after every change")

	sel, ok := m.List.Selected()
	require.True(t, ok)
	require.Equal(t, "report.pdf", sel.Name)
}

func TestStoreSignalsCoalesce(t *testing.T) {
	m, store := newTestModel(t, libEntry("a1", "doc.pdf"), libEntry("a2", "img.png"))

	msg := ListenStoreCmd(m.storeCh)()
	require.IsType(t, StoreChangedMsg{}, msg)

	// A burst of mutations never blocks the store: the buffered channel
	// collapses them into one pending signal.
	require.NoError(t, store.Rename(context.Background(), "a1", "one.pdf"))
	require.NoError(t, store.Rename(context.Background(), "a1", "two.pdf"))
	require.NoError(t, store.Remove(context.Background(), "a2"))

	msg = ListenStoreCmd(m.storeCh)()
	require.IsType(t, StoreChangedMsg{}, msg)

	model, _ := m.Update(msg)
	m = model.(Model)
	require.Equal(t, 1, m.List.Len())
	sel, _ := m.List.Selected()
	require.Equal(t, "two.pdf", sel.Name)
}
