package library

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"shelf/internal/domain"
)

// fakeService is an in-memory stand-in for the remote file service.
type fakeService struct {
	mu      sync.Mutex
	entries []domain.Entry

	listErr   error
	deleteErr error

	listCalls   int
	deleteCalls int

	// When set, List signals listStarted then blocks until listRelease
	// closes. Used to exercise refresh serialization.
	listStarted chan struct{}
	listRelease chan struct{}
}

func (f *fakeService) List(ctx context.Context) ([]domain.Entry, error) {
	f.mu.Lock()
	f.listCalls++
	started, release := f.listStarted, f.listRelease
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
		<-release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Entry, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

func (f *fakeService) Upload(ctx context.Context, collection string, files []domain.LocalFile) ([]domain.FileResult, error) {
	return nil, nil
}

func (f *fakeService) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, e := range f.entries {
		if e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return domain.ErrEntryNotFound
}

// fakeCache records snapshot writes.
type fakeCache struct {
	mu      sync.Mutex
	entries []domain.Entry
	saved   bool
	saveErr error
}

func (c *fakeCache) GetEntries() ([]domain.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.saved {
		return nil, false
	}
	return c.entries, true
}

func (c *fakeCache) SaveEntries(entries []domain.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saveErr != nil {
		return c.saveErr
	}
	c.entries = entries
	c.saved = true
	return nil
}

func (c *fakeCache) Close() error { return nil }

func entry(id, name string) domain.Entry {
	return domain.Entry{ID: id, Name: name, Kind: domain.KindFile, SizeLabel: "1.00 KB", Owner: "You"}
}

func TestRefreshReplacesListInServerOrder(t *testing.T) {
	svc := &fakeService{entries: []domain.Entry{entry("b", "beta.txt"), entry("a", "alpha.txt")}}
	store := NewStore(svc, nil, nil)

	require.NoError(t, store.Refresh(context.Background()))

	got := store.Entries()
	require.Len(t, got, 2)
	require.Equal(t, "b", got[0].ID)
	require.Equal(t, "a", got[1].ID)
}

func TestRefreshIdempotent(t *testing.T) {
	svc := &fakeService{entries: []domain.Entry{entry("a1", "doc.pdf")}}
	store := NewStore(svc, nil, nil)

	require.NoError(t, store.Refresh(context.Background()))
	first := store.Entries()

	require.NoError(t, store.Refresh(context.Background()))
	second := store.Entries()

	require.Equal(t, first, second)
}

func TestRefreshFailureKeepsPreviousList(t *testing.T) {
	svc := &fakeService{entries: []domain.Entry{entry("a1", "doc.pdf")}}
	store := NewStore(svc, nil, nil)
	require.NoError(t, store.Refresh(context.Background()))

	svc.mu.Lock()
	svc.listErr = domain.ErrServiceUnavailable
	svc.mu.Unlock()

	err := store.Refresh(context.Background())
	require.ErrorIs(t, err, domain.ErrServiceUnavailable)
	require.Len(t, store.Entries(), 1)
}

func TestRefreshSerialized(t *testing.T) {
	svc := &fakeService{
		entries:     []domain.Entry{entry("a1", "doc.pdf")},
		listStarted: make(chan struct{}, 1),
		listRelease: make(chan struct{}),
	}
	store := NewStore(svc, nil, nil)

	done := make(chan error, 1)
	go func() {
		done <- store.Refresh(context.Background())
	}()

	// Wait for the first refresh to reach the network call
	<-svc.listStarted

	// A second refresh while one is in flight is a no-op, not a second fetch
	require.NoError(t, store.Refresh(context.Background()))

	close(svc.listRelease)
	require.NoError(t, <-done)

	svc.mu.Lock()
	calls := svc.listCalls
	svc.mu.Unlock()
	require.Equal(t, 1, calls)
}

func TestRemoveServerConfirmed(t *testing.T) {
	svc := &fakeService{entries: []domain.Entry{entry("a1", "doc.pdf")}}
	store := NewStore(svc, nil, nil)
	require.NoError(t, store.Refresh(context.Background()))

	require.NoError(t, store.Remove(context.Background(), "a1"))
	require.Empty(t, store.Entries())
}

func TestRemoveFailureLeavesEntry(t *testing.T) {
	svc := &fakeService{
		entries:   []domain.Entry{entry("a1", "doc.pdf")},
		deleteErr: domain.ErrDeleteFailed,
	}
	store := NewStore(svc, nil, nil)
	require.NoError(t, store.Refresh(context.Background()))

	err := store.Remove(context.Background(), "a1")
	require.ErrorIs(t, err, domain.ErrDeleteFailed)
	require.Len(t, store.Entries(), 1)
}

func TestRenameValidation(t *testing.T) {
	svc := &fakeService{entries: []domain.Entry{entry("a1", "doc.pdf")}}
	store := NewStore(svc, nil, nil)
	require.NoError(t, store.Refresh(context.Background()))

	for _, bad := range []string{"", "   "} {
		err := store.Rename(context.Background(), "a1", bad)
		require.ErrorIs(t, err, domain.ErrInvalidName)
	}
	require.Equal(t, "doc.pdf", store.Entries()[0].Name)
}

func TestRenameUnknownID(t *testing.T) {
	svc := &fakeService{}
	store := NewStore(svc, nil, nil)

	err := store.Rename(context.Background(), "ghost", "new name")
	require.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestRenameTrimsAndUpdates(t *testing.T) {
	svc := &fakeService{entries: []domain.Entry{entry("a1", "doc.pdf")}}
	store := NewStore(svc, nil, nil)
	require.NoError(t, store.Refresh(context.Background()))

	require.NoError(t, store.Rename(context.Background(), "a1", "  report.pdf  "))
	require.Equal(t, "report.pdf", store.Entries()[0].Name)
}

func TestAddEntriesAppendsThenRefreshes(t *testing.T) {
	// The server already knows about the uploaded entry; the follow-up
	// refresh converges the local list on the server's view.
	svc := &fakeService{entries: []domain.Entry{entry("a1", "doc.pdf"), entry("n1", "new.txt")}}
	store := NewStore(svc, nil, nil)

	store.AddEntries(context.Background(), []domain.Entry{entry("n1", "new.txt")})

	got := store.Entries()
	require.Len(t, got, 2)
	require.Equal(t, "a1", got[0].ID)
	require.Equal(t, "n1", got[1].ID)

	svc.mu.Lock()
	calls := svc.listCalls
	svc.mu.Unlock()
	require.Equal(t, 1, calls)
}

func TestAddEntriesKeepsAppendWhenRefreshFails(t *testing.T) {
	svc := &fakeService{listErr: domain.ErrServiceUnavailable}
	store := NewStore(svc, nil, nil)

	store.AddEntries(context.Background(), []domain.Entry{entry("n1", "new.txt")})

	got := store.Entries()
	require.Len(t, got, 1)
	require.Equal(t, "n1", got[0].ID)
}

func TestAddEntriesReplacesReissuedID(t *testing.T) {
	svc := &fakeService{entries: []domain.Entry{entry("a1", "old.pdf")}}
	store := NewStore(svc, nil, nil)
	require.NoError(t, store.Refresh(context.Background()))

	// The follow-up refresh fails, so the merged state must hold the
	// unique-id invariant on its own.
	svc.mu.Lock()
	svc.listErr = domain.ErrServiceUnavailable
	svc.mu.Unlock()

	store.AddEntries(context.Background(), []domain.Entry{entry("a1", "new.pdf")})

	got := store.Entries()
	require.Len(t, got, 1, "a re-issued id replaces the old entry, never duplicates it")
	require.Equal(t, "new.pdf", got[0].Name)
}

func TestScenarioRefreshThenDelete(t *testing.T) {
	svc := &fakeService{entries: []domain.Entry{entry("a1", "doc.pdf")}}
	store := NewStore(svc, nil, nil)
	require.Empty(t, store.Entries())

	require.NoError(t, store.Refresh(context.Background()))
	got := store.Entries()
	require.Len(t, got, 1)
	require.Equal(t, "doc.pdf", got[0].Name)

	require.NoError(t, store.Remove(context.Background(), "a1"))
	require.Empty(t, store.Entries())
}

func TestSubscribeNotifiedOnMutations(t *testing.T) {
	svc := &fakeService{entries: []domain.Entry{entry("a1", "doc.pdf")}}
	store := NewStore(svc, nil, nil)

	var mu sync.Mutex
	notified := 0
	store.Subscribe(func() {
		mu.Lock()
		notified++
		mu.Unlock()
	})

	require.NoError(t, store.Refresh(context.Background()))
	require.NoError(t, store.Rename(context.Background(), "a1", "renamed.pdf"))
	require.NoError(t, store.Remove(context.Background(), "a1"))

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 3, notified)
}

func TestLoadCachedSeedsList(t *testing.T) {
	cached := &fakeCache{}
	require.NoError(t, cached.SaveEntries([]domain.Entry{entry("c1", "cached.txt")}))

	store := NewStore(&fakeService{}, cached, nil)
	require.True(t, store.LoadCached())
	require.Len(t, store.Entries(), 1)

	// The next successful refresh supersedes the seed entirely
	require.NoError(t, store.Refresh(context.Background()))
	require.Empty(t, store.Entries())
}

func TestRefreshWritesThroughToCache(t *testing.T) {
	cached := &fakeCache{}
	svc := &fakeService{entries: []domain.Entry{entry("a1", "doc.pdf")}}
	store := NewStore(svc, cached, nil)

	require.NoError(t, store.Refresh(context.Background()))

	got, ok := cached.GetEntries()
	require.True(t, ok)
	require.Len(t, got, 1)
	require.Equal(t, "a1", got[0].ID)
}
