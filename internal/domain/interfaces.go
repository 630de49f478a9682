package domain

import "context"

// LocalFile is a file on disk staged for upload.
type LocalFile struct {
	Name string // display name sent to the service
	Path string // absolute or working-dir relative path
	Size int64
}

// FileResult is the service's per-file verdict for one uploaded file.
// A single batch may mix successes and failures.
type FileResult struct {
	Filename string
	OK       bool
	Reason   string // populated when !OK
	Entry    Entry  // populated when OK
}

// FileService is the remote file service the library syncs against.
type FileService interface {
	// List returns the full current entry set, in server order.
	List(ctx context.Context) ([]Entry, error)

	// Upload posts all files in one multipart request against the given
	// collection and returns one FileResult per file, in request order.
	Upload(ctx context.Context, collection string, files []LocalFile) ([]FileResult, error)

	// Delete removes the entry with the given server id.
	Delete(ctx context.Context, id string) error
}

// Cache is the durable snapshot of the entry list. It only bridges
// restarts between refreshes and is never authoritative.
type Cache interface {
	GetEntries() ([]Entry, bool)
	SaveEntries(entries []Entry) error
	Close() error
}
