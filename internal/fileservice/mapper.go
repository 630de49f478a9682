package fileservice

import (
	"time"

	"github.com/google/uuid"

	"shelf/internal/domain"
)

// mapEntries converts list records to domain entries, preserving server order
func mapEntries(records []fileRecord, defaultOwner string) []domain.Entry {
	entries := make([]domain.Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, mapEntry(r, defaultOwner))
	}
	return entries
}

func mapEntry(r fileRecord, defaultOwner string) domain.Entry {
	entry := domain.Entry{
		ID:           r.ID,
		Name:         r.Name,
		Kind:         domain.KindFile,
		SizeLabel:    r.Size,
		Owner:        r.Owner,
		LastModified: r.LastModified,
		ItemCount:    r.ItemCount,
		RemoteURL:    r.URL,
	}

	if r.Type == "folder" {
		entry.Kind = domain.KindFolder
		entry.SizeLabel = domain.FolderSizePlaceholder
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Owner == "" {
		entry.Owner = defaultOwner
	}
	if entry.LastModified == "" {
		entry.LastModified = domain.Timestamp(time.Now())
	}

	return entry
}

// mapUploadResults converts per-file upload verdicts to domain results.
// Succeeded files become full entries ready for the library.
func mapUploadResults(results []uploadResult, defaultOwner string) []domain.FileResult {
	out := make([]domain.FileResult, 0, len(results))
	for _, r := range results {
		if r.Status != "success" {
			reason := r.Error
			if reason == "" {
				reason = "upload rejected"
			}
			out = append(out, domain.FileResult{Filename: r.Filename, Reason: reason})
			continue
		}

		entry := domain.Entry{
			ID:           r.ID,
			Name:         r.Filename,
			Kind:         domain.KindFile,
			SizeLabel:    domain.FormatSize(r.Size),
			Owner:        defaultOwner,
			LastModified: r.UploadedAt,
			RemoteURL:    r.URL,
		}
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		if entry.LastModified == "" {
			entry.LastModified = domain.Timestamp(time.Now())
		}

		out = append(out, domain.FileResult{Filename: r.Filename, OK: true, Entry: entry})
	}
	return out
}
