package domain

import (
	"fmt"
	"time"
)

// Kind identifies what an Entry represents.
type Kind string

const (
	KindFile   Kind = "file"
	KindFolder Kind = "folder"
)

// Entry is one row in the library: a file or folder record.
// The server-issued id is canonical; Name is a display field only.
type Entry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Kind         Kind   `json:"kind"`
	SizeLabel    string `json:"sizeLabel"`
	Owner        string `json:"owner"`
	LastModified string `json:"lastModified"`
	ItemCount    int    `json:"itemCount,omitempty"`
	RemoteURL    string `json:"remoteUrl,omitempty"`
}

// FolderSizePlaceholder is shown in the size column for folders.
const FolderSizePlaceholder = "—"

// FormatSize renders a byte count the way the service does ("2.40 MB").
func FormatSize(bytes int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
		gb = 1 << 30
	)
	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.2f GB", float64(bytes)/gb)
	case bytes >= mb:
		return fmt.Sprintf("%.2f MB", float64(bytes)/mb)
	case bytes >= kb:
		return fmt.Sprintf("%.2f KB", float64(bytes)/kb)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// Timestamp renders t as the ISO-8601 form used in LastModified.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
