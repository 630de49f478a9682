package fileservice

import "encoding/json"

// fileRecord is one entry as reported by GET /files. Size arrives
// pre-formatted ("2.40 MB"); lastModified is ISO-8601.
type fileRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Path         string `json:"path,omitempty"`
	Type         string `json:"type"`
	Size         string `json:"size,omitempty"`
	Owner        string `json:"owner,omitempty"`
	LastModified string `json:"lastModified,omitempty"`
	ItemCount    int    `json:"itemCount,omitempty"`
	URL          string `json:"url,omitempty"`
}

// listResponse is the wrapped form of the list payload. Some deployments
// return the bare array instead; decodeList accepts both.
type listResponse struct {
	Files []fileRecord `json:"files"`
}

func decodeList(body []byte) ([]fileRecord, error) {
	var wrapped listResponse
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Files != nil {
		return wrapped.Files, nil
	}

	var bare []fileRecord
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, err
	}
	return bare, nil
}

// uploadResult is the per-file verdict inside the upload response.
// Unlike fileRecord, size here is a raw byte count.
type uploadResult struct {
	Status      string `json:"status"` // "success" or "error"
	Filename    string `json:"filename"`
	ID          string `json:"id,omitempty"`
	URL         string `json:"url,omitempty"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	UploadedAt  string `json:"uploaded_at,omitempty"`
	Path        string `json:"path,omitempty"`
	Error       string `json:"error,omitempty"`
}

type uploadResponse struct {
	Files []uploadResult `json:"files"`
}

// errorResponse covers both error payload shapes the service emits:
// {"status":"error","message":...,"error":...} and {"error":...}.
type errorResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (e errorResponse) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
