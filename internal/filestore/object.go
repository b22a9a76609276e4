package filestore

import "time"

// ObjectInfo is the metadata of one stored object or listing entry.
type ObjectInfo struct {
	Key          string
	Size         int64 // -1 when the backend did not report it
	ContentType  string
	ETag         string
	LastModified time.Time
	Metadata     map[string]string // user metadata set at upload

	// IsDir marks a common-prefix entry from a non-recursive listing.
	IsDir bool
}

// PutOptions are the upload settings for PutObject.
type PutOptions struct {
	ContentType string // defaults to application/octet-stream
	Metadata    map[string]string
}

// ListOptions narrows a ListObjects call.
type ListOptions struct {
	Prefix string

	// Recursive walks every key below Prefix. Otherwise each next-level
	// "folder" comes back once as an IsDir entry.
	Recursive bool

	// Limit stops the listing after this many entries; 0 means no cap.
	Limit int
}
