// Package drive talks to the Google Drive API on behalf of a signed-in user.
package drive

import (
	"context"
	"io"

	"golang.org/x/oauth2"
)

// File is the subset of Drive file metadata the viewer needs.
type File struct {
	ID          string
	Title       string
	MimeType    string
	DownloadURL string
	FileSize    int64
}

// Client reads files from the storage API.
// Failures reported by the API are *apperrors.Error values carrying the upstream status.
type Client interface {
	// GetMetadata fetches the metadata of fileID.
	GetMetadata(ctx context.Context, fileID string) (*File, error)
	// OpenDownload opens a stream of the file's bytes. Callers must close it.
	OpenDownload(ctx context.Context, file *File) (io.ReadCloser, error)
}

// ClientFactory builds a Client authorized by token.
type ClientFactory func(ctx context.Context, token *oauth2.Token) (Client, error)
