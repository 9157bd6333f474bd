package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/oszuidwest/zwfm-directviewer/internal/apperrors"
)

// metadataFields limits files.get responses to what File carries.
var metadataFields = []googleapi.Field{"id", "title", "mimeType", "downloadUrl", "fileSize"}

// GoogleClient implements Client with the Drive v2 API.
type GoogleClient struct {
	svc  *drive.Service
	http *http.Client
}

// NewGoogleClient wraps an already authorized HTTP client.
// Extra options are mostly useful to point the client at a test server.
func NewGoogleClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*GoogleClient, error) {
	all := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := drive.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &GoogleClient{svc: svc, http: httpClient}, nil
}

// NewGoogleClientFactory returns a ClientFactory that authorizes every client
// with the user's token through oauthCfg, refreshing it when it has expired.
// A token that has expired and cannot be refreshed is rejected as a 401.
func NewGoogleClientFactory(oauthCfg *oauth2.Config, opts ...option.ClientOption) ClientFactory {
	return func(ctx context.Context, token *oauth2.Token) (Client, error) {
		if token == nil || (!token.Valid() && token.RefreshToken == "") {
			return nil, apperrors.Upstream(http.StatusUnauthorized, "Invalid Credentials").
				WithInternal("token expired and no refresh token is set")
		}
		return NewGoogleClient(ctx, oauthCfg.Client(ctx, token), opts...)
	}
}

func (c *GoogleClient) GetMetadata(ctx context.Context, fileID string) (*File, error) {
	f, err := c.svc.Files.Get(fileID).Fields(metadataFields...).Context(ctx).Do()
	if err != nil {
		return nil, classify(err)
	}
	if f == nil {
		return nil, nil
	}
	return &File{
		ID:          f.Id,
		Title:       f.Title,
		MimeType:    f.MimeType,
		DownloadURL: f.DownloadUrl,
		FileSize:    f.FileSize,
	}, nil
}

// OpenDownload follows the file's downloadUrl. Files without one (Drive only
// hands it out for binary content) are fetched with alt=media instead.
func (c *GoogleClient) OpenDownload(ctx context.Context, file *File) (io.ReadCloser, error) {
	if file.DownloadURL == "" {
		resp, err := c.svc.Files.Get(file.ID).Context(ctx).Download()
		if err != nil {
			return nil, classify(err)
		}
		return resp.Body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.DownloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid download url: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download request failed: %w", err)
	}
	if err := googleapi.CheckResponse(resp); err != nil {
		_ = resp.Body.Close()
		return nil, classify(err)
	}
	return resp.Body, nil
}

// classify turns Drive API errors into apperrors carrying the upstream status.
// A refresh the token endpoint refuses counts as a 401.
func classify(err error) error {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return apperrors.Upstream(http.StatusUnauthorized, "Invalid Credentials").WithInternal("token refresh: %s", rerr.Body).Wrap(err)
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("drive request failed: %w", err)
	}

	message := gerr.Message
	if message == "" {
		message = http.StatusText(gerr.Code)
	}
	return apperrors.Upstream(gerr.Code, message).WithInternal("%s", gerr.Body).Wrap(err)
}
