package handlers

import (
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/oszuidwest/zwfm-directviewer/internal/api/responses"
	"github.com/oszuidwest/zwfm-directviewer/internal/apperrors"
	"github.com/oszuidwest/zwfm-directviewer/internal/drive"
	"github.com/oszuidwest/zwfm-directviewer/pkg/logger"
)

// copyChunkSize is the buffer size used to relay file content.
const copyChunkSize = 1024

// StreamFile relays the bytes of a Drive file to the browser with the file's
// own content type.
//
// An upstream 401 means the stored token was revoked: it is deleted so the next
// page load starts a fresh login, and the upstream status is passed through.
// Failures without a dedicated answer are attached to the context for the
// error middleware.
func (h *Handlers) StreamFile(c *gin.Context, token *oauth2.Token, fileID string) {
	if fileID == "" {
		responses.BadRequest(c, responses.MsgFileIDRequired)
		return
	}

	ctx := c.Request.Context()
	client, err := h.clients(ctx, token)
	if err != nil {
		h.upstreamFailure(c, fmt.Errorf("build storage client: %w", err))
		return
	}

	file, err := client.GetMetadata(ctx, fileID)
	if err != nil {
		h.upstreamFailure(c, fmt.Errorf("get metadata of %s: %w", fileID, err))
		return
	}
	if file == nil {
		responses.NotFound(c, responses.MsgFileNotFound)
		return
	}

	h.copyContent(c, client, file)
}

// upstreamFailure answers a failed storage call. A rejected credential is
// deleted and its status passed through; anything else goes to the error middleware.
func (h *Handlers) upstreamFailure(c *gin.Context, err error) {
	appErr, ok := apperrors.As(err)
	switch {
	case ok && appErr.Code == apperrors.CodeUnauthorized:
		h.auth.DeleteCredential(c)
		responses.Error(c, appErr.HTTPStatus(), appErr.Message)
	case ok && appErr.Code == apperrors.CodeNotFound:
		responses.NotFound(c, responses.MsgFileNotFound)
	default:
		_ = c.Error(err)
	}
}

func (h *Handlers) copyContent(c *gin.Context, client drive.Client, file *drive.File) {
	body, err := client.OpenDownload(c.Request.Context(), file)
	if err != nil {
		_ = c.Error(fmt.Errorf("open download of %s: %w", file.ID, err))
		return
	}
	defer func() {
		if err := body.Close(); err != nil {
			logger.Warn("Failed to close download of %s: %v", file.ID, err)
		}
	}()

	contentType := file.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	if file.Title != "" {
		c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": file.Title}))
	}
	c.Status(http.StatusOK)

	buf := make([]byte, copyChunkSize)
	if _, err := io.CopyBuffer(c.Writer, body, buf); err != nil {
		_ = c.Error(fmt.Errorf("stream %s: %w", file.ID, err))
		return
	}
	c.Writer.Flush()
}
