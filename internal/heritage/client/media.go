// Package client provides HTTP client functionality for the heritage API
package client

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
)

// ListHeritageMedia lists the media attached to an item.
func (c *Client) ListHeritageMedia(ctx context.Context, heritageID string) (*Envelope[*MediaList], error) {
	env, err := DoJSON[*MediaList](ctx, c, Request{
		Method: http.MethodGet,
		Path:   "/heritage/" + url.PathEscape(heritageID) + "/media",
	})
	if err != nil {
		return nil, fmt.Errorf("listing media for %q: %w", heritageID, err)
	}
	return env, nil
}

// DownloadMedia fetches the bytes of a media file. Variant selects a
// rendition such as "thumbnail" or "original"; empty means original.
func (c *Client) DownloadMedia(ctx context.Context, mediaID, variant string) (*Envelope[[]byte], error) {
	env, err := c.DoBytes(ctx, Request{
		Method:  http.MethodGet,
		Path:    "/media/" + url.PathEscape(mediaID) + "/file",
		Query:   map[string]any{"variant": optString(variant)},
		Headers: map[string]string{"Accept": "*/*"},
	})
	if err != nil {
		return nil, fmt.Errorf("downloading media %q: %w", mediaID, err)
	}
	return env, nil
}

// UploadMedia contributes a media file to an item as multipart/form-data.
func (c *Client) UploadMedia(ctx context.Context, heritageID string, upload MediaUpload) (*Envelope[*MediaItem], error) {
	form, err := NewFormData(func(w *multipart.Writer) error {
		fields := [][2]string{
			{"title", upload.Title},
			{"creator", upload.Creator},
			{"license", upload.License},
		}
		for _, f := range fields {
			if f[1] == "" {
				continue
			}
			if err := w.WriteField(f[0], f[1]); err != nil {
				return err
			}
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, upload.Filename))
		contentType := upload.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return err
		}
		_, err = part.Write(upload.Data)
		return err
	})
	if err != nil {
		return nil, err
	}

	env, err := DoJSON[*MediaItem](ctx, c, Request{
		Method: http.MethodPost,
		Path:   "/heritage/" + url.PathEscape(heritageID) + "/media",
		Body:   form,
	})
	if err != nil {
		return nil, fmt.Errorf("uploading media to %q: %w", heritageID, err)
	}
	return env, nil
}
