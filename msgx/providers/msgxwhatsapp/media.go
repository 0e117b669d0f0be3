package msgxwhatsapp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/ridermall/riderbot/mediax"
	"github.com/ridermall/riderbot/msgx"
)

// Media downloads are capped; document photos are far below this
const maxMediaBytes = 25 << 20

// Fetch implements mediax.Resolver. Cloud API media is resolved in two
// steps: GET /{media-id} returns a short-lived download URL, which is
// then fetched with the same bearer token.
func (p *Provider) Fetch(ctx context.Context, mediaID string) (mediax.Media, error) {
	info, err := p.mediaInfo(ctx, mediaID)
	if err != nil {
		return mediax.Media{}, err
	}

	data, err := p.downloadMedia(ctx, info.URL)
	if err != nil {
		return mediax.Media{}, err
	}

	return mediax.Media{
		MediaID:  mediaID,
		MimeType: info.MimeType,
		Data:     data,
	}, nil
}

func (p *Provider) mediaInfo(ctx context.Context, mediaID string) (*waMediaInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.graphURL+"/"+mediaID, nil)
	if err != nil {
		return nil, mediaFetchFailed(err, mediaID, "create_request")
	}
	req.Header.Set("Authorization", "Bearer "+p.config.AccessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, mediaFetchFailed(err, mediaID, "resolve_url")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, msgx.Errors.New(msgx.ErrMediaFetchFailed).
			WithDetail("provider", providerName).
			WithDetail("media_id", mediaID).
			WithDetail("http_status", resp.StatusCode)
	}

	var info waMediaInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, mediaFetchFailed(err, mediaID, "decode_info")
	}
	if info.URL == "" {
		return nil, msgx.Errors.New(msgx.ErrMediaFetchFailed).
			WithDetail("provider", providerName).
			WithDetail("media_id", mediaID).
			WithDetail("reason", "empty download url")
	}
	return &info, nil
}

func (p *Provider) downloadMedia(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, mediaFetchFailed(err, url, "create_download_request")
	}
	// The lookaside URL requires the same bearer token as the Graph API
	req.Header.Set("Authorization", "Bearer "+p.config.AccessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, mediaFetchFailed(err, url, "download")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, msgx.Errors.New(msgx.ErrMediaFetchFailed).
			WithDetail("provider", providerName).
			WithDetail("http_status", resp.StatusCode).
			WithDetail("operation", "download")
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMediaBytes))
	if err != nil {
		return nil, mediaFetchFailed(err, url, "read_body")
	}
	return data, nil
}

func mediaFetchFailed(cause error, ref, operation string) error {
	return msgx.Errors.New(msgx.ErrMediaFetchFailed).
		WithCause(cause).
		WithDetail("provider", providerName).
		WithDetail("ref", ref).
		WithDetail("operation", operation)
}
