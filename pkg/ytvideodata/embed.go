package ytvideodata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

var (
	ErrVideoNotFound      = errors.New("video not found")
	ErrVideoNotEmbeddable = errors.New("video is not embeddable")
)

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func (c *Client) getWithEmbed(ctx context.Context, videoID string) (*VideoData, error) {
	q := url.Values{}
	q.Set("url", "https://www.youtube.com/watch?v="+videoID)
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.OEmbedURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusBadRequest, http.StatusNotFound:
			return nil, ErrVideoNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, ErrVideoNotEmbeddable
		default:
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
	}

	var result oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode oembed response: %w", err)
	}

	return &VideoData{
		Title:        result.Title,
		AuthorName:   result.AuthorName,
		ThumbnailURL: result.ThumbnailURL,
	}, nil
}
