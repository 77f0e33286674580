package ytvideodata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type VideoData struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type Client struct {
	httpClient *http.Client
	// OEmbedURL is the oEmbed endpoint, PageURL the base the video id is appended to.
	OEmbedURL string
	PageURL   string
}

func New() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		OEmbedURL:  "https://www.youtube.com/oembed",
		PageURL:    "https://youtu.be/",
	}
}

// Get returns metadata for videoID, falling back to scraping the watch page when
// the video does not allow embedding lookups.
func (c *Client) Get(ctx context.Context, videoID string) (*VideoData, error) {
	videoData, err := c.getWithEmbed(ctx, videoID)
	if err != nil {
		if !errors.Is(err, ErrVideoNotEmbeddable) {
			return nil, fmt.Errorf("failed to get video data with embed: %w", err)
		}

		videoData, err = c.getFromPage(ctx, videoID)
		if err != nil {
			return nil, fmt.Errorf("failed to get video data from page: %w", err)
		}
	}

	videoData.VideoID = videoID
	return videoData, nil
}
