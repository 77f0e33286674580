package ytvideodata

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/net/html"
)

func (c *Client) getFromPage(ctx context.Context, videoID string) (*VideoData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.PageURL+videoID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	return &VideoData{
		Title:        getTitle(doc),
		AuthorName:   getLinkContent(doc),
		ThumbnailURL: fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", videoID),
	}, nil
}

func getTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
		return n.FirstChild.Data
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := getTitle(c); title != "" {
			return title
		}
	}
	return ""
}

func getLinkContent(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "link" && attr(n, "itemprop") == "name" {
		return attr(n, "content")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if content := getLinkContent(c); content != "" {
			return content
		}
	}
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
