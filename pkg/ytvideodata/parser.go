package ytvideodata

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"golang.org/x/net/html"
)

var lengthSecondsRe = regexp.MustCompile(`"lengthSeconds"\s*:\s*"(\d+)"`)

func getFromPage(ctx context.Context, videoId string) (*VideoData, error) {
	doc, err := getPage(ctx, videoId)
	if err != nil {
		return nil, err
	}

	var videoData VideoData
	videoData.Title = getTitle(doc)
	videoData.ThumbnailUrl = fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", videoId)
	videoData.AuthorName = getLinkContent(doc)
	videoData.Duration = getLengthSeconds(doc)
	return &videoData, nil
}

func getDuration(ctx context.Context, videoId string) (int, error) {
	doc, err := getPage(ctx, videoId)
	if err != nil {
		return 0, err
	}

	return getLengthSeconds(doc), nil
}

func getPage(ctx context.Context, videoId string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://youtu.be/"+videoId, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return html.Parse(resp.Body)
}

func getTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
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
	if n.Type == html.ElementNode && n.Data == "link" {
		for _, attr := range n.Attr {
			if attr.Key == "itemprop" && attr.Val == "name" {
				for _, attr := range n.Attr {
					if attr.Key == "content" {
						return attr.Val
					}
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if content := getLinkContent(c); content != "" {
			return content
		}
	}
	return ""
}

// getLengthSeconds scans inline player config scripts for the video
// duration.
func getLengthSeconds(n *html.Node) int {
	if n.Type == html.ElementNode && n.Data == "script" && n.FirstChild != nil {
		if m := lengthSecondsRe.FindStringSubmatch(n.FirstChild.Data); m != nil {
			seconds, _ := strconv.Atoi(m[1])
			return seconds
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if seconds := getLengthSeconds(c); seconds != 0 {
			return seconds
		}
	}
	return 0
}
