package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"game_inventory/internal/storage/uploads"
)

// WikiGame is what the infobox of a game article yields.
type WikiGame struct {
	Title     string
	Developer string
	Year      string
	ImageURL  string
	PageURL   string
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

var yearRe = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

// FindGameWiki resolves a game name to its article URL through the
// opensearch API, taking the first hit.
func FindGameWiki(ctx context.Context, name string) (string, error) {
	searchURL := "https://en.wikipedia.org/w/api.php?action=opensearch&format=json&formatversion=2&namespace=0&limit=10&search=" + url.QueryEscape(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	// opensearch responds [query, titles, descriptions, links]
	var data []any
	if err := json.Unmarshal(body, &data); err != nil {
		return "", err
	}
	if len(data) < 4 {
		return "", fmt.Errorf("no results for %s", name)
	}

	links, ok := data[3].([]any)
	if !ok || len(links) == 0 {
		return "", fmt.Errorf("no results for %s", name)
	}

	firstLink, ok := links[0].(string)
	if !ok {
		return "", fmt.Errorf("no article link for %s", name)
	}

	return firstLink, nil
}

// ParseGameWiki scrapes the infobox of a game article.
func ParseGameWiki(ctx context.Context, pageURL string) (*WikiGame, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	infobox := doc.Find("table.infobox").First()
	if infobox.Length() == 0 {
		return nil, fmt.Errorf("no infobox at %s", pageURL)
	}

	game := &WikiGame{PageURL: pageURL}

	title := infobox.Find("th.infobox-above").Text()
	game.Title = strings.Join(strings.Fields(title), " ")

	if selection := infobox.Find("th:contains('Developer')"); selection.Length() > 0 {
		game.Developer = firstLine(selection.Next().Text())
	}

	if imgSrc, ok := infobox.Find("td.infobox-image img").Attr("src"); ok && imgSrc != "" {
		if strings.HasPrefix(imgSrc, "//") {
			imgSrc = "https:" + imgSrc
		}
		game.ImageURL = imgSrc
	}

	var releaseText string
	if selection := infobox.Find("th:contains('Release')"); selection.Length() > 0 {
		releaseText = selection.Next().Text()
	}
	if match := yearRe.FindString(releaseText); match != "" {
		game.Year = match
	}

	if game.Title == "" {
		return nil, fmt.Errorf("no title at %s", pageURL)
	}

	return game, nil
}

// DownloadPicture fetches an image URL and stores it in the picture store
// under a generated filename, which it returns.
func DownloadPicture(ctx context.Context, imageURL string, store uploads.IUploads) (string, error) {
	if imageURL == "" {
		return "", errors.New("image url is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download image: %s", resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("unexpected content type: %s", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	filename := uuid.New().String() + extFromContentType(contentType)
	if err := store.SavePicture(data, filename); err != nil {
		return "", err
	}

	return filename, nil
}

func extFromContentType(contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "gif"):
		return ".gif"
	case strings.Contains(contentType, "webp"):
		return ".webp"
	case strings.Contains(contentType, "svg"):
		return ".svg"
	default:
		return ".jpg"
	}
}

// infobox cells often stack several credited companies; the first one is
// the headline credit.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
