package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game_inventory/internal/storage/uploads"
)

const articleHTML = `<html><body>
<div class="mw-parser-output">
<table class="infobox">
<tbody>
<tr><th class="infobox-above">Chrono Trigger</th></tr>
<tr><td class="infobox-image"><img src="//upload.example.org/chrono.jpg"></td></tr>
<tr><th>Developer(s)</th><td>Square
Bird Studio</td></tr>
<tr><th>Release</th><td>JP: March 11, 1995</td></tr>
</tbody>
</table>
<p>Chrono Trigger is a role-playing game.</p>
</div>
</body></html>`

func TestParseGameWiki(t *testing.T) {
	t.Run("parses infobox", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(articleHTML))
		}))
		defer server.Close()

		game, err := ParseGameWiki(context.Background(), server.URL)
		require.NoError(t, err)

		assert.Equal(t, "Chrono Trigger", game.Title)
		assert.Equal(t, "Square", game.Developer)
		assert.Equal(t, "1995", game.Year)
		assert.Equal(t, "https://upload.example.org/chrono.jpg", game.ImageURL)
		assert.Equal(t, server.URL, game.PageURL)
	})

	t.Run("no infobox", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html><body><p>nothing here</p></body></html>"))
		}))
		defer server.Close()

		_, err := ParseGameWiki(context.Background(), server.URL)
		assert.Error(t, err)
	})

	t.Run("http error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer server.Close()

		_, err := ParseGameWiki(context.Background(), server.URL)
		assert.Error(t, err)
	})
}

func TestDownloadPicture(t *testing.T) {
	t.Run("saves image with extension from content type", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("png-bytes"))
		}))
		defer server.Close()

		store, err := uploads.NewUploads(t.TempDir())
		require.NoError(t, err)

		filename, err := DownloadPicture(context.Background(), server.URL, store)
		require.NoError(t, err)
		assert.Equal(t, ".png", filepath.Ext(filename))

		data, err := os.ReadFile(filepath.Join(store.Path(), filename))
		require.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), data)
	})

	t.Run("rejects non image content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		}))
		defer server.Close()

		store, err := uploads.NewUploads(t.TempDir())
		require.NoError(t, err)

		_, err = DownloadPicture(context.Background(), server.URL, store)
		assert.Error(t, err)
	})

	t.Run("empty url", func(t *testing.T) {
		store, err := uploads.NewUploads(t.TempDir())
		require.NoError(t, err)

		_, err = DownloadPicture(context.Background(), "", store)
		assert.Error(t, err)
	})
}

func TestExtFromContentType(t *testing.T) {
	assert.Equal(t, ".png", extFromContentType("image/png"))
	assert.Equal(t, ".gif", extFromContentType("image/gif"))
	assert.Equal(t, ".webp", extFromContentType("image/webp"))
	assert.Equal(t, ".jpg", extFromContentType("image/jpeg"))
}
