package pdfgen

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGotenbergConvertHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forms/chromium/convert/html", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "u", user)
		assert.Equal(t, "p", pass)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		for _, f := range []string{"marginTop", "marginBottom", "marginLeft", "marginRight"} {
			assert.Equal(t, "0", r.FormValue(f), f)
		}
		assert.Equal(t, "print", r.FormValue("emulatedMediaType"))

		files := r.MultipartForm.File["files"]
		require.Len(t, files, 1)
		assert.Equal(t, "index.html", files[0].Filename)
		f, err := files[0].Open()
		require.NoError(t, err)
		b, _ := io.ReadAll(f)
		assert.Equal(t, "<html>x</html>", string(b))

		_, _ = w.Write([]byte("%PDF-1.7"))
	}))
	defer srv.Close()

	out, err := NewGotenbergClient(srv.URL+"/", "u", "p").ConvertHTML(context.Background(), []byte("<html>x</html>"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(out))
}

func TestGotenbergMergeKeepsOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forms/pdfengines/merge", r.URL.Path)
		_, _, ok := r.BasicAuth()
		assert.False(t, ok)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		var names []string
		for _, fh := range r.MultipartForm.File["files"] {
			names = append(names, fh.Filename)
		}
		assert.Equal(t, []string{"001.pdf", "002.pdf", "003.pdf"}, names)
		_, _ = w.Write([]byte("%PDF-merged"))
	}))
	defer srv.Close()

	out, err := NewGotenbergClient(srv.URL, "", "").Merge(context.Background(), [][]byte{[]byte("a"), []byte("b"), []byte("c")})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-merged", string(out))
}

func TestGotenbergErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chromium crashed", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewGotenbergClient(srv.URL, "", "").ConvertHTML(context.Background(), []byte("<html></html>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "chromium crashed")
}
