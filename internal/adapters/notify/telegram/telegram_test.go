package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifySendsToEveryChat(t *testing.T) {
	var mu sync.Mutex
	var chats []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "Nový dopyt BK-1", r.PostForm.Get("text"))
		assert.Equal(t, "1", r.PostForm.Get("disable_web_page_preview"))
		mu.Lock()
		chats = append(chats, r.PostForm.Get("chat_id"))
		mu.Unlock()
		if r.PostForm.Get("chat_id") == "bad" {
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	n := New("TOKEN", []string{"111", "bad", "222"})
	n.baseURL = srv.URL
	err := n.Notify(context.Background(), "Nový dopyt BK-1")
	assert.ErrorContains(t, err, "chat bad")
	assert.Equal(t, []string{"111", "bad", "222"}, chats)
}

func TestNotifyDisabled(t *testing.T) {
	assert.NoError(t, New("", []string{"1"}).Notify(context.Background(), "x"))
	assert.NoError(t, New("t", nil).Notify(context.Background(), "x"))
	var n *Notifier
	assert.False(t, n.Enabled())
}
