package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"ArticlesEnhancer/internal/domain"
)

func TestPublishEnhancedPostsForm(t *testing.T) {
	t.Parallel()

	type call struct {
		path string
		form url.Values
	}
	calls := make(chan call, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		calls <- call{path: r.URL.Path, form: r.PostForm}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewNotifier("token", "-100").WithAPIBase(server.URL + "/")
	article := domain.Article{ID: "1", Title: "Chatbots", SourceURL: "https://blog.example/chatbots", Version: domain.EnhancedVersion}

	if err := notifier.PublishEnhanced(context.Background(), article); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got := <-calls
	if got.path != "/bottoken/sendMessage" {
		t.Fatalf("unexpected path %q", got.path)
	}
	if got.form.Get("chat_id") != "-100" {
		t.Fatalf("unexpected chat id %q", got.form.Get("chat_id"))
	}
	want := "Article enhanced (v2): Chatbots\nhttps://blog.example/chatbots"
	if got.form.Get("text") != want {
		t.Fatalf("unexpected text %q", got.form.Get("text"))
	}
}

func TestPublishEnhancedErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	if err := NewNotifier("token", "chat").WithAPIBase(server.URL).PublishEnhanced(context.Background(), domain.Article{}); err == nil {
		t.Fatal("expected error for non-200 status")
	}
	if err := NewNotifier("", "chat").PublishEnhanced(context.Background(), domain.Article{}); err == nil {
		t.Fatal("expected error for missing token")
	}
}
