package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{"ARTICLE_ENHANCER_CONFIG", "LARAVEL_API", "ARTICLE_STORE_URL", "STORE_DRIVER", "AI_PROVIDER", "TELEGRAM_BOT_TOKEN"} {
		t.Setenv(key, "")
	}

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestResearchCommandPrintsSnippets(t *testing.T) {
	article := "<html><body><nav>menu</nav><p>" + strings.Repeat("Chatbots answer questions. ", 10) + "</p></body></html>"
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, article)
	}))
	defer site.Close()

	searchPage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `<html><body><a href="/url?q=%s/guide&amp;sa=U">guide</a></body></html>`, site.URL)
	}))
	defer searchPage.Close()

	path := writeConfig(t, fmt.Sprintf("research:\n  engine: google\n  endpoint: %s/search\n", searchPage.URL))

	out, err := execute(t, "--config", path, "--log-level", "error", "research", "AI", "chatbots")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Source ("+site.URL+"/guide): Chatbots answer questions."), out)
	assert.NotContains(t, out, "menu")
}

func TestCycleCommandReportsIdle(t *testing.T) {
	store := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"id": 1, "title": "done", "ai_content": "<p>x</p>", "version": 2}]`)
	}))
	defer store.Close()

	path := writeConfig(t, fmt.Sprintf("store:\n  driver: http\n  url: %s\ngemini:\n  apiKey: test-key\n", store.URL))

	out, err := execute(t, "--config", path, "--log-level", "error", "cycle")
	require.NoError(t, err)
	assert.Contains(t, out, ": idle")
}

func TestCycleCommandFailsWhenStoreIsDown(t *testing.T) {
	store := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer store.Close()

	path := writeConfig(t, fmt.Sprintf("store:\n  url: %s\ngemini:\n  apiKey: test-key\n", store.URL))

	out, err := execute(t, "--config", path, "--log-level", "error", "cycle")
	require.Error(t, err)
	assert.Contains(t, out, "store_unavailable")
}

func TestResearchCommandRequiresTopic(t *testing.T) {
	_, err := execute(t, "research")
	assert.Error(t, err)
}
