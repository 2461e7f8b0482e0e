package platforms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cruizviquez/multi-platform-blog-poster/internal/content"
)

func TestTwitterPublish(t *testing.T) {
	var gotPath, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var payload struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotText = payload.Text
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1234567890"}}`))
	}))
	defer server.Close()

	tw := NewTwitter(TwitterConfig{APIKey: "k", APISecret: "s", AccessToken: "t", AccessSecret: "ts", APIURL: server.URL}, newTestLogger())

	res := tw.Publish(context.Background(), content.Record{Content: "GPUs keep winning."})
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.ID != "1234567890" {
		t.Fatalf("unexpected tweet id %q", res.ID)
	}
	if gotPath != "/2/tweets" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotText != "GPUs keep winning." {
		t.Fatalf("unexpected tweet text %q", gotText)
	}
}

func TestTwitterPublishTruncatesTo280(t *testing.T) {
	var gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		gotText = payload.Text
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1"}}`))
	}))
	defer server.Close()

	tw := NewTwitter(TwitterConfig{APIURL: server.URL}, newTestLogger())
	res := tw.Publish(context.Background(), content.Record{Content: strings.Repeat("machine learning ", 40)})
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if n := len([]rune(gotText)); n > 280 {
		t.Fatalf("tweet exceeds 280 characters: %d", n)
	}
	if !strings.HasSuffix(gotText, "...") {
		t.Fatalf("truncated tweet must end with ellipsis, got %q", gotText)
	}
}

func TestTwitterPublishSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail":"duplicate content"}`))
	}))
	defer server.Close()

	tw := NewTwitter(TwitterConfig{APIURL: server.URL}, newTestLogger())
	res := tw.Publish(context.Background(), content.Record{Content: "hello"})
	if res.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(res.Error, "403") || !strings.Contains(res.Error, "duplicate content") {
		t.Fatalf("error must carry status and body, got %q", res.Error)
	}
}

func TestTwitterRecentTweets(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/2/users/me", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":"42"}}`))
	})
	mux.HandleFunc("/2/users/42/tweets", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("max_results"); got != "5" {
			t.Errorf("count below the API minimum must round up to 5, got %q", got)
		}
		_, _ = w.Write([]byte(`{"data":[{"id":"100","text":"newest"},{"id":"99","text":"older"}]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	tw := NewTwitter(TwitterConfig{APIURL: server.URL}, newTestLogger())
	tweets, err := tw.RecentTweets(context.Background(), 2)
	if err != nil {
		t.Fatalf("recent tweets: %v", err)
	}
	if len(tweets) != 2 || tweets[0].ID != "100" || tweets[1].Text != "older" {
		t.Fatalf("unexpected tweets %+v", tweets)
	}
}

func TestTwitterDeleteTweet(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"data":{"deleted":true}}`))
	}))
	defer server.Close()

	tw := NewTwitter(TwitterConfig{APIURL: server.URL}, newTestLogger())
	if err := tw.DeleteTweet(context.Background(), "12345"); err != nil {
		t.Fatalf("delete tweet: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/2/tweets/12345" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
}

func TestTwitterDeleteTweetUnconfirmed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"deleted":false}}`))
	}))
	defer server.Close()

	tw := NewTwitter(TwitterConfig{APIURL: server.URL}, newTestLogger())
	if err := tw.DeleteTweet(context.Background(), "12345"); err == nil {
		t.Fatal("unconfirmed deletion must error")
	}
}

func TestTwitterPublishMissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	tw := NewTwitter(TwitterConfig{APIURL: server.URL}, newTestLogger())
	if res := tw.Publish(context.Background(), content.Record{Content: "hello"}); res.Success {
		t.Fatal("missing id must not report success")
	}
}
