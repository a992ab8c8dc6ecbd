package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"blacksys/internal/config"
	"blacksys/internal/notifications"
)

type captured struct {
	title    string
	tags     string
	priority string
	body     string
}

func newServer(t *testing.T, status int) (*httptest.Server, *[]captured) {
	t.Helper()
	var got []captured
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = append(got, captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func serviceFor(url string) notifications.Service {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = url
	return notifications.NewService(&cfg)
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	svc := notifications.NewService(&cfg)
	if err := svc.Publish(context.Background(), notifications.EventTest, nil); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestPublishFormatsEvents(t *testing.T) {
	tests := []struct {
		name     string
		event    notifications.Event
		payload  notifications.Payload
		title    string
		body     string
		tags     string
		priority string
	}{
		{
			name:    "batch ok",
			event:   notifications.EventBatchCompleted,
			payload: notifications.Payload{"albums": 3, "failed": 0, "duration": 90 * time.Second},
			title:   "blacksys - Transcode Complete",
			body:    "Transcoded 3 albums in 1m30s",
			tags:    "blacksys,transcode,completed",
		},
		{
			name:     "batch with failures",
			event:    notifications.EventBatchCompleted,
			payload:  notifications.Payload{"albums": 3, "failed": 1, "runID": "r-1"},
			title:    "blacksys - Transcode Finished With Failures",
			body:     "1 of 3 albums failed (run r-1)",
			tags:     "blacksys,transcode,warning",
			priority: "high",
		},
		{
			name:    "download",
			event:   notifications.EventDownloadCompleted,
			payload: notifications.Payload{"game": "Portal", "platforms": 2},
			title:   "blacksys - Download Complete",
			body:    "Downloaded Portal (2 platforms)",
			tags:    "blacksys,steam,completed",
		},
		{
			name:     "error",
			event:    notifications.EventError,
			payload:  notifications.Payload{"context": "steam download", "error": errors.New("login rejected")},
			title:    "blacksys - Error",
			body:     "steam download failed: login rejected",
			tags:     "blacksys,error",
			priority: "high",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv, got := newServer(t, http.StatusOK)
			if err := serviceFor(srv.URL).Publish(context.Background(), tc.event, tc.payload); err != nil {
				t.Fatalf("Publish: %v", err)
			}
			if len(*got) != 1 {
				t.Fatalf("expected one request, got %d", len(*got))
			}
			c := (*got)[0]
			if c.title != tc.title || c.body != tc.body || c.tags != tc.tags || c.priority != tc.priority {
				t.Fatalf("unexpected request %+v", c)
			}
		})
	}
}

func TestPublishReportsServerErrors(t *testing.T) {
	srv, _ := newServer(t, http.StatusForbidden)
	err := serviceFor(srv.URL).Publish(context.Background(), notifications.EventTest, nil)
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected 403 error, got %v", err)
	}
}

func TestPublishRejectsUnknownEvent(t *testing.T) {
	srv, got := newServer(t, http.StatusOK)
	if err := serviceFor(srv.URL).Publish(context.Background(), notifications.Event("nope"), nil); err == nil {
		t.Fatal("expected unknown event error")
	}
	if len(*got) != 0 {
		t.Fatal("unknown event must not be sent")
	}
}
