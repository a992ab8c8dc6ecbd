package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"blacksys/internal/config"
)

const userAgent = "blacksys/1"

// Event names a notification type.
type Event string

const (
	EventBatchCompleted     Event = "batch_completed"
	EventDownloadCompleted  Event = "download_completed"
	EventPackagingCompleted Event = "packaging_completed"
	EventError              Event = "error"
	EventTest               Event = "test"
)

// Payload carries the values an event message is built from.
type Payload map[string]any

// Service publishes events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds an ntfy-backed service, or a no-op one when
// notifications.ntfy_topic is empty.
func NewService(cfg *config.Config) Service {
	if cfg == nil || strings.TrimSpace(cfg.Notifications.NtfyTopic) == "" {
		return noopService{}
	}
	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: strings.TrimSpace(cfg.Notifications.NtfyTopic),
		client:   &http.Client{Timeout: timeout},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

func format(event Event, p Payload) (message, error) {
	switch event {
	case EventBatchCompleted:
		albums, failed := p.number("albums"), p.number("failed")
		msg := message{
			title: "blacksys - Transcode Complete",
			body:  fmt.Sprintf("Transcoded %d albums in %s", albums, p.elapsed("duration")),
			tags:  []string{"blacksys", "transcode", "completed"},
		}
		if failed > 0 {
			msg.title = "blacksys - Transcode Finished With Failures"
			msg.body = fmt.Sprintf("%d of %d albums failed (run %s)", failed, albums, p.text("runID"))
			msg.priority = "high"
			msg.tags = []string{"blacksys", "transcode", "warning"}
		}
		return msg, nil
	case EventDownloadCompleted:
		return message{
			title: "blacksys - Download Complete",
			body:  fmt.Sprintf("Downloaded %s (%d platforms)", p.text("game"), p.number("platforms")),
			tags:  []string{"blacksys", "steam", "completed"},
		}, nil
	case EventPackagingCompleted:
		msg := message{
			title: "blacksys - Packaging Complete",
			body:  fmt.Sprintf("Packaged %d releases", p.number("releases")),
			tags:  []string{"blacksys", "package", "completed"},
		}
		if failed := p.number("failed"); failed > 0 {
			msg.body = fmt.Sprintf("Packaged %d releases, %d failed", p.number("releases"), failed)
			msg.priority = "high"
		}
		return msg, nil
	case EventError:
		return message{
			title:    "blacksys - Error",
			body:     fmt.Sprintf("%s failed: %s", p.text("context"), p.text("error")),
			tags:     []string{"blacksys", "error"},
			priority: "high",
		}, nil
	case EventTest:
		return message{
			title: "blacksys - Test",
			body:  "Test notification from blacksys",
			tags:  []string{"blacksys", "test"},
		}, nil
	}
	return message{}, fmt.Errorf("unknown notification event %q", event)
}

func (p Payload) text(key string) string {
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case error:
		return v.Error()
	default:
		return fmt.Sprint(v)
	}
}

func (p Payload) number(key string) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (p Payload) elapsed(key string) time.Duration {
	if d, ok := p[key].(time.Duration); ok {
		return d.Round(time.Second)
	}
	return 0
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, err := format(event, payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Title", msg.title)
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
