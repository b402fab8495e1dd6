package app

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"futonsband/pkg/domain"
)

var concertMailTemplate = template.Must(template.New("concert").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #6c5ce7;">The Futons - New Concert!</h2>
  <h3>{{.Title}}</h3>
  <p><strong>Date:</strong> {{.Date}}</p>
  <p><strong>Venue:</strong> {{.Venue}}</p>
  {{if .Description}}<p><strong>Description:</strong> {{.Description}}</p>{{end}}
  {{if .TicketURL}}<p><a href="{{.TicketURL}}">Get tickets</a></p>{{end}}
  <p>Don't miss out on our upcoming performance!</p>
  <p style="color: #666;">Best regards,<br>The Futons Band</p>
</div>`))

// BroadcastNewConcert emails every newsletter subscriber about the concert.
// Returns the number of successful sends, or the would-be recipient count
// when no mailer is configured.
func (a *App) BroadcastNewConcert(ctx context.Context, concert domain.Concert) (int, error) {
	var html strings.Builder
	if err := concertMailTemplate.Execute(&html, concert); err != nil {
		return 0, fmt.Errorf("render concert mail: %w", err)
	}
	subject := "New Concert Alert: " + concert.Title
	text := fmt.Sprintf(
		"The Futons are playing %s at %s on %s. %s",
		concert.Title, concert.Venue, concert.Date, concert.TicketURL,
	)
	return a.broadcast(ctx, subject, html.String(), text)
}

// BroadcastMessage sends an arbitrary admin broadcast to all subscribers.
func (a *App) BroadcastMessage(ctx context.Context, subject, body string) (int, error) {
	subject = strings.TrimSpace(subject)
	body = strings.TrimSpace(body)
	if subject == "" || body == "" {
		return 0, invalidInput("subject and message are required")
	}
	html := fmt.Sprintf(
		`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;"><p>%s</p><p style="color: #666;">Best regards,<br>The Futons Band</p></div>`,
		template.HTMLEscapeString(body),
	)
	return a.broadcast(ctx, subject, html, body)
}

// broadcast fans the message out to every subscriber independently. Each
// send is attempted regardless of other failures; failures are logged and
// only the success count is returned.
func (a *App) broadcast(ctx context.Context, subject, htmlBody, textBody string) (int, error) {
	users, err := a.store.ListUsers()
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}
	subscribers := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.Newsletter {
			subscribers = append(subscribers, u)
		}
	}
	if len(subscribers) == 0 {
		return 0, nil
	}
	if a.mailer == nil {
		slog.Info("mailer not configured, skipping broadcast",
			"subject", subject,
			"recipients", len(subscribers),
		)
		return len(subscribers), nil
	}

	var (
		mu     sync.Mutex
		sent   int
		failed []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.sendConcurrency)
	for _, sub := range subscribers {
		sub := sub
		g.Go(func() error {
			sendCtx, cancel := context.WithTimeout(gctx, 30*time.Second)
			defer cancel()
			err := a.mailer.Send(sendCtx, sub.Email, sub.Name, subject, htmlBody, textBody)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, sub.Email)
				slog.Warn("newsletter send failed", "to", sub.Email, "err", err)
				return nil
			}
			sent++
			return nil
		})
	}
	_ = g.Wait()
	if len(failed) > 0 {
		slog.Warn("newsletter broadcast finished with failures",
			"subject", subject,
			"sent", sent,
			"failed", len(failed),
		)
	}
	return sent, nil
}
