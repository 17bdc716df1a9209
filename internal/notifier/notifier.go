package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/royboker/portfolio-backend/internal/mailer"
	"github.com/sirupsen/logrus"
)

// Event is a fire-and-forget analytics signal from the site.
type Event struct {
	EventType string
	AppName   string
	Details   string
}

const (
	EventVisit       = "visit"
	EventAppUsed     = "app_used"
	EventChatbotUsed = "chatbot_used"
)

var eventTemplates = map[string]string{
	EventVisit:       "Someone visited your portfolio!",
	EventAppUsed:     "Someone used one of your apps!",
	EventChatbotUsed: "Someone chatted with your document bot!",
}

// ValidEventType reports whether the event type is one of the known kinds.
func ValidEventType(eventType string) bool {
	_, ok := eventTemplates[eventType]
	return ok
}

type cacheKey struct {
	eventType string
	appName   string
}

// Notifier turns analytics events into email notifications, suppressing
// repeats of the same (event_type, app_name) inside the cooldown window.
// Entries are never evicted; at portfolio traffic the map stays tiny.
type Notifier struct {
	mail     *mailer.Service
	cooldown time.Duration
	logger   *logrus.Logger
	now      func() time.Time

	mu       sync.Mutex
	lastSent map[cacheKey]time.Time
}

func New(mail *mailer.Service, cooldown time.Duration, logger *logrus.Logger, now func() time.Time) *Notifier {
	if now == nil {
		now = time.Now
	}
	return &Notifier{
		mail:     mail,
		cooldown: cooldown,
		logger:   logger,
		now:      now,
		lastSent: make(map[cacheKey]time.Time),
	}
}

// Notify delivers one notification email unless the same key fired within the
// cooldown window. Failures are logged and swallowed; this never runs on a
// request's critical path.
func (n *Notifier) Notify(ctx context.Context, event Event) {
	template, ok := eventTemplates[event.EventType]
	if !ok {
		n.logger.WithField("event_type", event.EventType).Warn("Unknown analytics event type")
		return
	}

	key := cacheKey{eventType: event.EventType, appName: event.AppName}
	if !n.claim(key) {
		n.logger.WithFields(logrus.Fields{
			"event_type": event.EventType,
			"app_name":   event.AppName,
		}).Debug("Notification suppressed by cooldown")
		return
	}

	msg := mailer.Message{
		Subject: fmt.Sprintf("Portfolio Activity: %s", event.EventType),
		Body:    n.buildBody(template, event),
	}

	if outcome := n.mail.Deliver(ctx, msg); outcome != mailer.OutcomeSent {
		n.logger.WithFields(logrus.Fields{
			"event_type": event.EventType,
			"outcome":    outcome,
		}).Warn("Analytics notification not delivered")
	}
}

// claim records the send time for the key unless it fired too recently.
func (n *Notifier) claim(key cacheKey) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	if last, ok := n.lastSent[key]; ok && now.Sub(last) < n.cooldown {
		return false
	}
	n.lastSent[key] = now
	return true
}

func (n *Notifier) buildBody(template string, event Event) string {
	body := template
	if event.AppName != "" {
		body += fmt.Sprintf("\n\nApp: %s", event.AppName)
	}
	if event.Details != "" {
		body += fmt.Sprintf("\nDetails: %s", event.Details)
	}
	body += fmt.Sprintf("\n\nTime: %s", n.now().Format(time.RFC1123))
	return body
}
