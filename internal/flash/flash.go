// Package flash carries one-shot user messages across a redirect in the session.
package flash

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const sessionKey = "flash"

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
)

// Message is one flash entry as rendered to the page.
type Message struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// Flasher stores messages in the fiber session and translates keys for one locale.
type Flasher struct {
	store    *session.Store
	messages map[Key]string
}

// New builds a Flasher. Unknown locales fall back to Spanish.
func New(store *session.Store, locale string) *Flasher {
	messages, ok := catalog[strings.ToLower(strings.TrimSpace(locale))]
	if !ok {
		messages = catalog[defaultLocale]
	}
	return &Flasher{store: store, messages: messages}
}

// T returns the translation of key, or the key itself when it has none.
func (f *Flasher) T(key Key) string {
	if text, ok := f.messages[key]; ok {
		return text
	}
	return string(key)
}

// Add queues the translated key.
func (f *Flasher) Add(c *fiber.Ctx, kind Kind, key Key) error {
	return f.AddText(c, kind, f.T(key))
}

// AddText queues text as is. Used for messages that come from an external provider.
func (f *Flasher) AddText(c *fiber.Ctx, kind Kind, text string) error {
	sess, err := f.store.Get(c)
	if err != nil {
		return err
	}
	queued, _ := sess.Get(sessionKey).([]string)
	sess.Set(sessionKey, append(queued, string(kind)+":"+text))
	return sess.Save()
}

// Pop returns and forgets every queued message.
func (f *Flasher) Pop(c *fiber.Ctx) []Message {
	out := []Message{}
	sess, err := f.store.Get(c)
	if err != nil {
		return out
	}
	queued, _ := sess.Get(sessionKey).([]string)
	if len(queued) == 0 {
		return out
	}
	for _, raw := range queued {
		kind, text, _ := strings.Cut(raw, ":")
		out = append(out, Message{Kind: Kind(kind), Text: text})
	}
	sess.Delete(sessionKey)
	_ = sess.Save()
	return out
}
