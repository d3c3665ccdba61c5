// Package telegram owns the transport layer: the telebot run loop,
// command/callback registry, routing middleware and the asynchronous
// outbound sender. Booking logic never lives here.
package telegram

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	tele "gopkg.in/telebot.v4"
)

// Command represents a bot command with its handler and metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	Hidden      bool
	Aliases     []string
}

// Registry holds bot commands and callback handlers keyed by their
// callback unique.
type Registry struct {
	commands         map[string]Command
	callbacks        map[string]tele.HandlerFunc
	callbacksMu      sync.RWMutex
	callbackNotFound tele.HandlerFunc
	textFallback     tele.HandlerFunc
}

// NewRegistry creates an empty Registry with a default unknown-callback
// response.
func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]Command),
		callbacks: make(map[string]tele.HandlerFunc),
		callbackNotFound: func(c tele.Context) error {
			return c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
		},
	}
}

// RegisterCommand adds a new command. The name must carry the leading
// slash.
func (r *Registry) RegisterCommand(name string, cmd Command) error {
	if r == nil || name == "" || cmd.Handler == nil {
		return errors.New("invalid command registration")
	}
	if !strings.HasPrefix(name, "/") {
		return fmt.Errorf("command %q must start with '/'", name)
	}
	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("command already registered: %s", name)
	}
	r.commands[name] = cmd
	return nil
}

// Commands returns all registered commands.
func (r *Registry) Commands() map[string]Command {
	return r.commands
}

// LookupCommand searches for a command by name or alias and returns
// the canonical key with metadata if found.
func (r *Registry) LookupCommand(name string) (string, Command, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", Command{}, false
	}
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	// Strip arguments: "/confirm 123" resolves to "/confirm".
	if i := strings.IndexByte(name, ' '); i > 0 {
		name = name[:i]
	}
	if cmd, ok := r.commands[name]; ok {
		return name, cmd, true
	}
	for key, cmd := range r.commands {
		for _, alias := range cmd.Aliases {
			if alias == name || "/"+alias == name {
				return key, cmd, true
			}
		}
	}
	return "", Command{}, false
}

// ListCommands returns the commands to publish to Telegram, filtering
// out hidden and admin-only ones when visibleOnly is set.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	var list []tele.Command
	for cmd, meta := range r.commands {
		if visibleOnly && (meta.Hidden || meta.AdminOnly) {
			continue
		}
		list = append(list, tele.Command{Text: cmd, Description: meta.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// RegisterCallback adds a callback handler mapped to its unique key.
func (r *Registry) RegisterCallback(key string, handler tele.HandlerFunc) error {
	if r == nil || key == "" || handler == nil {
		return errors.New("invalid callback registration")
	}
	r.callbacksMu.Lock()
	defer r.callbacksMu.Unlock()
	if _, exists := r.callbacks[key]; exists {
		return fmt.Errorf("callback already registered: %s", key)
	}
	r.callbacks[key] = handler
	return nil
}

// GetCallback returns the handler registered for key.
func (r *Registry) GetCallback(key string) (tele.HandlerFunc, bool) {
	r.callbacksMu.RLock()
	defer r.callbacksMu.RUnlock()
	h, ok := r.callbacks[key]
	return h, ok
}

// SetCallbackNotFound replaces the fallback handler for unknown
// callbacks.
func (r *Registry) SetCallbackNotFound(h tele.HandlerFunc) {
	if h != nil {
		r.callbackNotFound = h
	}
}

// CallbackNotFound returns the current unknown-callback handler.
func (r *Registry) CallbackNotFound() tele.HandlerFunc {
	return r.callbackNotFound
}

// SetTextFallback sets a fallback handler for unrouted text messages.
func (r *Registry) SetTextFallback(h tele.HandlerFunc) {
	r.textFallback = h
}

// TextFallback returns the current text fallback handler.
func (r *Registry) TextFallback() tele.HandlerFunc {
	return r.textFallback
}
