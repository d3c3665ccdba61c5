package telegram

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// CommandRoutes prepares one route per registered command, wrapped
// with the shared middleware and, for privileged commands, the
// admin-only gate.
func CommandRoutes(reg *Registry, admin AdminOptions) []Route {
	if reg == nil {
		return nil
	}
	routes := make([]Route, 0, len(reg.Commands()))
	for cmd, def := range reg.Commands() {
		h := def.Handler
		if def.AdminOnly {
			h = AdminOnly(admin)(h)
		}
		wrapped := Chain(h)
		routes = append(routes, Route{Endpoint: cmd, Handler: wrapped})
		for _, alias := range def.Aliases {
			if !strings.HasPrefix(alias, "/") {
				alias = "/" + alias
			}
			routes = append(routes, Route{Endpoint: alias, Handler: wrapped})
		}
	}
	return routes
}

// CallbackRoute returns a single OnCallback route that resolves the
// pressed button through the registry.
func CallbackRoute(reg *Registry) Route {
	handler := func(c tele.Context) error {
		if c.Callback() == nil {
			return nil
		}
		// Stop the client-side loading spinner before handling.
		_ = c.Respond()

		key := CallbackKey(c)
		cbHandler, ok := reg.GetCallback(key)
		if !ok || cbHandler == nil {
			if fallback := reg.CallbackNotFound(); fallback != nil {
				return fallback(c)
			}
			return nil
		}
		return cbHandler(c)
	}
	return Route{Endpoint: tele.OnCallback, Handler: Chain(handler)}
}
