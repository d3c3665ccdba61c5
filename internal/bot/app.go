package bot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"tourbot/internal/booking"
	"tourbot/internal/config"
	"tourbot/internal/logger"
	"tourbot/internal/telegram"
)

// App binds the booking service to the Telegram transport.
type App struct {
	cfg *config.Config
	svc *booking.Service

	// Set once the runtime is up, via the OnStart hook.
	bot  *tele.Bot
	disp *telegram.Dispatcher
}

// New builds the bot application.
func New(cfg *config.Config, svc *booking.Service) *App {
	return &App{cfg: cfg, svc: svc}
}

// RunOptions assembles the registry, routes and middleware for
// telegram.Run.
func (a *App) RunOptions() (telegram.RunOptions, error) {
	reg := telegram.NewRegistry()

	commands := map[string]telegram.Command{
		"/start": {
			Handler:     a.onStart,
			Description: "Начать бронирование тура",
		},
		"/cancel": {
			Handler:     a.onCancel,
			Description: "Отменить бронирование",
		},
		"/confirm": {
			Handler:     a.onAdminConfirm,
			Description: "Подтвердить оплату брони",
			AdminOnly:   true,
		},
		"/list": {
			Handler:     a.onAdminList,
			Description: "Список всех бронирований",
			AdminOnly:   true,
			Aliases:     []string{"bookings"},
		},
	}
	for name, cmd := range commands {
		if err := reg.RegisterCommand(name, cmd); err != nil {
			return telegram.RunOptions{}, err
		}
	}

	callbacks := map[string]tele.HandlerFunc{
		cbDirection: a.onDirection,
		cbTourType:  a.onTourType,
		cbDate:      a.onDate,
		cbBack:      a.onBack,
		cbConfirm:   a.onConfirm,
		cbCancel:    a.onCancelButton,
	}
	for key, h := range callbacks {
		if err := reg.RegisterCallback(key, h); err != nil {
			return telegram.RunOptions{}, err
		}
	}
	reg.SetCallbackNotFound(func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: "Неизвестное действие"})
	})

	admin := telegram.AdminOptions{
		AdminID: a.cfg.Telegram.AdminID,
		OnReject: func(c tele.Context) error {
			return c.Send(textNotAdmin)
		},
	}

	routes := telegram.CommandRoutes(reg, admin)
	routes = append(routes, telegram.CallbackRoute(reg))
	routes = append(routes,
		telegram.Route{Endpoint: tele.OnText, Handler: telegram.Chain(a.onText)},
		telegram.Route{Endpoint: tele.OnPhoto, Handler: telegram.Chain(a.onPhoto)},
		telegram.Route{Endpoint: tele.OnDocument, Handler: telegram.Chain(a.onDocument)},
	)

	var middlewares []telegram.Middleware
	if a.cfg.RateLimit.IntervalMS > 0 {
		exclude := make(map[string]struct{}, len(a.cfg.RateLimit.ExcludeUpdates))
		for _, kind := range a.cfg.RateLimit.ExcludeUpdates {
			exclude[kind] = struct{}{}
		}
		middlewares = append(middlewares, telegram.Middleware{
			Name: "rate_limit",
			Use: telegram.RateLimit(telegram.RateLimitOptions{
				Interval: time.Duration(a.cfg.RateLimit.IntervalMS) * time.Millisecond,
				Exclude:  exclude,
			}),
		})
	}

	return telegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: middlewares,
		Routes:      routes,
		OnStart: func(ctx context.Context, rt telegram.Runtime) error {
			a.bot = rt.Bot
			a.disp = rt.Dispatcher
			logger.Info(ctx, "app", "ready",
				slog.Int64("admin_id", a.cfg.Telegram.AdminID),
				slog.String("storage", a.cfg.Storage.Driver),
			)
			return nil
		},
		OnStop: func(ctx context.Context, rt telegram.Runtime) error {
			logger.Info(ctx, "app", "shutdown")
			return nil
		},
	}, nil
}

// firstName extracts a display name for the welcome message.
func firstName(u *tele.User) string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.FirstName); name != "" {
		return name
	}
	return u.Username
}
