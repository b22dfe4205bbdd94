package application

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-live-inventory/internal/domain/entity"
	"github.com/oksasatya/go-live-inventory/internal/domain/repository"
)

// Options wires an App. Store and Auth may be nil when Configured is false.
type Options struct {
	Configured   bool
	AppID        string
	InitialToken string

	Store    repository.DocumentStore
	Auth     AuthBackend
	Renderer Renderer
	Messages Notifier
	Events   EventPublisher
	Logger   *logrus.Logger
}

// App owns the state and the components that act on it. Control flow:
// identity resolves, the subscriber attaches, snapshots replace the items
// and the renderer redraws.
type App struct {
	configured bool
	logger     *logrus.Logger

	state      *State
	notifier   Notifier
	resolver   *IdentityResolver
	subscriber *Subscriber
	router     *ViewRouter
	gateway    *Gateway

	startOnce sync.Once
	ready     chan struct{}
}

func NewApp(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger
	}
	state := NewState()
	notifier := NewLoggingNotifier(logger, opts.Messages)
	router := NewViewRouter(state, logger)
	return &App{
		configured: opts.Configured,
		logger:     logger,
		state:      state,
		notifier:   notifier,
		resolver:   NewIdentityResolver(opts.Auth, opts.InitialToken, logger),
		subscriber: NewSubscriber(opts.Store, state, opts.Renderer, notifier, logger, opts.AppID),
		router:     router,
		gateway:    NewGateway(opts.Store, state, router, notifier, opts.Events, logger, opts.AppID),
		ready:      make(chan struct{}),
	}
}

// Start checks configuration, shows the home view and resolves identity in
// the background. Without configuration nothing else is attempted.
func (a *App) Start(ctx context.Context) error {
	if !a.configured {
		a.logger.WithError(ErrConfigMissing).Error("backend configuration not available, cannot initialize")
		a.notifier.Notify("Application configuration error.", SeverityError)
		return ErrConfigMissing
	}
	a.startOnce.Do(func() {
		a.router.Navigate(entity.ViewHome)
		go a.resolveAndAttach(ctx)
	})
	return nil
}

func (a *App) resolveAndAttach(ctx context.Context) {
	defer close(a.ready)
	sess := a.resolver.Resolve(ctx)
	if err := a.state.SetSession(sess); err != nil {
		a.logger.WithError(err).Error("session rejected")
		return
	}
	// attach errors are already on the message surface
	_ = a.subscriber.Attach(ctx, sess)
}

// Ready is closed once identity resolution and subscription have finished.
func (a *App) Ready() <-chan struct{} { return a.ready }

// Stop tears down the live subscription.
func (a *App) Stop() {
	a.subscriber.Detach()
}

func (a *App) State() *State               { return a.state }
func (a *App) Gateway() *Gateway           { return a.gateway }
func (a *App) Router() *ViewRouter         { return a.router }
func (a *App) Subscriber() *Subscriber     { return a.subscriber }
func (a *App) Resolver() *IdentityResolver { return a.resolver }
func (a *App) Notifier() Notifier          { return a.notifier }
