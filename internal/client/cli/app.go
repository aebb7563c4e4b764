package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/eproduct/internal/client/client"
	"github.com/dmitrijs2005/eproduct/internal/client/config"
	"github.com/dmitrijs2005/eproduct/internal/client/guard"
	"github.com/dmitrijs2005/eproduct/internal/client/services"
	"github.com/dmitrijs2005/eproduct/internal/client/session"
	"github.com/dmitrijs2005/eproduct/internal/client/views"
	"github.com/dmitrijs2005/eproduct/internal/common"
	"github.com/dmitrijs2005/eproduct/internal/logging"
)

// App is the interactive client. It is the guard's Navigator and the views'
// Notifier and Confirmer, so everything user-facing goes through out.
type App struct {
	config    *config.Config
	logger    logging.Logger
	sessions  *session.Store
	guard     *guard.Guard
	products  services.ProductService
	ownership services.OwnershipService
	profile   services.ProfileService
	reader    *bufio.Reader
	out       io.Writer
	closers   []io.Closer

	route string
	// mine is the owner's list while the profile route is open.
	mine *views.MyProducts
}

// NewApp opens the local store, builds the gateway and wires the session
// store, services and guard around them.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	api, err := client.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	repos := client.NewRepositories(db)
	store := session.NewStore(api, repos.Tokens, logger)

	a := newApp(c, logger, store,
		services.NewProductService(api, store),
		services.NewOwnershipService(api, store),
		services.NewProfileService(api, store),
		bufio.NewReader(os.Stdin), os.Stdout,
	)
	a.closers = []io.Closer{api, db}
	return a, nil
}

func newApp(
	c *config.Config,
	logger logging.Logger,
	store *session.Store,
	products services.ProductService,
	ownership services.OwnershipService,
	profile services.ProfileService,
	reader *bufio.Reader,
	out io.Writer,
) *App {
	a := &App{
		config:    c,
		logger:    logger,
		sessions:  store,
		products:  products,
		ownership: ownership,
		profile:   profile,
		reader:    reader,
		out:       out,
		route:     "/",
	}
	a.guard = guard.New(store, a, guard.ViewFunc(a.placeholder))
	return a
}

// Run validates the persisted session in the background and blocks in the
// REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	go a.sessions.Initialize(ctx)

	a.println("Welcome to eproduct (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	a.setRoute("/")
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn(context.Background(), "close failed", "err", err)
		}
	}
	a.closers = nil
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// Notify prints transient notices.
func (a *App) Notify(n views.Notification) {
	a.println(n.String())
}

func (a *App) notify(level views.Level, msg string) {
	a.Notify(views.Notification{Level: level, Message: msg})
}

// Navigate switches the current route. The guard calls it to send anonymous
// users to the login route.
func (a *App) Navigate(_ context.Context, route string) error {
	a.setRoute(route)
	if route == common.LoginRoute {
		a.println("You need to log in first. Use 'login' or 'signup'.")
	}
	return nil
}

// setRoute leaves the current route, closing its view.
func (a *App) setRoute(route string) {
	if a.route == common.ProfileRoute && route != common.ProfileRoute && a.mine != nil {
		a.mine.Close()
		a.mine = nil
	}
	a.route = route
}

func (a *App) Confirm(_ context.Context, prompt string) (bool, error) {
	return getConfirmation(a.reader, prompt, a.out)
}

func (a *App) placeholder(context.Context) error {
	a.println("Checking your session...")
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.sessions.Snapshot().Authenticated()
}

func (a *App) getStatus() string {
	snap := a.sessions.Snapshot()
	who := "guest"
	switch snap.Status {
	case session.Authenticated:
		who = snap.User.Email
	case session.Uninitialized, session.Loading:
		who = "..."
	}
	return fmt.Sprintf("(%s %s)", who, a.route)
}

// protected runs fn behind the guard on the given route.
func (a *App) protected(ctx context.Context, route string, fn func(ctx context.Context) error) error {
	_, err := a.guard.Await(ctx, guard.ViewFunc(func(ctx context.Context) error {
		a.setRoute(route)
		return fn(ctx)
	}))
	return err
}

// unavailable reports whether err means the backend could not be reached or
// failed on its side.
func unavailable(err error) bool {
	var ne *common.NetworkError
	return errors.Is(err, client.ErrUnavailable) || errors.As(err, &ne)
}

// hintUnavailable adds a notice when a failure was the server's, not the
// user's.
func (a *App) hintUnavailable(err error) {
	if unavailable(err) {
		a.notify(views.Info, "Server unavailable, try again later.")
	}
}
