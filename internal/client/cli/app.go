package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"net/http"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/dmitrijs2005/eventhub/internal/client/client"
	"github.com/dmitrijs2005/eventhub/internal/client/config"
	"github.com/dmitrijs2005/eventhub/internal/client/credentials"
	"github.com/dmitrijs2005/eventhub/internal/client/export"
	"github.com/dmitrijs2005/eventhub/internal/client/repositories"
	"github.com/dmitrijs2005/eventhub/internal/client/services"
	"github.com/dmitrijs2005/eventhub/internal/logging"
)

const appName = "eventhub"

type App struct {
	config   *config.Config
	session  services.SessionController
	events   services.EventService
	store    credentials.Store
	resolver *client.Resolver
	sink     export.Sink
	log      logging.Logger

	reader *bufio.Reader
	out    io.Writer
	db     *sql.DB
}

// NewApp wires storage, the HTTP client and the services from c. When the
// credential database cannot be opened the session lives in memory only.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(os.Stderr, c.LogFormat, c.LogLevel)

	a := &App{
		config: c,
		log:    log,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	db, err := repositories.OpenDatabase(ctx, c.StorePath)
	if err != nil {
		log.Warn(ctx, "credential store unavailable, session will not persist", "path", c.StorePath, "error", err)
		a.store = credentials.NewMemoryStore()
	} else {
		a.db = db
		a.store = credentials.NewSQLiteStore(db, log.With("component", "store"))
	}

	a.resolver = client.NewResolver(c.APIBaseURL, c.OriginHost, c.ProductionHost, c.ProductionAPIURL)
	api := client.NewHTTPClient(&http.Client{Timeout: c.RequestTimeout}, a.resolver, a.store, log)

	a.session = services.NewSessionController(api, a.store, log.With("component", "session"))
	a.events = services.NewEventService(api)
	a.session.OnAuthRequired(func() {
		printlnFn("Session expired, please log in.")
	})

	a.sink, err = newSink(ctx, c)
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func newSink(ctx context.Context, c *config.Config) (export.Sink, error) {
	if c.ExportBucket == "" {
		return export.NewFileSink(c.ExportDir), nil
	}
	return export.NewS3Sink(ctx, export.S3Options{
		Bucket:       c.ExportBucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
	})
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.Session().Authenticated()
}

func (a *App) getStatus() string {
	if u := a.session.Session().User; u != nil {
		return "(" + u.DisplayName + ")"
	}
	return ""
}

// Run restores a stored session and blocks in the REPL until the user exits
// or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn(figure.NewFigure(appName, "cybermedium", true).String())
	printlnFn("Welcome to the Eventhub CLI (type 'help' for commands)")

	if err := a.session.Init(ctx); err != nil {
		printlnFn("Stored session could not be restored:", describe(err))
	} else if u := a.session.Session().User; u != nil {
		printlnFn("Welcome back,", u.DisplayName)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
