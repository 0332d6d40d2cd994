// Package cli implements the headless commands: login, register, logout,
// whoami and courses. They share the session store and database with the
// TUI so a login here is picked up by the next interactive run.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/fragmede/cpphub/internal/cache"
	"github.com/fragmede/cpphub/internal/session"
)

// ErrUnknownCommand is returned by Run for a name IsCommand rejects.
var ErrUnknownCommand = errors.New("unknown command")

var commands = []string{"login", "register", "logout", "whoami", "courses"}

// IsCommand reports whether name is a headless command.
func IsCommand(name string) bool {
	return slices.Contains(commands, name)
}

// CatalogLoader is the cache side of the courses command.
type CatalogLoader interface {
	LoadCatalog(ctx context.Context, src cache.CourseFetcher, ttl time.Duration, refresh bool) (cache.Catalog, error)
}

// Deps are the collaborators of the commands.
type Deps struct {
	Store      *session.Store
	Catalog    CatalogLoader
	Courses    cache.CourseFetcher
	CatalogTTL time.Duration

	// In and Out default to os.Stdin and os.Stdout.
	In  io.Reader
	Out io.Writer
}

type App struct {
	store   *session.Store
	catalog CatalogLoader
	courses cache.CourseFetcher
	ttl     time.Duration

	in    *bufio.Reader
	stdin *os.File
	out   io.Writer
}

func New(d Deps) *App {
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	return &App{
		store:   d.Store,
		catalog: d.Catalog,
		courses: d.Courses,
		ttl:     d.CatalogTTL,
		in:      bufio.NewReader(d.In),
		stdin:   stdinFile(d.In),
		out:     d.Out,
	}
}

// Run executes args[0] with the remaining args as its flags.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: none given", ErrUnknownCommand)
	}
	name, rest := args[0], args[1:]
	switch name {
	case "login":
		return a.login(ctx, rest)
	case "register":
		return a.register(ctx, rest)
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "courses":
		return a.listCourses(ctx, rest)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
}
