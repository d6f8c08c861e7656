package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/jarvault/internal/client/client"
	"github.com/dmitrijs2005/jarvault/internal/client/config"
)

// API is the subset of client.Client the commands use.
type API interface {
	Upload(ctx context.Context, path string) (*client.Jar, error)
	UploadBulk(ctx context.Context, paths []string) ([]*client.Jar, error)
	List(ctx context.Context) ([]*client.Jar, error)
	Get(ctx context.Context, id string) (*client.Jar, error)
	Download(ctx context.Context, id, dest string) (string, int64, error)
	Delete(ctx context.Context, id, password string) error
}

type App struct {
	config *config.Config
	api    API
	out    io.Writer
	errOut io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.New(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return &App{config: c, api: apiClient, out: os.Stdout, errOut: os.Stderr}, nil
}

// Run executes the subcommand in args and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if err := a.dispatch(ctx, args); err != nil {
		fmt.Fprintf(a.errOut, "Error: %s\n", err)
		if errors.Is(err, errUsage) {
			fmt.Fprintln(a.errOut, usage)
		}
		return 1
	}
	return 0
}
