package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/jarvault/internal/client/client"
)

func (a *App) upload(ctx context.Context, paths []string) error {
	switch len(paths) {
	case 0:
		return fmt.Errorf("%w: upload <file>...", errUsage)
	case 1:
		jar, err := a.api.Upload(ctx, paths[0])
		if err != nil {
			return err
		}
		printJar(a.out, jar)
		return nil
	}

	created, err := a.api.UploadBulk(ctx, paths)
	if err != nil {
		return err
	}
	printJars(a.out, created)
	if skipped := len(paths) - len(created); skipped > 0 {
		fmt.Fprintf(a.out, "%d file(s) skipped (not a .jar or already stored)\n", skipped)
	}
	return nil
}

func (a *App) list(ctx context.Context) error {
	jars, err := a.api.List(ctx)
	if err != nil {
		return err
	}
	printJars(a.out, jars)
	return nil
}

func (a *App) get(ctx context.Context, id string) error {
	jar, err := a.api.Get(ctx, id)
	if err != nil {
		return err
	}
	printJar(a.out, jar)
	return nil
}

func (a *App) download(ctx context.Context, id, dest string) error {
	path, n, err := a.api.Download(ctx, id, dest)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s (%d bytes)\n", path, n)
	return nil
}

func (a *App) delete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	password := fs.String("p", "", "delete password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: delete [-p password] <id>", errUsage)
	}

	pw, err := a.resolvePassword(*password)
	if err != nil {
		return err
	}

	if err := a.api.Delete(ctx, fs.Arg(0), pw); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", fs.Arg(0))
	return nil
}

func printJar(w io.Writer, j *client.Jar) {
	fmt.Fprintf(w, "ID:       %s\n", j.ID)
	fmt.Fprintf(w, "Name:     %s\n", j.Name)
	fmt.Fprintf(w, "SHA256:   %s\n", j.SHA256)
	fmt.Fprintf(w, "Size:     %d\n", j.SizeBytes)
	fmt.Fprintf(w, "Created:  %s\n", j.CreatedAt.Format(time.RFC3339))
}

func printJars(w io.Writer, jars []*client.Jar) {
	if len(jars) == 0 {
		fmt.Fprintln(w, "No jars.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSIZE\tCREATED\tSHA256")
	for _, j := range jars {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", j.ID, j.Name, j.SizeBytes, j.CreatedAt.Format(time.RFC3339), j.SHA256)
	}
	tw.Flush()
}
