package cli

import (
	"context"
	"errors"
	"fmt"
)

var errUsage = errors.New("invalid arguments")

const usage = `Usage: jarvault-client [-a url] [-t seconds] [-c config.json] <command> [args]

Commands:
  upload <file>...         upload one or more .jar files
  list                     list stored jars
  get <id>                 show one jar
  download <id> [dest]     download a jar to dest (file or directory)
  delete [-p pw] <id>      delete a jar
  help                     show this text`

func (a *App) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "help", "-h", "-help", "--help":
		fmt.Fprintln(a.out, usage)
		return nil
	case "upload":
		return a.upload(ctx, rest)
	case "list":
		return a.list(ctx)
	case "get":
		if len(rest) != 1 {
			return fmt.Errorf("%w: get <id>", errUsage)
		}
		return a.get(ctx, rest[0])
	case "download":
		if len(rest) < 1 || len(rest) > 2 {
			return fmt.Errorf("%w: download <id> [dest]", errUsage)
		}
		dest := ""
		if len(rest) == 2 {
			dest = rest[1]
		}
		return a.download(ctx, rest[0], dest)
	case "delete":
		return a.delete(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
}
