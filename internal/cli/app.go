package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/agentaitrip/tripvault/internal/common"
	"github.com/agentaitrip/tripvault/internal/cryptox"
	"github.com/agentaitrip/tripvault/internal/logging"
	"github.com/agentaitrip/tripvault/internal/server/db"
	"github.com/agentaitrip/tripvault/internal/server/services"
)

const usage = `Usage: tripvault-cli [-d dsn] [-i iterations] <command> [args]

Commands:
  seed                      create the default admin account if missing
  adduser [username] [role] create a user; prompts for the username if omitted
  passwd <username>         change a user's password
  list                      list accounts
`

// Run executes one CLI command. args is os.Args[1:].
func Run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("tripvault-cli", flag.ContinueOnError)
	fs.SetOutput(stdout)
	dsn := fs.String("d", "users.db", "database DSN")
	iterations := fs.Int("i", cryptox.DefaultIterations, "PBKDF2 iterations")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("no command given")
	}

	manager, err := db.Open(ctx, *dsn)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer manager.Close()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	svc := services.NewUserService(manager, nil, logger, *iterations)

	switch cmd := rest[0]; cmd {
	case "seed":
		return svc.EnsureSeed(ctx)

	case "adduser":
		username := ""
		if len(rest) > 1 {
			username = rest[1]
		} else {
			username, err = GetSimpleText(bufio.NewReader(stdin), "Username", stdout)
			if err != nil {
				return fmt.Errorf("adduser: %w", err)
			}
		}
		if username == "" {
			return fmt.Errorf("adduser: username required")
		}
		role := ""
		if len(rest) > 2 {
			role = rest[2]
		}
		password, err := GetConfirmedPassword(stdout)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(password)

		user, err := svc.CreateUser(ctx, username, string(password), role)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "created user %s (id %d, role %s)\n", user.Username, user.ID, user.Role)
		return nil

	case "passwd":
		if len(rest) < 2 {
			return fmt.Errorf("passwd: username required")
		}
		password, err := GetConfirmedPassword(stdout)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(password)

		if err := svc.ChangePassword(ctx, rest[1], string(password)); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "password updated for %s\n", rest[1])
		return nil

	case "list":
		list, err := svc.ListUsers(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tUSERNAME\tROLE\tCREATED")
		for _, u := range list {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Role, u.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return tw.Flush()

	default:
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}
