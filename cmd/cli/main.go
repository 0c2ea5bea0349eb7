package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/payollar/payollar/infra/initializer"
	"github.com/payollar/payollar/pkg/app"
	"github.com/payollar/payollar/pkg/config"
	"golang.org/x/term"
)

const usage = `Usage: cli <command> [arguments]
Commands:
  create-user <username> <email> <role>   create a user (prompts for its password)
  pending                                 list payouts awaiting approval
  approve <payout_id>                     approve a payout
  credits <user_id>                       list a user's credit transactions

Admin commands log in as $PAYOLLAR_ADMIN (or prompt for it) and ask for the password.`

var (
	okColor  = color.New(color.FgGreen, color.Bold)
	errColor = color.New(color.FgRed, color.Bold)
)

type cli struct {
	app          *app.App
	out          io.Writer
	in           *bufio.Reader
	readPassword func(prompt string) (string, error)
	adminID      string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		return
	}
	cfg, err := config.Load(".env")
	if err != nil {
		errColor.Println("Failed to load configuration:", err)
		os.Exit(1)
	}
	// The CLI resolves the principal from a password, not a token.
	cfg.Auth.Strategy = "basic"

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		errColor.Println("Failed to initialize dependencies:", err)
		os.Exit(1)
	}
	c := &cli{
		app:          app.New(deps, cfg),
		out:          os.Stdout,
		in:           bufio.NewReader(os.Stdin),
		readPassword: readTerminalPassword,
		adminID:      os.Getenv("PAYOLLAR_ADMIN"),
	}
	if err := c.run(context.Background(), os.Args[1:]); err != nil {
		errColor.Println(err)
		os.Exit(1)
	}
}

func readTerminalPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c *cli) run(ctx context.Context, args []string) error {
	switch args[0] {
	case "create-user":
		if len(args) < 4 {
			return errors.New("usage: create-user <username> <email> <role>")
		}
		password, err := c.readPassword("Password for " + args[1] + ": ")
		if err != nil {
			return err
		}
		u, err := c.app.UserService.CreateUser(ctx, args[1], args[2], password, strings.ToUpper(args[3]))
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}
		okColor.Fprintf(c.out, "User created: ID=%s Role=%s\n", u.ID, u.Role) //nolint:errcheck
	case "pending":
		principal, err := c.login(ctx)
		if err != nil {
			return err
		}
		payouts, err := c.app.AdminService.ListPendingPayouts(ctx, principal)
		if err != nil {
			return fmt.Errorf("error listing payouts: %w", err)
		}
		w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATOR\tCREDITS\tREQUESTED") //nolint:errcheck
		for _, p := range payouts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.CreatorID, p.Credits.StringFixed(2), p.CreatedAt.Format("2006-01-02 15:04")) //nolint:errcheck
		}
		return w.Flush()
	case "approve":
		if len(args) < 2 {
			return errors.New("usage: approve <payout_id>")
		}
		principal, err := c.login(ctx)
		if err != nil {
			return err
		}
		if _, err := c.app.AdminService.ApprovePayout(ctx, principal, args[1]); err != nil {
			return err
		}
		okColor.Fprintf(c.out, "Payout %s approved\n", args[1]) //nolint:errcheck
	case "credits":
		if len(args) < 2 {
			return errors.New("usage: credits <user_id>")
		}
		principal, err := c.login(ctx)
		if err != nil {
			return err
		}
		entries, err := c.app.AdminService.ListCreditTransactions(ctx, principal, args[1])
		if err != nil {
			return fmt.Errorf("error listing credit transactions: %w", err)
		}
		w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tAMOUNT\tTYPE\tCREATED") //nolint:errcheck
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.Amount.StringFixed(2), e.Type, e.CreatedAt.Format("2006-01-02 15:04")) //nolint:errcheck
		}
		return w.Flush()
	default:
		fmt.Fprintln(c.out, usage) //nolint:errcheck
		return fmt.Errorf("unknown command: %s", args[0])
	}
	return nil
}

// login authenticates the operator and returns their user id.
func (c *cli) login(ctx context.Context) (uuid.UUID, error) {
	identity := c.adminID
	if identity == "" {
		fmt.Fprint(c.out, "Admin email or username: ") //nolint:errcheck
		line, err := c.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return uuid.Nil, err
		}
		identity = strings.TrimSpace(line)
	}
	password, err := c.readPassword("Password: ")
	if err != nil {
		return uuid.Nil, err
	}
	u, err := c.app.AuthService.Login(ctx, identity, password)
	if err != nil {
		return uuid.Nil, fmt.Errorf("login failed: %w", err)
	}
	return u.ID, nil
}
