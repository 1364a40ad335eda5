package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	adminstore "github.com/orkestra-ventures/orkestra/internal/app/store/admins"
	"github.com/orkestra-ventures/orkestra/internal/app/store/entity"
	sessionstore "github.com/orkestra-ventures/orkestra/internal/app/store/sessions"
	"github.com/orkestra-ventures/orkestra/internal/domain/models"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdminCmd returns the admin command.
func AdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage back-office admin accounts",
	}

	cmd.AddCommand(adminCreateCmd())
	cmd.AddCommand(adminPasswordCmd())
	cmd.AddCommand(adminStatusCmd("disable", models.AdminDisabled))
	cmd.AddCommand(adminStatusCmd("enable", models.AdminActive))
	cmd.AddCommand(adminListCmd())

	return cmd
}

func adminCreateCmd() *cobra.Command {
	var name, password string
	cmd := &cobra.Command{
		Use:   "create <email>",
		Short: "Create an admin",
		Long: `Create an active admin. Without --password the account can only
sign in with Google.

Examples:
  orkestractl admin create owner@orkestra.ventures --name "Site Owner" --password '...'
  orkestractl admin create ops@orkestra.ventures --name "Ops"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db *mongo.Database) error {
				return createAdmin(ctx, db, cmd.OutOrStdout(), args[0], name, password)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&password, "password", os.Getenv("ORKESTRA_ADMIN_PASSWORD"), "password (default $ORKESTRA_ADMIN_PASSWORD)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func adminPasswordCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "password <email>",
		Short: "Set an admin's password and close their sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db *mongo.Database) error {
				return setAdminPassword(ctx, db, cmd.OutOrStdout(), args[0], password)
			})
		},
	}
	cmd.Flags().StringVar(&password, "password", os.Getenv("ORKESTRA_ADMIN_PASSWORD"), "new password (default $ORKESTRA_ADMIN_PASSWORD)")
	return cmd
}

func adminStatusCmd(use, status string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <email>",
		Short: fmt.Sprintf("Mark an admin %s", status),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db *mongo.Database) error {
				return setAdminStatus(ctx, db, cmd.OutOrStdout(), args[0], status)
			})
		},
	}
}

func adminListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List admins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db *mongo.Database) error {
				return listAdmins(ctx, db, cmd.OutOrStdout())
			})
		},
	}
}

func createAdmin(ctx context.Context, db *mongo.Database, out io.Writer, email, name, password string) error {
	a, err := adminstore.New(db).Create(ctx, name, email, password)
	if errors.Is(err, adminstore.ErrDuplicateEmail) {
		return fmt.Errorf("an admin with email %s already exists", email)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s admin %d <%s>\n", okText("created"), a.ID, a.Email)
	if password == "" {
		fmt.Fprintln(out, warnText("no password set; this admin can only use Google sign-in"))
	}
	return nil
}

func setAdminPassword(ctx context.Context, db *mongo.Database, out io.Writer, email, password string) error {
	if password == "" {
		return errors.New("--password is required")
	}
	admins := adminstore.New(db)
	a, err := findAdmin(ctx, admins, email)
	if err != nil {
		return err
	}
	if err := admins.SetPassword(ctx, a.ID, password); err != nil {
		return err
	}
	closed, err := sessionstore.New(db).CloseAllForAdmin(ctx, a.ID, sessionstore.EndRevoked)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s password for <%s>; closed %d session(s)\n", okText("updated"), a.Email, closed)
	return nil
}

func setAdminStatus(ctx context.Context, db *mongo.Database, out io.Writer, email, status string) error {
	admins := adminstore.New(db)
	a, err := findAdmin(ctx, admins, email)
	if err != nil {
		return err
	}
	if err := admins.SetStatus(ctx, a.ID, status); err != nil {
		return err
	}
	var closed int64
	if status == models.AdminDisabled {
		if closed, err = sessionstore.New(db).CloseAllForAdmin(ctx, a.ID, sessionstore.EndRevoked); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "%s <%s> is %s", okText("ok"), a.Email, status)
	if closed > 0 {
		fmt.Fprintf(out, "; closed %d session(s)", closed)
	}
	fmt.Fprintln(out)
	return nil
}

func listAdmins(ctx context.Context, db *mongo.Database, out io.Writer) error {
	all, err := adminstore.New(db).GetAll(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Fprintln(out, warnText("no admins"))
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tSTATUS\tSIGN-IN\tLAST LOGIN")
	for _, a := range all {
		status := okText(a.Status)
		if a.Status != models.AdminActive {
			status = errText(a.Status)
		}
		last := "never"
		if a.LastLoginAt != nil {
			last = a.LastLoginAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.Email, a.FullName, status, signInMethods(a), last)
	}
	return tw.Flush()
}

func signInMethods(a models.Admin) string {
	switch {
	case a.PasswordHash != "" && a.GoogleID != "":
		return "password+google"
	case a.PasswordHash != "":
		return "password"
	case a.GoogleID != "":
		return "google"
	default:
		return "google (unlinked)"
	}
}

func findAdmin(ctx context.Context, admins *adminstore.Store, email string) (models.Admin, error) {
	a, err := admins.GetByEmail(ctx, email)
	if errors.Is(err, entity.ErrNotFound) {
		return models.Admin{}, fmt.Errorf("no admin with email %s", email)
	}
	return a, err
}
