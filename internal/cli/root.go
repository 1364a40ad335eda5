// Package cli implements orkestractl, the operator tool for the Orkestra
// back-office: admin account maintenance and offline exports.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// connection flags shared by every subcommand
var (
	mongoURI      string
	mongoDatabase string
)

var (
	okText   = color.New(color.FgGreen).SprintFunc()
	warnText = color.New(color.FgYellow).SprintFunc()
	errText  = color.New(color.FgRed).SprintFunc()
)

// Root returns the orkestractl command tree.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "orkestractl",
		Short: "Operator tool for the Orkestra back-office",
		Long: `orkestractl manages admin accounts and exports records directly
against the Orkestra MongoDB database.

Connection settings default to ORKESTRA_MONGO_URI and ORKESTRA_MONGO_DATABASE.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&mongoURI, "mongo-uri", envOr("ORKESTRA_MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection URI")
	root.PersistentFlags().StringVar(&mongoDatabase, "db", envOr("ORKESTRA_MONGO_DATABASE", "orkestra"), "MongoDB database name")

	root.AddCommand(AdminCmd())
	root.AddCommand(ExportCmd())
	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// withDB connects, runs fn, and disconnects.
func withDB(cmd *cobra.Command, fn func(ctx context.Context, db *mongo.Database) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI).SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping %s: %w", mongoURI, err)
	}
	return fn(ctx, client.Database(mongoDatabase))
}
