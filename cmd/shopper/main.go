package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"BriteShop/internal/catalog"
	"BriteShop/internal/config"
	"BriteShop/internal/kv"
	"BriteShop/internal/profile"
	"BriteShop/internal/shoppinglist"
	"BriteShop/pkg/kit"
)

const service = "shopper"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// app holds everything a subcommand needs. It is populated by the root
// command's PersistentPreRunE.
type app struct {
	configPath string
	verbose    bool

	cfg      config.Config
	log      *zap.Logger
	registry *prometheus.Registry
	storage  kv.Store
	profile  *profile.Identity
	lists    *shoppinglist.Store
	catalog  *catalog.Client
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "shopper",
		Short: "Compare grocery prices and keep a shopping list",
		Long: `shopper searches the product catalog, compares per-store prices and keeps a
shopping list on this device.

The list is tied to an anonymous profile id created on first use. Run
"shopper serve" to expose the same operations as a local HTTP API.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", getenv("SHOPPER_CONFIG", "shopper.yaml"), "path to YAML config")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newServeCmd(a),
		newProfileCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newQtyCmd(a),
		newRemoveCmd(a),
		newClearCmd(a),
		newTotalCmd(a),
		newSearchCmd(a),
		newProductCmd(a),
		newStoresCmd(a),
		newCategoriesCmd(a),
		newSubmitCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.verbose {
		level = "debug"
	}
	a.log = kit.NewLogger(service, level)
	a.registry = prometheus.NewRegistry()

	ctx := cmd.Context()
	a.storage, err = kv.Open(ctx, cfg.KV())
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	a.profile = profile.New(a.storage, profile.Deps{
		Log:      a.log,
		Platform: cfg.Profile.Platform,
	})
	profileID := a.profile.ProfileID(ctx)

	stderr := cmd.ErrOrStderr()
	a.lists = shoppinglist.NewStore(a.storage, profileID, shoppinglist.Deps{
		Log:       a.log,
		Metrics:   shoppinglist.NewMetrics(a.registry),
		KeyPrefix: cfg.List.KeyPrefix,
		OnStorageError: func(stage string, err error) {
			fmt.Fprintf(stderr, "warning: shopping list %s failed, changes are kept in memory only: %v\n", stage, err)
		},
	})

	a.catalog = catalog.NewClient(cfg.Catalog.URL, cfg.Catalog.Timeout)

	a.log.Debug("shopper ready",
		zap.String("profile_id", profileID),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("catalog", cfg.Catalog.URL),
	)
	return nil
}

func (a *app) close() {
	if a.storage != nil {
		if err := a.storage.Close(); err != nil && a.log != nil {
			a.log.Warn("close storage failed", zap.Error(err))
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
