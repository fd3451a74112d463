package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/justyntemme/launchpad/internal/catalog"
	"github.com/justyntemme/launchpad/internal/config"
	"github.com/justyntemme/launchpad/internal/model"
	"github.com/justyntemme/launchpad/internal/search"
	"github.com/justyntemme/launchpad/internal/store"
)

// loadConfig reads the config the launcher window would use.
func loadConfig() (*config.Manager, error) {
	m := config.NewManager()
	if err := m.Load(); err != nil {
		return nil, err
	}
	return m, nil
}

func openStore(m *config.Manager) (*store.DB, error) {
	db := store.NewDB()
	if err := db.Open(m.Env().DBPath()); err != nil {
		return nil, err
	}
	return db, nil
}

func catalogDirs(cfg config.Config) []string {
	if len(cfg.Catalog.Dirs) > 0 {
		return cfg.Catalog.Dirs
	}
	return catalog.DefaultDirs()
}

// loadLibrary scans the catalog and restores the saved layout over it.
func loadLibrary(ctx context.Context, m *config.Manager) (*model.Library, error) {
	items, err := catalog.Scan(ctx, catalogDirs(m.Get()))
	if err != nil {
		return nil, fmt.Errorf("scan applications: %w", err)
	}
	db, err := openStore(m)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	orders, err := db.LoadOrders()
	if err != nil {
		return nil, err
	}
	folders, err := db.LoadFolders()
	if err != nil {
		return nil, err
	}
	lib := model.NewLibrary(m.Snapshot())
	lib.Restore(items, orders, folders)
	return lib, nil
}

func installedAge(it model.Item) string {
	if it.InstalledAt.IsZero() {
		return "-"
	}
	return humanize.RelTime(it.InstalledAt, time.Now(), "ago", "from now")
}

func newListCmd() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications in launcher order",
		Long: `List the applications the launcher shows, in saved order. Folders
are expanded beneath their name.

With --query the list is replaced by search results, best match first.
The query accepts the same directives as the search box, for example
"cat:graphics" or "installed:>week".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadConfig()
			if err != nil {
				return err
			}
			lib, err := loadLibrary(cmd.Context(), m)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "NAME\tKEY\tINSTALLED")
			if query != "" {
				for _, it := range search.Filter(lib.Apps(), query) {
					writeItem(w, it, "")
				}
				return nil
			}
			for _, it := range lib.Collection(model.All).Items() {
				writeItem(w, it, "")
				if !it.IsDir {
					continue
				}
				for _, child := range lib.Folder(it.Key).Items() {
					writeItem(w, child, "  ")
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Search query")
	return cmd
}

func writeItem(w io.Writer, it model.Item, indent string) {
	name := it.Name
	if it.IsDir {
		name += "/"
	}
	fmt.Fprintf(w, "%s%s\t%s\t%s\n", indent, name, it.Key, installedAge(it))
}

func newOrderCmd() *cobra.Command {
	orderCmd := &cobra.Command{
		Use:   "order",
		Short: "Inspect or reset saved orders",
		Long: `Saved orders are named "all", "favorite" or "dir:<folder key>".

Commands:
  list   - Show every saved order
  show   - Print one saved order
  reset  - Forget one saved order`,
	}
	orderCmd.AddCommand(newOrderListCmd())
	orderCmd.AddCommand(newOrderShowCmd())
	orderCmd.AddCommand(newOrderResetCmd())
	return orderCmd
}

// withStore runs fn against the configured database.
func withStore(fn func(db *store.DB) error) error {
	m, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openStore(m)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

func newOrderListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every saved order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(db *store.DB) error {
				orders, err := db.LoadOrders()
				if err != nil {
					return err
				}
				keys, err := db.OrderKeys()
				if err != nil {
					return err
				}
				for _, k := range keys {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d items\n", k, len(orders[k]))
				}
				return nil
			})
		},
	}
}

func newOrderShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <order>",
		Short: "Print one saved order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := model.ParseOrderKey(args[0]); err != nil {
				return err
			}
			return withStore(func(db *store.DB) error {
				keys, err := db.LoadOrder(args[0])
				if err != nil {
					return err
				}
				if len(keys) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "no saved order for %s\n", args[0])
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(keys, "\n"))
				return nil
			})
		},
	}
}

func newOrderResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <order>",
		Short: "Forget one saved order",
		Long: `Forget one saved order. The next launch lays the sequence out again
by application name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := model.ParseOrderKey(args[0]); err != nil {
				return err
			}
			return withStore(func(db *store.DB) error {
				if err := db.DeleteOrder(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reset %s\n", args[0])
				return nil
			})
		},
	}
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the launcher configuration",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := config.LoadEnv()
			if err != nil {
				return err
			}
			path := env.Config
			if path == "" {
				path = config.ConfigPath()
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Write a fresh default configuration",
		Long: `Write a fresh default configuration. An existing file is kept as
config.backup.<timestamp>.json next to it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := config.LoadEnv()
			if err != nil {
				return err
			}
			path := env.Config
			if path == "" {
				path = config.ConfigPath()
			}
			backup, err := config.GenerateConfig(path)
			if err != nil {
				return err
			}
			if backup != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "backed up %s\n", backup)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	})
	return configCmd
}
