package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dshills/quill/internal/cache"
	"github.com/dshills/quill/internal/config"
	"github.com/spf13/cobra"
)

var (
	cacheClearExpired bool
	cacheShowJSON     bool
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the suggestion cache",
}

// openCache opens the configured cache directory regardless of the enabled
// setting, so entries left from an earlier enabled run can still be managed.
func openCache() (*cache.Cache, config.Config, error) {
	cfg, err := config.Load(nil)
	if err != nil {
		return nil, cfg, err
	}
	c, err := cache.New(true, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		return nil, cfg, fmt.Errorf("opening cache: %w", err)
	}
	return c, cfg, nil
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached suggestions",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := openCache()
		if err != nil {
			return err
		}
		if cacheClearExpired {
			n, err := c.Prune()
			if err != nil {
				return fmt.Errorf("pruning cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries from %s.\n", n, c.Dir())
			return nil
		}
		n, err := c.Clear()
		if err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared (%d entries removed).\n", n)
		return nil
	},
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show cache location and statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cfg, err := openCache()
		if err != nil {
			return err
		}
		stats, err := c.GetStats()
		if err != nil {
			return fmt.Errorf("reading cache stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if cacheShowJSON {
			data, err := json.MarshalIndent(struct {
				Enabled bool `json:"enabled"`
				cache.Stats
			}{cfg.Cache.Enabled, stats}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		state := "enabled"
		if !cfg.Cache.Enabled {
			state = "disabled (enable with: quill config set cache.enabled true)"
		}
		ttl := "never expires"
		if stats.TTLSeconds > 0 {
			ttl = (time.Duration(stats.TTLSeconds) * time.Second).String()
		}
		fmt.Fprintf(out, "Cache:   %s\n", state)
		fmt.Fprintf(out, "Dir:     %s\n", stats.Dir)
		fmt.Fprintf(out, "TTL:     %s\n", ttl)
		fmt.Fprintf(out, "Entries: %d (%d expired, %d bytes)\n", stats.Entries, stats.Expired, stats.TotalBytes)
		return nil
	},
}

func init() {
	cacheClearCmd.Flags().BoolVar(&cacheClearExpired, "expired", false, "Only remove expired entries")
	cacheShowCmd.Flags().BoolVar(&cacheShowJSON, "json", false, "Print statistics as JSON")
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheShowCmd)
}
