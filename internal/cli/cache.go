package cli

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tempo/internal/errmsg"
	"github.com/llehouerou/tempo/internal/streamcache"
)

var errCacheDisabled = errors.New("stream cache is disabled (cache.enabled = false)")

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the stream cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "info",
			Short: "Show cache location and size",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withCache(cmd, func(c *streamcache.Cache) error {
					entries, size, err := c.Stats()
					if err != nil {
						return errors.New(errmsg.Format(errmsg.OpCacheStats, err))
					}
					w := out(cmd)
					fmt.Fprintf(w, "Directory: %s\n", c.Dir())
					fmt.Fprintf(w, "Tracks:    %s\n", humanize.Comma(int64(entries)))
					fmt.Fprintf(w, "Size:      %s\n", humanize.Bytes(uint64(size)))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every cached track",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withCache(cmd, func(c *streamcache.Cache) error {
					if err := c.Clear(); err != nil {
						return errors.New(errmsg.Format(errmsg.OpCacheClear, err))
					}
					fmt.Fprintf(out(cmd), "Cleared %s\n", c.Dir())
					return nil
				})
			},
		},
	)
	return cmd
}

func withCache(cmd *cobra.Command, fn func(c *streamcache.Cache) error) error {
	e, err := newEnv(cmd)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer e.Close()

	c, err := e.openCache()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpCacheOpen, err))
	}
	if c == nil {
		return errCacheDisabled
	}
	return fn(c)
}
