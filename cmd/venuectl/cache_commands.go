package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear the local response cache",
	}

	cacheCmd.AddCommand(newCacheShowCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List cached scopes and their ages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cache := ctx.cacheStore()
			if cache == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache is disabled")
				return nil
			}
			defer cache.Close()

			entries, err := cache.Entries(cmd.Context())
			if err != nil {
				return fmt.Errorf("read cache: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache is empty")
				return nil
			}

			ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				freshness := "stale"
				if entry.Fresh(ttl) {
					freshness = "fresh"
				}
				rows = append(rows, []string{
					entry.Scope,
					formatAge(entry.Age()),
					freshness,
					formatBytesInt64(int64(len(entry.Payload))),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Scope", "Age", "Freshness", "Size"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight},
			))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache := ctx.cacheStore()
			if cache == nil {
				return errors.New("cache is disabled")
			}
			defer cache.Close()

			if err := cache.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
			return nil
		},
	}
}
