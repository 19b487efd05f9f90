package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jasmeetsingh/autoposter/config"
	"github.com/jasmeetsingh/autoposter/internal/history"
)

func historyCMD() *cobra.Command {
	var limit int
	var cfgPath string

	var hist = &cobra.Command{
		Use:   "history",
		Short: "Show recently published posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			store := history.NewStore(cfg.History)
			h, err := store.Load()
			if err != nil {
				return err
			}

			posts := h.Posts
			if limit > 0 && len(posts) > limit {
				posts = posts[len(posts)-limit:]
			}
			if len(posts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no posts recorded yet")
				return nil
			}
			for _, p := range posts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s (%s)\n    %s\n", p.Date, p.Topic, p.PostID, p.PostPreview)
			}
			return nil
		},
	}
	hist.Flags().IntVar(&limit, "limit", 0, "show only the newest N posts (0 = all)")
	hist.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return hist
}
