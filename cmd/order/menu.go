package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/somramnani/hibachi-orders/internal/menu"
)

func menuCmd(opts *globalOpts) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "List the protein options and prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer w.Flush()

			if !offline {
				cat, err := opts.client().Catalog(cmd.Context())
				if err == nil {
					fmt.Fprintf(w, "Base price\t%s%s\n\n", cat.Currency, cat.BasePrice)
					fmt.Fprintln(w, "VALUE\tLABEL\tSURCHARGE")
					for _, p := range cat.Proteins {
						fmt.Fprintf(w, "%s\t%s\t%s%s\n", p.Value, p.Label, cat.Currency, p.Price)
					}
					return nil
				}
				log.Warn().Err(err).Msg("server catalog unavailable, showing built-in menu")
			}

			catalog, err := menu.Default()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Base price\t%s\n\n", catalog.Format(catalog.BasePrice()))
			fmt.Fprintln(w, "VALUE\tLABEL\tSURCHARGE")
			for _, o := range catalog.Options() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", o.Value, o.Label, catalog.Format(o.Price))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "use the built-in menu without contacting the server")
	return cmd
}
