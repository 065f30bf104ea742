package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/somramnani/hibachi-orders/internal/intake"
	"github.com/somramnani/hibachi-orders/internal/menu"
	"github.com/somramnani/hibachi-orders/internal/orderform"
)

func importCmd(opts *globalOpts) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Submit a list of orders, one per line (\"-\" reads stdin)",
		Long: `Each line reads "Guest Name: protein, protein, protein | notes".
Blank lines and lines starting with # are ignored. Protein names are
matched loosely, so "Lobster Tail" and "filet" both resolve.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			text, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			catalog, err := menu.Default()
			if err != nil {
				return err
			}
			batch, err := intake.ParseBatch(text, menu.NewMatcher(catalog))
			if err != nil {
				return err
			}
			for _, w := range batch.Warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
			}

			var failed int
			for _, e := range batch.Entries {
				form, err := opts.newForm(catalog)
				if err != nil {
					return err
				}
				if err := fill(form, e); err != nil {
					failed++
					fmt.Fprintf(out, "line %d: %s: %v\n", e.Line, e.GuestName, err)
					continue
				}

				total := catalog.Format(form.LivePrice().Total)
				if dryRun {
					fmt.Fprintf(out, "line %d: %s %v %s\n", e.Line, e.GuestName, e.Proteins, total)
					continue
				}

				receipt, err := form.Submit(cmd.Context())
				if err != nil {
					failed++
					log.Warn().Err(err).Int("line", e.Line).Str("guest", e.GuestName).Msg("order not submitted")
					fmt.Fprintf(out, "line %d: %s\n", e.Line, orderform.AlertMessage(err))
					continue
				}
				fmt.Fprintf(out, "line %d: %s (%s, %s)\n", e.Line, receipt.Message, receipt.OrderID, total)
			}

			verb := "submitted"
			if dryRun {
				verb = "priced"
			}
			fmt.Fprintf(out, "%d %s, %d failed, %d skipped\n",
				len(batch.Entries)-failed, verb, failed, len(batch.Warnings))
			if failed > 0 {
				return fmt.Errorf("%d orders failed", failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and price the list without submitting")
	return cmd
}

func fill(form *orderform.Controller, e intake.Entry) error {
	if err := form.EditField(orderform.FieldGuestName, e.GuestName); err != nil {
		return err
	}
	if err := form.EditField(orderform.FieldAdditionalNotes, e.AdditionalNotes); err != nil {
		return err
	}
	return selectProteins(form, e.Proteins)
}

func readInput(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read order list: %w", err)
	}
	return string(b), nil
}
