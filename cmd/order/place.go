package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/somramnani/hibachi-orders/internal/menu"
	"github.com/somramnani/hibachi-orders/internal/orderform"
)

func placeCmd(opts *globalOpts) *cobra.Command {
	var (
		name     string
		proteins []string
		notes    string
	)

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Submit a single order",
		Example: `  order place --name "Jane Doe" --protein chicken --protein steak --protein "lobster tail"
  order place --mode set --name "Sam" -p shrimp -p scallops -p salmon --notes "no onions"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			catalog, err := menu.Default()
			if err != nil {
				return err
			}

			if isInteractive(cmd.InOrStdin()) {
				in := bufio.NewReader(cmd.InOrStdin())
				if name == "" {
					name = prompt(in, out, "Guest name: ")
				}
				for i := len(proteins); i < orderform.Slots; i++ {
					proteins = append(proteins, prompt(in, out, fmt.Sprintf("Protein %d: ", i+1)))
				}
			}

			form, err := opts.newForm(catalog)
			if err != nil {
				return err
			}
			if err := form.EditField(orderform.FieldGuestName, name); err != nil {
				return err
			}
			if err := form.EditField(orderform.FieldAdditionalNotes, notes); err != nil {
				return err
			}

			values, err := resolve(menu.NewMatcher(catalog), proteins)
			if err != nil {
				return err
			}
			if err := selectProteins(form, values); err != nil {
				return err
			}

			fmt.Fprintln(out, form.SelectionHint())
			fmt.Fprintf(out, "Total: %s\n", catalog.Format(form.LivePrice().Total))

			receipt, err := form.Submit(cmd.Context())
			if err != nil {
				return errors.New(orderform.AlertMessage(err))
			}
			fmt.Fprintln(out, receipt.Message)
			fmt.Fprintf(out, "Order %s at %s\n", receipt.OrderID, receipt.SubmittedAt)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&name, "name", "n", "", "guest name")
	f.StringArrayVarP(&proteins, "protein", "p", nil, "protein choice, repeat three times")
	f.StringVar(&notes, "notes", "", "additional notes")
	return cmd
}

// isInteractive reports whether r is a terminal we can prompt on.
func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func prompt(in *bufio.Reader, out io.Writer, label string) string {
	fmt.Fprint(out, label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}
