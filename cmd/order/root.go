package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/somramnani/hibachi-orders/internal/client"
	"github.com/somramnani/hibachi-orders/internal/enum"
	"github.com/somramnani/hibachi-orders/internal/menu"
	"github.com/somramnani/hibachi-orders/internal/orderform"
)

type globalOpts struct {
	server  string
	mode    string
	timeout time.Duration
}

func rootCmd() *cobra.Command {
	opts := &globalOpts{}

	root := &cobra.Command{
		Use:           "order",
		Short:         "Place hibachi orders from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	server := os.Getenv("HIBACHI_SERVER")
	if server == "" {
		server = "http://localhost:8081"
	}
	pf := root.PersistentFlags()
	pf.StringVar(&opts.server, "server", server, "order intake server (HIBACHI_SERVER)")
	pf.StringVar(&opts.mode, "mode", enum.SelectionSlots, "protein selection: slots (duplicates allowed) or set (distinct)")
	pf.DurationVar(&opts.timeout, "timeout", 30*time.Second, "per-request timeout")

	root.AddCommand(menuCmd(opts), placeCmd(opts), importCmd(opts))
	return root
}

func (o *globalOpts) client() *client.Client {
	return client.New(o.server, &http.Client{Timeout: o.timeout})
}

func (o *globalOpts) newForm(catalog *menu.Catalog) (*orderform.Controller, error) {
	return orderform.New(catalog, o.client(), o.mode)
}

// selectProteins applies resolved catalog values to the form using its mode.
func selectProteins(form *orderform.Controller, values []string) error {
	if form.Mode() == enum.SelectionSet {
		for _, v := range values {
			selected, err := form.ToggleProtein(v)
			if err != nil {
				return err
			}
			if !selected {
				return fmt.Errorf("%s: each protein can be picked once in set mode", v)
			}
		}
		return nil
	}

	if len(values) > orderform.Slots {
		return fmt.Errorf("at most %d proteins, got %d", orderform.Slots, len(values))
	}
	for i, v := range values {
		if err := form.SetProteinSlot(i, v); err != nil {
			return err
		}
	}
	return nil
}

// resolve maps free text ("Lobster Tail", "prawns") to catalog values.
func resolve(m *menu.Matcher, inputs []string) ([]string, error) {
	values := make([]string, 0, len(inputs))
	for _, in := range inputs {
		res := m.Match(in)
		switch res.Status {
		case menu.Matched:
			values = append(values, res.Option.Value)
		case menu.Ambiguous:
			names := make([]string, len(res.Candidates))
			for i, c := range res.Candidates {
				names[i] = c.Value
			}
			return nil, fmt.Errorf("%q matches more than one protein: %v", in, names)
		default:
			return nil, fmt.Errorf("%q is not on the menu", in)
		}
	}
	return values, nil
}
