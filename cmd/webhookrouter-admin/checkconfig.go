package main

import (
	"os"
	"strings"
	"text/tabwriter"

	"github.com/target/runner-webhook-router/internal/bootstrap"
)

func runCheckConfig(cmdCtx *commandContext, _ []string) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	table, err := bootstrap.BuildRoutingTable(cfg.Routing)
	if err != nil {
		return err
	}

	if headerErr := writef(os.Stdout, "\nRouting Table\n"); headerErr != nil {
		return headerErr
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if _, err := w.Write([]byte("Flavor\tLabels\tStream\n")); err != nil {
		return err
	}
	for _, fl := range cfg.Routing.FlavorLabels {
		line := fl.Flavor + "\t" + strings.Join(fl.Labels, ", ") + "\t" + cfg.Redis.StreamPrefix + fl.Flavor + "\n"
		if _, err := w.Write([]byte(line)); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if err := writef(os.Stdout, "\nDefault flavor: %s\n", table.DefaultFlavor()); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Ignored labels: %s\n", strings.Join(cfg.Routing.IgnoreLabels, ", ")); err != nil {
		return err
	}

	cmdCtx.Logger.Info("configuration is valid", "flavors", table.Flavors())
	return nil
}
