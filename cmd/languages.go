package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alantheprice/vibecode/pkg/config"
	"github.com/alantheprice/vibecode/pkg/language"
	"github.com/alantheprice/vibecode/pkg/process"
)

var languagesCmd = &cobra.Command{
	Use:   "languages [name...]",
	Short: "Show which compilers and interpreters are installed",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		registry := language.Default()
		handlers := registry.Handlers()
		if len(args) > 0 {
			handlers = nil
			for _, name := range args {
				h, ok := registry.Lookup(name)
				if !ok {
					return fmt.Errorf("unknown language %q", name)
				}
				handlers = append(handlers, h)
			}
		}

		ex := process.NewLocalExecutor(nil, cfg.ProbeTimeout())
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "LANGUAGE\tEXTENSIONS\tTOOL\tSTATUS\tVERSION")
		for _, h := range handlers {
			exts := strings.Join(h.Extensions, " ")
			if !h.Executable {
				fmt.Fprintf(tw, "%s\t%s\t-\tnot executable\t\n", h.Name, exts)
				continue
			}
			for _, a := range language.Probe(cmd.Context(), ex, h, cfg.ProbeTimeout()) {
				status := "missing"
				if a.Available {
					status = "ok"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s (%s)\t%s\t%s\n", h.Name, exts, a.Tool, a.Kind, status, a.Version)
			}
		}
		return tw.Flush()
	},
}
