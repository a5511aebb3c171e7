package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	taohttp "github.com/taobot/taobot/http"
)

// newSpecCmd creates the 'spec' subcommand, which prints the OpenAPI document
// served at the JSON docs path.
func newSpecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spec",
		Short: "Print the OpenAPI document",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cfg.Docs.Disabled = false
			app, err := taohttp.NewApplication(context.Background(), cfg)
			if err != nil {
				return err
			}
			if err := app.Ready(cmd.Context()); err != nil {
				return err
			}
			data, err := app.Docs().JSON()
			if err != nil {
				return err
			}
			var out bytes.Buffer
			if err := json.Indent(&out, data, "", "  "); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.String())
			return nil
		},
	}
}
