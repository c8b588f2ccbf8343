package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"refactorengine/internal/gateway/app"
)

var (
	outPath   string
	overrides []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Refactor once and write the archive",
	Long: `Run a single refactor over the input files and write the resulting zip.
Configuration fields are set with --set key=value, for example
--set targetLanguage=Go --set namingConvention=snake_case.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, done, err := setup()
		if err != nil {
			return err
		}
		defer done()

		engine, err := app.NewEngine(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer engine.Close()

		ws := engine.Workspace
		for _, kv := range overrides {
			key, value, ok := strings.Cut(kv, "=")
			if !ok {
				return fmt.Errorf("invalid --set %q, want key=value", kv)
			}
			if _, err := ws.SetConfigField(strings.TrimSpace(key), value); err != nil {
				return fmt.Errorf("--set %s: %w", key, err)
			}
		}

		res, err := ws.Run(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, res.Summary)
		for _, line := range res.Logs {
			fmt.Fprintf(out, "  - %s\n", line)
		}
		if len(res.Files) == 0 {
			fmt.Fprintln(out, "no files returned; nothing to package")
			return nil
		}

		archive, err := ws.Package()
		if err != nil {
			return err
		}
		path := outPath
		if path == "" {
			path = archive.Name
		}
		if err := os.WriteFile(path, archive.Data, 0o644); err != nil {
			return fmt.Errorf("write archive: %w", err)
		}
		fmt.Fprintf(out, "wrote %d file(s) to %s\n", len(res.Files), path)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&outPath, "out", "o", "", "archive path (default: generated name in the working directory)")
	runCmd.Flags().StringArrayVar(&overrides, "set", nil, "configuration field as key=value (repeatable)")
}
