package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/dialcode"
	"github.com/aretw0/dialcode/internal/cli"
	"github.com/aretw0/dialcode/internal/presentation/graph"
	"github.com/aretw0/dialcode/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Describe the menu tree",
	Long: `Prints the menu tree served by the engine, including the dial-string shortcuts
that reach each screen.

Formats:
- markdown (default): human readable, rendered when stdout is a terminal.
- mermaid: flowchart definition.
- json: the raw menu.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := mustLoadConfig(cmd)
		format, _ := cmd.Flags().GetString("format")

		// The menu needs no store.
		engine, err := dialcode.New(
			dialcode.WithAccessCode(cfg.Dial.AccessCode),
			dialcode.WithLogger(logger),
		)
		if err != nil {
			fmt.Printf("Error initializing dialcode: %v\n", err)
			os.Exit(1)
		}
		defer engine.Close()

		m := engine.Menu()
		code := engine.AccessCode()

		switch format {
		case "mermaid":
			fmt.Println(graph.GenerateMermaid(m, code, nil))
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(m); err != nil {
				fmt.Printf("Error encoding menu: %v\n", err)
				os.Exit(1)
			}
		case "markdown", "md":
			doc := graph.GenerateMarkdown(m, code)
			if cli.IsTerminal(os.Stdout) {
				if render, err := tui.NewRenderer(); err == nil {
					if out, err := render(doc); err == nil {
						doc = out
					}
				}
			}
			fmt.Print(doc)
		default:
			fmt.Printf("Unknown format: %s. Supported: markdown, mermaid, json\n", format)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(menuCmd)
	menuCmd.Flags().StringP("format", "f", "markdown", "Output format: markdown, mermaid or json")
}
