package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/aretw0/dialcode/internal/cli"
	"github.com/aretw0/dialcode/internal/config"
	"github.com/aretw0/dialcode/internal/presentation/graph"
	"github.com/aretw0/dialcode/pkg/dial"
	"github.com/aretw0/dialcode/pkg/domain"
	"github.com/aretw0/dialcode/pkg/menu"
	"github.com/aretw0/dialcode/pkg/ports"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"sessions"},
	Short:   "Inspect and manage stored dialog sessions",
	Long: `Lists, shows and removes sessions kept by the configured store.
The memory store lives inside a single process, so these commands are only
useful against a shared backend such as redis.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List active sessions",
	Run: func(cmd *cobra.Command, args []string) {
		store, cfg := mustOpenStore(cmd)
		defer closeStore(store)

		ids, err := store.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing sessions: %v\n", err)
			os.Exit(1)
		}
		if len(ids) == 0 {
			fmt.Printf("No active sessions (store: %s)\n", cfg.Store.Driver)
			return
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Println(id)
		}
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show a session's state",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, cfg := mustOpenStore(cmd)
		defer closeStore(store)
		withGraph, _ := cmd.Flags().GetBool("graph")

		sess, err := store.Load(cmd.Context(), args[0])
		if errors.Is(err, domain.ErrSessionNotFound) {
			fmt.Printf("Session %q not found\n", args[0])
			os.Exit(1)
		}
		if err != nil {
			fmt.Printf("Error loading session: %v\n", err)
			os.Exit(1)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(sess)

		if withGraph {
			code := dial.ParseAccessCode(cfg.Dial.AccessCode)
			fmt.Println()
			fmt.Println(graph.GenerateMermaid(menu.Default(), code, sessionOverlay(sess)))
		}
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm [session-id...]",
	Short: "Remove sessions",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, _ := mustOpenStore(cmd)
		defer closeStore(store)

		for _, id := range args {
			if err := store.Delete(cmd.Context(), id); err != nil {
				fmt.Printf("Error removing %s: %v\n", id, err)
				os.Exit(1)
			}
			fmt.Printf("Removed %s\n", id)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd, sessionShowCmd, sessionRmCmd)
	sessionShowCmd.Flags().Bool("graph", false, "Append a mermaid graph highlighting the session's position")
}

func mustOpenStore(cmd *cobra.Command) (ports.SessionStore, config.Config) {
	cfg, _ := mustLoadConfig(cmd)
	store, err := cli.OpenStore(cmd.Context(), cfg)
	if err != nil {
		fmt.Printf("Error opening store: %v\n", err)
		os.Exit(1)
	}
	return store, cfg
}

func closeStore(store ports.SessionStore) {
	if c, ok := store.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}

func sessionOverlay(s *domain.Session) *graph.GraphOverlay {
	overlay := &graph.GraphOverlay{CurrentScreen: s.Screen}
	for n := 1; n < s.Screen; n++ {
		overlay.Answered = append(overlay.Answered, n)
	}
	return overlay
}
