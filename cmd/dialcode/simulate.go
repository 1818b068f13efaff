package main

import (
	"fmt"
	"os"

	"github.com/aretw0/dialcode/internal/cli"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play the gateway in the terminal",
	Long: `Runs an interactive USSD session against the engine. Each line is sent as the
gateway's USERDATA; the first line of a session carries the first-contact flag.
When a session ends the next line starts a new one.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := mustLoadConfig(cmd)
		userID, _ := cmd.Flags().GetString("user")
		msisdn, _ := cmd.Flags().GetString("msisdn")
		jsonMode, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		stack, err := cli.BuildEngine(sigCtx, cfg, logger)
		if err != nil {
			fmt.Printf("Error initializing dialcode: %v\n", err)
			os.Exit(1)
		}
		defer stack.Close()

		err = cli.RunSimulator(sigCtx, stack.Engine, cli.SimulateOptions{
			UserID: userID,
			MSISDN: msisdn,
			JSON:   jsonMode,
			Plain:  plain,
		}, logger)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if sig := sigCtx.Signal(); sig != nil && !jsonMode {
			fmt.Println()
		}
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().String("user", "dialcode", "Application id sent as USERID")
	simulateCmd.Flags().String("msisdn", "0000000000", "Phone number sent as MSISDN")
	simulateCmd.Flags().Bool("json", false, "Use JSON-Lines IO")
	simulateCmd.Flags().Bool("plain", false, "Disable banner and markdown rendering")
}
