package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/dialcode"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of dialcode",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dialcode version %s\n", strings.TrimSpace(dialcode.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
