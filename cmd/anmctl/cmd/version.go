package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/good-yellow-bee/adminnotices/pkg/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if output == "json" {
			data, _ := json.MarshalIndent(config.Current("anmctl"), "", "  ")
			fmt.Println(string(data))
			return
		}
		fmt.Println(config.Current("anmctl"))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
