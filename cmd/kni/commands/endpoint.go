package commands

import (
	"fmt"

	"kamar-notices/lib/platforms/kamar"

	"github.com/spf13/cobra"
)

var endpointHttp *bool

func init() {
	endpointHttp = endpointCmd.Flags().Bool("http", false, "Use http instead of https when the host has no scheme.")
	rootCmd.AddCommand(endpointCmd)
}

var endpointCmd = &cobra.Command{
	Use:   "endpoint <host>",
	Short: "Prints the api url that would be used for a host.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), kamar.EndpointUrl(args[0], !*endpointHttp))
	},
}
