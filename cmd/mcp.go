package cmd

import (
	"github.com/spf13/cobra"

	"github.com/endora-app/endoscope/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Endoscope MCP server",
	Long:  `Launch an MCP server that allows AI agents to run engagement and retention queries via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Suppress the normal header logs when running in MCP mode
		// to avoid polluting stdio which is used for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		src, err := openSource()
		if err != nil {
			return err
		}
		defer func() { _ = src.Close() }()

		return mcp.StartMCPServer(rootCtx, cfg, src, cacheManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
