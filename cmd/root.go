package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// planFlag selects the active plan, overriding SCATTERBRAIN_PLAN_ID.
	planFlag string
	// version is the application version.
	version = "0.3.0"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "scatterbrain",
	Short: "Scatterbrain keeps hierarchical task plans for autonomous agents.",
	Long: `Scatterbrain maintains hierarchical task plans annotated with a fixed
ladder of abstraction levels. Run 'scatterbrain serve' to start the HTTP
server, 'scatterbrain mcp' to expose the plans as MCP tools, and the other
commands to drive a plan from the shell.

Most commands need an active plan: pass --plan <id> or set the
SCATTERBRAIN_PLAN_ID environment variable.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.scatterbrain.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&planFlag, "plan", "p", "", "active plan ID (overrides SCATTERBRAIN_PLAN_ID)")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}
