package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vibecode",
	Short: "Iterative LLM coding agent",
	Long: `Vibecode asks a language model for a complete project as a JSON file
manifest, writes it to disk, compiles and runs the detected entry point and
feeds the result back to the model until the program works.

Available commands:
  solve      - Generate, run and refine a project for a task
  languages  - Show which compilers and interpreters are installed
  detect     - Show which file would be run as the entry point
  version    - Print version information

Try: vibecode solve "write a script that prints hello"`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(detectCmd)
}
