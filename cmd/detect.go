package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alantheprice/vibecode/pkg/entrypoint"
	"github.com/alantheprice/vibecode/pkg/language"
	"github.com/alantheprice/vibecode/pkg/manifest"
	"github.com/alantheprice/vibecode/pkg/utils"
)

var detectManifest string

var detectCmd = &cobra.Command{
	Use:   "detect [path...]",
	Short: "Show which file would be run as the entry point",
	Long: `Scores the given paths, or the files of a JSON manifest passed with
--manifest, and prints the entry point the runner would pick.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := args
		if detectManifest != "" {
			data, err := os.ReadFile(detectManifest)
			if err != nil {
				return utils.NewFileSystemError("read manifest", detectManifest, err)
			}
			files, err := manifest.Decode(string(data))
			if err != nil {
				return fmt.Errorf("decode %s: %w", detectManifest, err)
			}
			paths = append(paths, manifest.Paths(files)...)
		}
		if len(paths) == 0 {
			return utils.NewValidationError("paths", "give paths or --manifest")
		}

		best, ok := entrypoint.Best(paths)
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "No executable file found")
			return nil
		}
		lang := "unknown"
		if h, found := language.Default().Resolve(best.Path); found {
			lang = h.Name
		}
		kind := "score"
		if best.Exact {
			kind = "priority"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, %s %d)\n", best.Path, lang, kind, best.Score)
		return nil
	},
}

func init() {
	detectCmd.Flags().StringVar(&detectManifest, "manifest", "", "Read paths from a JSON manifest file")
}
