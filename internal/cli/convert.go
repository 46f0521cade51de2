package cli

import (
	"fmt"

	"antigravity2newapi/internal/convert"
	"antigravity2newapi/internal/core"

	"github.com/spf13/cobra"
)

// NewConvertCmd creates the token converter command
func NewConvertCmd() *cobra.Command {
	return newConvertCmd(core.DefaultAccountsOutputFile)
}

func newConvertCmd(outPath string) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <tokens.txt> [project_id]",
		Short: "Convert a refresh token list into accounts.json",
		Long: `Reads one refresh token per line, skipping blank lines, and writes
` + outPath + ` in the working directory. When project_id is given every
account carries it.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			projectID := ""
			if len(args) > 1 {
				projectID = args[1]
			}

			count, err := convert.ConvertFile(args[0], outPath, projectID)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "已生成 %s，共 %d 个账号\n", outPath, count)
			return nil
		},
	}
}
