package cli

import (
	"github.com/spf13/cobra"

	"github.com/sealfile/sealfile/internal/erase"
)

func NewEraseCmd() *cobra.Command {
	var input string
	var passes int

	cmd := &cobra.Command{
		Use:   "erase",
		Short: "Securely overwrite and remove a file",
		Long: `Overwrite a file with multiple passes of random bytes followed by a
zero pass, then truncate and remove it.`,
		Example: `  sealfile erase -i secret.txt --passes=8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if passes <= 0 {
				passes = erase.DefaultPasses
			}
			if err := erase.Erase(input, passes); err != nil {
				return err
			}
			printSuccess("erased " + input)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "file to erase (required)")
	cmd.Flags().IntVar(&passes, "passes", erase.DefaultPasses, "number of random-overwrite passes")
	cmd.MarkFlagRequired("input")

	return cmd
}
