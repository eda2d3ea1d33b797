package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sealfile/sealfile/internal/errs"
	"github.com/sealfile/sealfile/internal/filehash"
)

func NewHashCmd() *cobra.Command {
	var input string
	var memory, stream bool

	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Compute a BLAKE3 hash of a file",
		Example: `  sealfile hash -i secret.txt.enc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var digest string
			var err error
			if memory {
				digest, err = hashFromMemory(input)
			} else {
				digest, err = filehash.File(input)
			}
			_ = stream // stream is the default and needs no separate path
			if err != nil {
				return err
			}
			printSuccess(digest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "file to hash (required)")
	cmd.Flags().BoolVarP(&memory, "memory", "m", false, "load the file into memory before hashing")
	cmd.Flags().BoolVarP(&stream, "stream", "s", true, "hash the file as a stream (default)")
	cmd.MarkFlagRequired("input")

	return cmd
}

func hashFromMemory(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errs.Wrap("hashFromMemory", errs.KindIoError, "failed to read file", err)
	}
	h := filehash.NewHasher()
	if _, err := h.Write(data); err != nil {
		return "", errs.Wrap("hashFromMemory", errs.KindInternalError, "failed to hash buffer", err)
	}
	return h.SumHex(), nil
}
