package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sealfile/sealfile/internal/erase"
	"github.com/sealfile/sealfile/internal/filehash"
	"github.com/sealfile/sealfile/internal/pipeline"
)

func NewDecryptCmd() *cobra.Command {
	flags := &cryptoFlags{}
	var input, output string

	cmd := &cobra.Command{
		Use:     "decrypt",
		Aliases: []string{"d"},
		Short:   "Decrypt a file",
		Long:    `Decrypt a file previously produced by "sealfile encrypt".`,
		Example: `  # Decrypt with a password
  sealfile decrypt -i secret.txt.enc -o secret.txt

  # Decrypt with a keyfile, memory mode
  sealfile decrypt -i secret.txt.enc -o secret.txt -k keyfile.bin -m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecrypt(input, output, flags)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "encrypted input file (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "decrypted output file (required)")
	addCryptoFlags(cmd, flags)
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")

	return cmd
}

func runDecrypt(input, output string, flags *cryptoFlags) error {
	c, err := resolveCipher(flags)
	if err != nil {
		return err
	}
	mode := parseMode(flags)

	ok, err := confirmOverwrite(output, flags)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	src := keySource(flags)
	key, err := src.AcquireForDecrypt()
	if err != nil {
		return err
	}
	defer key.Release()

	if flags.hash {
		digest, herr := filehash.File(input)
		if herr != nil {
			return herr
		}
		printSuccess(fmt.Sprintf("hash: %s", digest))
	}

	if err := pipeline.DecryptFile(input, output, key, c, mode, flags.bench); err != nil {
		return err
	}

	if flags.erase != "" {
		passes, perr := strconv.Atoi(flags.erase)
		if perr != nil || passes <= 0 {
			passes = erase.DefaultPasses
		}
		if err := erase.Erase(input, passes); err != nil {
			return err
		}
		printSuccess("encrypted input securely erased")
	}

	if !flags.bench {
		printSuccess("decrypted " + input + " -> " + output)
	}
	return nil
}
