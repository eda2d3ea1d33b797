package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sealfile/sealfile/internal/erase"
	"github.com/sealfile/sealfile/internal/filehash"
	"github.com/sealfile/sealfile/internal/pipeline"
)

func NewEncryptCmd() *cobra.Command {
	flags := &cryptoFlags{}
	var input, output string

	cmd := &cobra.Command{
		Use:     "encrypt",
		Aliases: []string{"e"},
		Short:   "Encrypt a file",
		Long: `Encrypt a file with AES-256-GCM or XChaCha20-Poly1305, deriving the key
from a password or a keyfile with Argon2id.`,
		Example: `  # Encrypt with a password, stream mode (default)
  sealfile encrypt -i secret.txt -o secret.txt.enc

  # Encrypt with a keyfile, AES-256-GCM, and erase the plaintext after
  sealfile encrypt -i secret.txt -o secret.txt.enc -k keyfile.bin -g --erase`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncrypt(input, output, flags)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "plaintext input file (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "encrypted output file (required)")
	addCryptoFlags(cmd, flags)
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")

	return cmd
}

func runEncrypt(input, output string, flags *cryptoFlags) error {
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
	key, err := src.AcquireForEncrypt()
	if err != nil {
		return err
	}
	defer key.Release()

	var hasher *filehash.Hasher
	var hashSink io.Writer
	if flags.hash {
		hasher = filehash.NewHasher()
		hashSink = hasher
	}

	if err := pipeline.EncryptFile(input, output, key, c, mode, flags.bench, hashSink); err != nil {
		return err
	}

	if hasher != nil {
		printSuccess(fmt.Sprintf("hash: %s", hasher.SumHex()))
	}

	if flags.erase != "" {
		passes, perr := strconv.Atoi(flags.erase)
		if perr != nil || passes <= 0 {
			passes = erase.DefaultPasses
		}
		if err := erase.Erase(input, passes); err != nil {
			return err
		}
		printSuccess("plaintext input securely erased")
	}

	if !flags.bench {
		printSuccess("encrypted " + input + " -> " + output)
	}
	return nil
}
