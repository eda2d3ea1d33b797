package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sealfile/sealfile/internal/archive"
	"github.com/sealfile/sealfile/internal/erase"
	"github.com/sealfile/sealfile/internal/filehash"
	"github.com/sealfile/sealfile/internal/pipeline"
)

// packFlags holds the archive-enumeration flags shared by "pack encrypt"
// and "pack decrypt", in addition to the cryptoFlags each subcommand
// also carries.
type packFlags struct {
	recursive bool
	exclude   []string
	level     int
}

func NewPackCmd() *cobra.Command {
	flags := &packFlags{}

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack a directory into an encrypted archive, or unpack one",
	}

	cmd.PersistentFlags().BoolVarP(&flags.recursive, "recursive", "r", false, "recurse into subdirectories")
	cmd.PersistentFlags().StringArrayVar(&flags.exclude, "exclude", nil, "glob pattern to exclude (repeatable)")
	cmd.PersistentFlags().IntVar(&flags.level, "level", 6, "bzip2 compression level 1-9")

	cmd.AddCommand(newPackEncryptCmd(flags))
	cmd.AddCommand(newPackDecryptCmd(flags))
	return cmd
}

func newPackEncryptCmd(pf *packFlags) *cobra.Command {
	cf := &cryptoFlags{}
	var inputDir, output string

	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Pack a directory and encrypt the archive",
		Example: `  sealfile pack -r --exclude="*.tmp" encrypt -i ./project -o project.enc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackEncrypt(inputDir, output, pf, cf)
		},
	}
	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "directory to pack (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "encrypted archive output file (required)")
	addCryptoFlags(cmd, cf)
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}

func newPackDecryptCmd(pf *packFlags) *cobra.Command {
	cf := &cryptoFlags{}
	var input, outputDir string

	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt an archive and unpack it into a directory",
		Example: `  sealfile pack decrypt -i project.enc -o ./restored`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackDecrypt(input, outputDir, pf, cf)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "encrypted archive file (required)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory to unpack into (required)")
	addCryptoFlags(cmd, cf)
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}

func runPackEncrypt(inputDir, output string, pf *packFlags, cf *cryptoFlags) (err error) {
	c, err := resolveCipher(cf)
	if err != nil {
		return err
	}
	mode := parseMode(cf)

	ok, err := confirmOverwrite(output, cf)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	suffix, err := archive.RandomSuffix()
	if err != nil {
		return err
	}
	tmp := filepath.Join(filepath.Dir(output), filepath.Base(output)+"."+suffix)
	defer func() {
		if _, statErr := os.Stat(tmp); statErr == nil {
			erase.Erase(tmp, erase.DefaultPasses)
		}
	}()

	if err := archive.Pack(inputDir, tmp, archive.PackOptions{
		Recursive: pf.recursive,
		Exclude:   pf.exclude,
		Level:     pf.level,
	}); err != nil {
		return err
	}

	src := keySource(cf)
	key, err := src.AcquireForEncrypt()
	if err != nil {
		return err
	}
	defer key.Release()

	var hasher *filehash.Hasher
	var hashSink io.Writer
	if cf.hash {
		hasher = filehash.NewHasher()
		hashSink = hasher
	}

	if err := pipeline.EncryptFile(tmp, output, key, c, mode, cf.bench, hashSink); err != nil {
		return err
	}
	if hasher != nil {
		printSuccess(fmt.Sprintf("hash: %s", hasher.SumHex()))
	}

	printSuccess("packed and encrypted " + inputDir + " -> " + output)
	return nil
}

func runPackDecrypt(input, outputDir string, pf *packFlags, cf *cryptoFlags) (err error) {
	c, err := resolveCipher(cf)
	if err != nil {
		return err
	}
	mode := parseMode(cf)

	suffix, err := archive.RandomSuffix()
	if err != nil {
		return err
	}
	tmp := filepath.Join(os.TempDir(), "sealfile-pack-"+suffix)
	defer func() {
		if _, statErr := os.Stat(tmp); statErr == nil {
			erase.Erase(tmp, erase.DefaultPasses)
		}
	}()

	if cf.hash {
		digest, herr := filehash.File(input)
		if herr != nil {
			return herr
		}
		printSuccess(fmt.Sprintf("hash: %s", digest))
	}

	src := keySource(cf)
	key, err := src.AcquireForDecrypt()
	if err != nil {
		return err
	}
	defer key.Release()

	if err := pipeline.DecryptFile(input, tmp, key, c, mode, cf.bench); err != nil {
		return err
	}

	if err := archive.Unpack(tmp, outputDir, archive.UnpackOptions{HidePrompts: cf.skipPrompts}); err != nil {
		return err
	}

	printSuccess("decrypted and unpacked " + input + " -> " + outputDir)
	return nil
}
