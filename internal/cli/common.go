package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sealfile/sealfile/internal/errs"
	"github.com/sealfile/sealfile/internal/keysource"
	"github.com/sealfile/sealfile/internal/pipeline"
	"github.com/sealfile/sealfile/internal/prompt"
	"github.com/sealfile/sealfile/pkg/format"
)

var successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

// cryptoFlags are the flags shared by every command that invokes the
// encryption core; "pack encrypt"/"pack decrypt" reuse the same set
// after their own archive-enumeration flags.
type cryptoFlags struct {
	keyfile     string
	password    bool
	gcm         bool
	xchacha     bool
	stream      bool
	memory      bool
	hash        bool
	skipPrompts bool
	bench       bool
	erase       string // "" means no erase; non-empty (possibly "16") means erase after success
}

func addCryptoFlags(cmd *cobra.Command, f *cryptoFlags) {
	cmd.Flags().StringVarP(&f.keyfile, "keyfile", "k", "", "read the key from this file instead of a password prompt")
	cmd.Flags().BoolVarP(&f.password, "password", "p", false, "read the key from a password prompt (the default when no keyfile is given)")
	cmd.Flags().BoolVarP(&f.gcm, "gcm", "g", false, "use AES-256-GCM")
	cmd.Flags().BoolVarP(&f.xchacha, "xchacha", "x", false, "use XChaCha20-Poly1305 (default cipher)")
	cmd.Flags().BoolVarP(&f.stream, "stream", "s", true, "use stream mode")
	cmd.Flags().BoolVarP(&f.memory, "memory", "m", false, "use memory mode (overrides --stream)")
	cmd.Flags().BoolVarP(&f.hash, "hash", "H", false, "print a BLAKE3 hash of the encrypted artifact")
	cmd.Flags().BoolVarP(&f.skipPrompts, "yes", "y", false, "skip confirmation prompts")
	cmd.Flags().BoolVarP(&f.bench, "bench", "b", false, "run without writing an output file")
	cmd.Flags().StringVar(&f.erase, "erase", "", "securely erase the input file after success; optional pass count (default 16)")
	cmd.Flags().Lookup("erase").NoOptDefVal = "16"
}

// resolveCipher picks the cipher from the mutually exclusive -g/-x flags,
// defaulting to XChaCha20-Poly1305 when neither is given.
func resolveCipher(f *cryptoFlags) (format.Cipher, error) {
	if f.gcm && f.xchacha {
		return 0, errs.New("resolveCipher", errs.KindCipherError, "-g/--gcm and -x/--xchacha are mutually exclusive")
	}
	if f.gcm {
		return format.AES256GCM, nil
	}
	return format.XChaCha20Poly1305, nil
}

func parseMode(f *cryptoFlags) pipeline.Mode {
	if f.memory {
		return pipeline.Memory
	}
	return pipeline.Stream
}

func keySource(f *cryptoFlags) keysource.Source {
	if f.keyfile != "" && !f.password {
		return &keysource.KeyfileSource{Path: f.keyfile}
	}
	return &keysource.PasswordSource{}
}

// confirmOverwrite guards against clobbering an existing output file:
// before creating one, test for existence; if present and prompts are
// not skipped, ask for confirmation. Bench mode never creates an output
// file so it skips this check entirely.
func confirmOverwrite(path string, f *cryptoFlags) (bool, error) {
	if f.bench {
		return true, nil
	}
	if _, err := os.Stat(path); err != nil {
		return true, nil
	}
	return prompt.Confirm(os.Stdin, os.Stdout, path+" already exists, overwrite?", f.skipPrompts, f.skipPrompts)
}

func printSuccess(msg string) {
	fmt.Fprintln(os.Stdout, successStyle.Render(msg))
}
