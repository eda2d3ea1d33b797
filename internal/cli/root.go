package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the root CLI command.
func NewRootCommand(version, buildTime, gitCommit string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sealfile",
		Short: "Authenticated file encryption with a streaming core",
		Long: `sealfile encrypts and decrypts files using AES-256-GCM or
XChaCha20-Poly1305, deriving keys from a password or keyfile with Argon2id.
It supports whole-file and streaming I/O modes, secure multi-pass erasure,
and an archive mode for encrypting entire directories.`,
		Version: fmt.Sprintf("%s (built: %s, commit: %s)", version, buildTime, gitCommit),
	}

	rootCmd.AddCommand(NewEncryptCmd())
	rootCmd.AddCommand(NewDecryptCmd())
	rootCmd.AddCommand(NewEraseCmd())
	rootCmd.AddCommand(NewHashCmd())
	rootCmd.AddCommand(NewPackCmd())

	return rootCmd
}
