package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	bip39 "github.com/cosmos/go-bip39"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	pfkeyring "github.com/oracle-feeder/voter/pkg/keyring"
)

const (
	flagKeyringDir    = "keystore"
	minPassphraseLen  = 8
	mnemonicWordCount = 24
)

var updateKeyCmd = &cobra.Command{
	Use:   "update-key",
	Short: "Write a new encrypted keystore from a passphrase and mnemonic",
	Long: `Interactively prompts for a passphrase (minimum 8 characters, entered
twice for confirmation) and a 24-word BIP39 mnemonic, then writes an
encrypted keystore file that the vote command's software signer can open.`,
	RunE: updateKeyCmdHandler,
}

func init() {
	updateKeyCmd.Flags().String(flagKeyringDir, "", "directory to write the keystore into")
	_ = updateKeyCmd.MarkFlagRequired(flagKeyringDir)
}

func updateKeyCmdHandler(cmd *cobra.Command, _ []string) error {
	dir, err := cmd.Flags().GetString(flagKeyringDir)
	if err != nil {
		return err
	}

	pass, err := promptNewPassphrase()
	if err != nil {
		return err
	}

	mnemonic, err := promptMnemonic()
	if err != nil {
		return err
	}

	addr, err := pfkeyring.PersistMnemonic(dir, pfkeyring.BackendFile, "default", mnemonic, pass)
	if err != nil {
		return fmt.Errorf("failed to write keystore: %w", err)
	}

	fmt.Printf("keystore written to %s for address %s\n", dir, addr.String())
	return nil
}

// promptNewPassphrase reads a passphrase twice from the terminal, without
// echo, and fails if the two entries don't match or are too short.
func promptNewPassphrase() (string, error) {
	fmt.Print("Enter a new keystore passphrase (min 8 characters): ")
	pass, err := readPassword()
	if err != nil {
		return "", err
	}
	if len(pass) < minPassphraseLen {
		return "", fmt.Errorf("passphrase must be at least %d characters", minPassphraseLen)
	}

	fmt.Print("Confirm passphrase: ")
	confirm, err := readPassword()
	if err != nil {
		return "", err
	}
	if pass != confirm {
		return "", fmt.Errorf("passphrases do not match")
	}

	return pass, nil
}

func readPassword() (string, error) {
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// promptMnemonic reads a 24-word BIP39 mnemonic from stdin and validates it.
func promptMnemonic() (string, error) {
	fmt.Println("Enter your 24-word mnemonic:")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}

	mnemonic := strings.TrimSpace(line)
	words := strings.Fields(mnemonic)
	if len(words) != mnemonicWordCount {
		return "", fmt.Errorf("expected a 24-word mnemonic, got %d words", len(words))
	}
	if !bip39.IsMnemonicValid(mnemonic) {
		return "", fmt.Errorf("mnemonic failed BIP39 checksum validation")
	}

	return mnemonic, nil
}
