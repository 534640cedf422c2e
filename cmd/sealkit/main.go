// Command sealkit signs, verifies, encrypts, and decrypts messages from
// the command line. The secret comes from --secret-file or the
// SEALKIT_SECRET environment variable; a .env file in the working
// directory is loaded if present.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sealkit/sealkit"
)

var (
	secretFile string
	signSecret string
	urlSafe    bool
	digestName string
	cipherName string
	kdfName    string
	kdfSalt    string
	purpose    string
	ttl        time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "sealkit",
	Short: "Sign, verify, encrypt, and decrypt tamper-proof message tokens",
	Long: `sealkit generates and checks signed (and optionally encrypted) text
tokens. Signed tokens are readable but tamper-proof; encrypted tokens are
also confidential. Tokens carry optional purpose and expiry claims that
are covered by the signature.`,
	SilenceUsage: true,
}

var signCmd = &cobra.Command{
	Use:   "sign [message]",
	Short: "Sign a message and print the token",
	Long:  "Sign a message (argument or stdin) and print the signed token. The message travels in clear text inside the token.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSign,
}

var verifyCmd = &cobra.Command{
	Use:   "verify [token]",
	Short: "Verify a signed token and print the message",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runVerify,
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt [message]",
	Short: "Encrypt and sign a message and print the token",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEncrypt,
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt [token]",
	Short: "Decrypt and verify a token and print the message",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDecrypt,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&secretFile, "secret-file", "", "file holding the secret (default: SEALKIT_SECRET env var)")
	rootCmd.PersistentFlags().BoolVar(&urlSafe, "url-safe", false, "emit and accept URL-safe tokens")
	rootCmd.PersistentFlags().StringVar(&digestName, "digest", "", "HMAC digest: sha1, sha256, sha384, sha512, blake3")
	rootCmd.PersistentFlags().StringVar(&purpose, "purpose", "", "purpose claim the token is bound to")

	signCmd.Flags().DurationVar(&ttl, "ttl", 0, "expire the token after this duration (e.g. 24h)")
	encryptCmd.Flags().DurationVar(&ttl, "ttl", 0, "expire the token after this duration (e.g. 24h)")

	for _, c := range []*cobra.Command{encryptCmd, decryptCmd} {
		c.Flags().StringVar(&cipherName, "cipher", "", "cipher suite: aes-256-gcm, aes-256-cbc, xchacha20-poly1305, ascon-128")
		c.Flags().StringVar(&kdfName, "kdf", "", "derive the key from the secret: pbkdf2, hkdf, argon2id")
		c.Flags().StringVar(&kdfSalt, "kdf-salt", "", "salt for key derivation")
		c.Flags().StringVar(&signSecret, "signing-secret", "", "separate secret for the outer signature (non-AEAD ciphers)")
	}

	rootCmd.AddCommand(signCmd, verifyCmd, encryptCmd, decryptCmd)
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadSecret() ([]byte, error) {
	if secretFile != "" {
		data, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("reading secret file: %w", err)
		}
		return []byte(strings.TrimRight(string(data), "\r\n")), nil
	}
	if s := os.Getenv("SEALKIT_SECRET"); s != "" {
		return []byte(s), nil
	}
	return nil, errors.New("no secret: pass --secret-file or set SEALKIT_SECRET")
}

func commonOptions() []sealkit.Option {
	var opts []sealkit.Option
	if urlSafe {
		opts = append(opts, sealkit.WithURLSafe())
	}
	if digestName != "" {
		opts = append(opts, sealkit.WithDigest(sealkit.Digest(digestName)))
	}
	return opts
}

func encryptorOptions() []sealkit.Option {
	opts := commonOptions()
	if cipherName != "" {
		opts = append(opts, sealkit.WithCipher(sealkit.Cipher(cipherName)))
	}
	if kdfName != "" {
		opts = append(opts, sealkit.WithKeyDerivation(sealkit.KeyDerivation{
			Function: sealkit.KDFFunction(kdfName),
			Salt:     []byte(kdfSalt),
		}))
	}
	if signSecret != "" {
		opts = append(opts, sealkit.WithSigningSecret([]byte(signSecret)))
	}
	return opts
}

func claimOptions() []sealkit.ClaimOption {
	var opts []sealkit.ClaimOption
	if purpose != "" {
		opts = append(opts, sealkit.WithPurpose(purpose))
	}
	if ttl > 0 {
		opts = append(opts, sealkit.WithExpiresIn(ttl))
	}
	return opts
}

// readInput returns the first positional argument, or stdin when absent.
func readInput(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func runSign(cmd *cobra.Command, args []string) error {
	secret, err := loadSecret()
	if err != nil {
		return err
	}
	message, err := readInput(args)
	if err != nil {
		return err
	}
	v, err := sealkit.NewVerifier(secret, commonOptions()...)
	if err != nil {
		return err
	}
	token, err := v.Generate(message, claimOptions()...)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	secret, err := loadSecret()
	if err != nil {
		return err
	}
	token, err := readInput(args)
	if err != nil {
		return err
	}
	v, err := sealkit.NewVerifier(secret, commonOptions()...)
	if err != nil {
		return err
	}
	var verifyOpts []sealkit.VerifyOption
	if purpose != "" {
		verifyOpts = append(verifyOpts, sealkit.ForPurpose(purpose))
	}
	var message string
	if err := v.Verify(token, &message, verifyOpts...); err != nil {
		return err
	}
	fmt.Println(message)
	return nil
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	secret, err := loadSecret()
	if err != nil {
		return err
	}
	message, err := readInput(args)
	if err != nil {
		return err
	}
	e, err := sealkit.NewEncryptor(secret, encryptorOptions()...)
	if err != nil {
		return err
	}
	token, err := e.EncryptAndSign(message, claimOptions()...)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	secret, err := loadSecret()
	if err != nil {
		return err
	}
	token, err := readInput(args)
	if err != nil {
		return err
	}
	e, err := sealkit.NewEncryptor(secret, encryptorOptions()...)
	if err != nil {
		return err
	}
	var verifyOpts []sealkit.VerifyOption
	if purpose != "" {
		verifyOpts = append(verifyOpts, sealkit.ForPurpose(purpose))
	}
	var message string
	if err := e.DecryptAndVerify(token, &message, verifyOpts...); err != nil {
		return err
	}
	fmt.Println(message)
	return nil
}
