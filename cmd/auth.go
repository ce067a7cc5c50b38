package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/s0up4200/holonet/session"
)

var (
	username string
	password string
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the film catalog",
	Long: `Exchange a username and password for a bearer token. The token is stored
in the session file and sent with every following request until you log out
or the catalog rejects it.`,
	RunE: runLogin,
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return client.Logout()
	},
}

// authCmd groups session inspection commands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Inspect the current session",
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether you are logged in",
	RunE:  runAuthStatus,
}

func init() {
	loginCmd.Flags().StringVarP(&username, "username", "u", "", "username (prompted when omitted)")
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")

	authCmd.AddCommand(authStatusCmd)

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(authCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	user := username
	if user == "" {
		var err error
		user, err = prompt(in, out, "Username: ")
		if err != nil {
			return err
		}
	}

	pass := password
	if pass == "" {
		var err error
		pass, err = promptPassword(in, out, "Password: ")
		if err != nil {
			return err
		}
	}

	if user == "" || pass == "" {
		return fmt.Errorf("username and password are required")
	}

	resp, err := client.Login(cmd.Context(), user, pass)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ Logged in as %s\n", user)
	if resp.ExpiresIn != nil {
		fmt.Fprintf(out, "  Token expires in %s\n", time.Duration(*resp.ExpiresIn)*time.Second)
	}
	if !cfg.Session.Persist {
		fmt.Fprintln(out, "  Session is not persisted (--no-persist)")
	}

	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	token, ok := store.Get()
	if !ok {
		fmt.Fprintln(out, "Not logged in")
		return nil
	}

	fmt.Fprintln(out, "Logged in")
	if fs, ok := store.(*session.FileStore); ok {
		fmt.Fprintf(out, "- Session file: %s\n", fs.Path())
	}

	info, err := session.Describe(token)
	if err != nil {
		logger.Debug().Err(err).Msg("Stored token is not a JWT")
		return nil
	}

	if info.Subject != "" {
		fmt.Fprintf(out, "- User: %s\n", info.Subject)
	}
	if info.Issuer != "" {
		fmt.Fprintf(out, "- Issuer: %s\n", info.Issuer)
	}
	if !info.ExpiresAt.IsZero() {
		state := "valid until"
		if info.Expired(time.Now()) {
			state = "expired at"
		}
		fmt.Fprintf(out, "- Token %s %s\n", state, info.ExpiresAt.Local().Format(time.RFC1123))
	}

	return nil
}

// prompt reads a single line
func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo when stdin is a terminal
func promptPassword(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fd := os.Stdin.Fd()
	if !isatty.IsTerminal(fd) {
		return prompt(in, out, label)
	}

	fmt.Fprint(out, label)
	secret, err := term.ReadPassword(int(fd))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}
