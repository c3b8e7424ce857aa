/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/taskpulse/apiserver/config"
	"github.com/taskpulse/apiserver/internal/client"
	"golang.org/x/term"
)

var (
	clientAPIURL      string
	clientSessionFile string
	clientUsername    string
	clientPicture     string
)

// readPassword prompts on stderr and reads without echo when stdin is a terminal.
var readPassword = func(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		return string(b), err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// clientCmd represents the client command
var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Sign in to a taskpulse server and use the saved session",
}

var clientSignupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and sign in",
	RunE: withSession(func(ctx context.Context, cmd *cobra.Command, s *client.Session) error {
		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		picture, err := loadPicture(clientPicture)
		if err != nil {
			return err
		}
		user, err := s.Signup(ctx, clientUsername, password, picture)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed up as %s (id %d)\n", user.Username, user.UserID)
		return nil
	}),
}

var clientLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and save the session",
	RunE: withSession(func(ctx context.Context, cmd *cobra.Command, s *client.Session) error {
		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		user, err := s.Login(ctx, clientUsername, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", user.Username)
		return nil
	}),
}

var clientLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	RunE: withSession(func(ctx context.Context, cmd *cobra.Command, s *client.Session) error {
		if err := s.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
		return nil
	}),
}

var clientWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: withSession(func(ctx context.Context, cmd *cobra.Command, s *client.Session) error {
		user, ok := s.User()
		if !ok {
			return client.ErrNotAuthenticated
		}
		return printJSON(cmd.OutOrStdout(), user)
	}),
}

var clientGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "GET a protected resource, e.g. /projects or /tasks?projectId=1",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, cmd *cobra.Command, s *client.Session) error {
		path := cmd.Flags().Arg(0)
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		var out any
		if err := s.GetJSON(ctx, path, &out); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), out)
	}),
}

func init() {
	rootCmd.AddCommand(clientCmd)

	cfg := config.LoadConfig().Client
	clientCmd.PersistentFlags().StringVar(&clientAPIURL, "api-url", cfg.BaseURL, "taskpulse API base URL")
	clientCmd.PersistentFlags().StringVar(&clientSessionFile, "session-file", cfg.SessionFile, "where the session is stored")

	for _, c := range []*cobra.Command{clientSignupCmd, clientLoginCmd} {
		c.Flags().StringVarP(&clientUsername, "username", "u", "", "account username")
		_ = c.MarkFlagRequired("username")
	}
	clientSignupCmd.Flags().StringVar(&clientPicture, "picture", "", "path to a profile picture")

	clientCmd.AddCommand(clientSignupCmd, clientLoginCmd, clientLogoutCmd, clientWhoamiCmd, clientGetCmd)
}

func withSession(run func(ctx context.Context, cmd *cobra.Command, s *client.Session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		cfg := config.LoadConfig().Client

		storage, err := client.OpenSQLiteStorage(ctx, clientSessionFile)
		if err != nil {
			return err
		}
		defer storage.Close()

		session := client.NewSession(storage, client.NewAPIClient(clientAPIURL, cfg.Timeout))
		if err := session.Load(ctx); err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		return run(ctx, cmd, session)
	}
}

func loadPicture(path string) (*client.Picture, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &client.Picture{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
