package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/haierkeys/fast-note-client/internal/dto"
	"github.com/haierkeys/fast-note-client/internal/routers"
	"github.com/haierkeys/fast-note-client/pkg/code"

	"github.com/spf13/cobra"
)

type credentialFlags struct {
	email    string
	password string
}

// readPassword 未通过参数提供密码时从标准输入读取一行
func readPassword(in io.Reader, prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (f *credentialFlags) request(cmd *cobra.Command) (*dto.CredentialsRequest, error) {
	password := f.password
	if password == "" {
		p, err := readPassword(cmd.InOrStdin(), "Password: ")
		if err != nil {
			return nil, err
		}
		password = p
	}
	return &dto.CredentialsRequest{Email: strings.TrimSpace(f.email), Password: password}, nil
}

func bindCredentialFlags(cmd *cobra.Command, f *credentialFlags) {
	cmd.Flags().StringVarP(&f.email, "email", "e", "", "account email // 账号邮箱")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "account password, read from stdin when empty // 密码，为空时从标准输入读取")
}

func init() {
	signupEnv := new(credentialFlags)
	signupCmd := &cobra.Command{
		Use:   "signup --email <email> [--password <password>]",
		Short: "Create an account // 注册账号",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := signupEnv.request(cmd)
			if err != nil {
				return err
			}
			return run(func(ctx context.Context, c *Client) error {
				next, err := c.app.UserService.Signup(ctx, params)
				if err != nil {
					c.app.Notifier.Error(err)
					return err
				}
				c.app.Notifier.Success(code.SuccessSignup)
				c.app.Notifier.Info("Next: fast-note-client login  (" + next + ")")
				return nil
			})
		},
	}
	bindCredentialFlags(signupCmd, signupEnv)

	loginEnv := new(credentialFlags)
	loginCmd := &cobra.Command{
		Use:   "login --email <email> [--password <password>]",
		Short: "Log in and remember the session // 登录并保存会话",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := loginEnv.request(cmd)
			if err != nil {
				return err
			}
			return run(func(ctx context.Context, c *Client) error {
				next, err := c.app.UserService.Login(ctx, params)
				if err != nil {
					c.app.Notifier.Error(err)
					return err
				}
				c.app.Notifier.Success(code.SuccessLogin)
				if next == routers.RouteNotes {
					fmt.Fprintf(cmd.OutOrStdout(), "%d note(s) available.\n", len(c.app.Notes.State().Notes))
				}
				return nil
			})
		},
	}
	bindCredentialFlags(loginCmd, loginEnv)

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session // 退出登录",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, c *Client) error {
				if _, err := c.app.UserService.Logout(ctx); err != nil {
					c.app.Notifier.Error(err)
					return err
				}
				c.app.Notifier.Success(code.SuccessLogout)
				return nil
			})
		},
	}

	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user // 显示当前登录用户",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, c *Client) error {
				sess := c.app.Session.Snapshot()
				if !sess.LoggedIn() {
					err := code.ErrorNotLoggedIn.Clone()
					c.app.Notifier.Error(err)
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:     %d\n", sess.User.ID)
				fmt.Fprintf(out, "Email:  %s\n", sess.User.Email)
				fmt.Fprintf(out, "Name:   %s\n", sess.User.DisplayName())
				fmt.Fprintf(out, "Server: %s\n", c.app.Client.BaseURL())
				if exp, ok := sess.User.TokenExpiry(); ok {
					fmt.Fprintf(out, "Token:  expires %s\n", exp.Local().Format(time.RFC3339))
				}
				return nil
			})
		},
	}

	rootCmd.AddCommand(signupCmd, loginCmd, logoutCmd, whoamiCmd)
}
