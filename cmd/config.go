package cmd

import (
	"fmt"

	"github.com/haierkeys/fast-note-client/global"
	internalApp "github.com/haierkeys/fast-note-client/internal/app"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func init() {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the client config file // 管理配置文件",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default config file // 写出默认配置文件",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "config/config.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			realpath, err := internalApp.WriteDefaultConfig(path, configDefault, force)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "config file written:", realpath)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file // 覆盖已有文件")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved config // 打印生效的配置",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := findConfig(flags.config)
			if err != nil {
				return err
			}
			cfg, realpath, err := internalApp.LoadConfig(path)
			if err != nil {
				return err
			}
			if flags.debug {
				global.Dump(cfg)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "# "+realpath)
			_, err = out.Write(data)
			return err
		},
	}

	setServerCmd := &cobra.Command{
		Use:   "set-server <base-url>",
		Short: "Change client.base-url and save // 修改服务端地址",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := findConfig(flags.config)
			if err != nil {
				return err
			}
			cfg, _, err := internalApp.LoadConfig(path)
			if err != nil {
				return err
			}
			cfg.Client.BaseURL = args[0]
			if _, err := cfg.GetClientConfig().ParseBaseURL(); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "client.base-url =", args[0])
			return nil
		},
	}

	configCmd.AddCommand(initCmd, showCmd, setServerCmd)
	rootCmd.AddCommand(configCmd)
}
