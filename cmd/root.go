package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configDefault string

// globalFlags 所有子命令共用的参数
type globalFlags struct {
	config string // Specified configuration file path // 指定要使用的配置文件路径
	server string // Override client.base-url // 覆盖配置中的服务端地址
	lang   string // Override app.lang // 覆盖配置中的提示语言
	debug  bool   // Dump resolved config and state // 输出调试信息
}

var flags = new(globalFlags)

var rootCmd = &cobra.Command{
	Use:           "fast-note-client",
	Short:         "Fast Note Client",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureBootstrap(flags)
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpTemplate()
		cmd.Help()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "config file path // 配置文件路径")
	pf.StringVar(&flags.server, "server", "", "server base url, overrides client.base-url // 服务端地址")
	pf.StringVar(&flags.lang, "lang", "", "message language: en / zh_cn // 提示语言")
	pf.BoolVar(&flags.debug, "debug", false, "dump resolved config and state // 输出调试信息")
}

func Execute(c string) {
	configDefault = c
	if err := rootCmd.Execute(); err != nil {
		var shown errShown
		if !errors.As(err, &shown) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
