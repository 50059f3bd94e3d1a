package main

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pattern_chat/internal/clients/relay"
	"pattern_chat/internal/config"
	"pattern_chat/internal/logging"
	"pattern_chat/internal/tui"
)

func newChatCmd() *cobra.Command {
	var (
		relayURL string
		timeout  time.Duration
		logFile  string
		plain    bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "打开终端聊天窗口",
		RunE: func(cmd *cobra.Command, args []string) error {
			// 全屏界面下日志只能写文件
			log.Logger = zerolog.Nop()
			if logFile != "" {
				closer, err := logging.Init(config.LogConfig{Level: "info", Format: "json", File: logFile})
				if err != nil {
					return err
				}
				defer closer.Close()
			}

			client := relay.NewClient(relay.Config{BaseURL: relayURL, Timeout: timeout})
			return tui.Run(cmd.Context(), client, tui.Options{Markdown: !plain})
		},
	}

	cmd.Flags().StringVar(&relayURL, "relay", relay.DefaultBaseURL, "聊天转发服务地址")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "请求超时，0表示不超时")
	cmd.Flags().StringVar(&logFile, "log-file", "", "诊断日志文件")
	cmd.Flags().BoolVar(&plain, "plain", false, "不渲染Markdown")
	return cmd
}
