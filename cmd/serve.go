package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pattern_chat/internal/clients/openai"
	"pattern_chat/internal/config"
	"pattern_chat/internal/handlers"
	"pattern_chat/internal/logging"
	"pattern_chat/internal/metrics"
	"pattern_chat/internal/routes"
	"pattern_chat/internal/server"
	"pattern_chat/internal/services"
)

func newServeCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动聊天转发服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			// 加载配置
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}

			closer, err := logging.Init(cfg.Log)
			if err != nil {
				return err
			}
			defer closer.Close()

			gin.SetMode(gin.ReleaseMode)

			var collector *metrics.Collector
			if cfg.Metrics.Enabled {
				collector = metrics.NewCollector(cfg.Metrics.Namespace)
			}

			completer := openai.NewClient(openai.Config{
				APIKey:  cfg.OpenAI.APIKey,
				BaseURL: cfg.OpenAI.BaseURL,
				Model:   cfg.OpenAI.Model,
				Timeout: cfg.OpenAI.Timeout,
			})
			relay := services.NewRelayService(completer, cfg.OpenAI.Model, cfg.Relay, collector)

			engine := routes.NewEngine(routes.Options{
				Relay:       relay,
				Metrics:     collector,
				MetricsPath: cfg.Metrics.Path,
				WebSocket: handlers.WebSocketOptions{
					PingPeriod: cfg.WebSocket.PingPeriod,
					PongWait:   cfg.WebSocket.PongWait,
				},
			})

			log.Info().
				Str("model", cfg.OpenAI.Model).
				Str("base_url", cfg.OpenAI.BaseURL).
				Bool("metrics", cfg.Metrics.Enabled).
				Msg("聊天转发服务启动中...")

			srv := server.New(engine, server.Options{
				Addr:            cfg.Addr(),
				ReadTimeout:     cfg.Server.ReadTimeout,
				WriteTimeout:    cfg.Server.WriteTimeout,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
			})
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "配置文件路径，不存在时只使用环境变量")
	return cmd
}
