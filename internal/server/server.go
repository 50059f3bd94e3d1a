// Package server 运行 HTTP 服务并处理优雅关闭
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Server HTTP服务
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// Options 服务参数
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// New 创建服务
func New(handler http.Handler, opts Options) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              opts.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       opts.ReadTimeout,
			WriteTimeout:      opts.WriteTimeout,
			IdleTimeout:       120 * time.Second,
		},
		shutdownTimeout: opts.ShutdownTimeout,
	}
}

// Run 在 ctx 取消前持续服务，取消后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve 使用给定的监听器服务
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		log.Info().Str("addr", ln.Addr().String()).Msg("聊天转发服务已启动")
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("服务监听失败")
			return err
		}
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		log.Info().Msg("正在关闭服务...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("服务关闭失败")
			return err
		}
		log.Info().Msg("服务已关闭")
		return nil
	})

	return eg.Wait()
}
