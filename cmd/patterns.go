package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pattern_chat/internal/patterns"
)

func newPatternsCmd() *cobra.Command {
	var showPrompt bool

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "列出支持的设计模式",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, p := range patterns.All() {
				fmt.Fprintf(out, "%-22s %s\n", p.Name, p.Path)
			}
			if showPrompt {
				fmt.Fprintf(out, "\n%s\n", patterns.SystemPrompt())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showPrompt, "prompt", false, "同时输出系统提示词")
	return cmd
}
