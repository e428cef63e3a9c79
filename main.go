package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ai_site_pipeline/config"
	"ai_site_pipeline/provider"
)

// app carries what every subcommand needs once the root has run.
type app struct {
	cfg config.Config
	log *logrus.Logger
	llm provider.LLMClient
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		jsonLogs   bool
	)
	a := &app{log: logrus.New()}

	root := &cobra.Command{
		Use:           "sitepilot",
		Short:         "AI-assisted site content and editing pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}
			// 环境变量只在这里读取
			cfg.ResolveAPIKey(os.LookupEnv)
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if jsonLogs {
				cfg.Log.Format = "json"
			}
			if err := configureLogger(a.log, cfg.Log); err != nil {
				return err
			}
			a.log.SetOutput(cmd.ErrOrStderr())
			a.cfg = cfg

			llm, err := provider.Build(cmd.Context(), cfg.Settings(), a.log)
			if err != nil {
				return err
			}
			a.llm = llm
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config/config.json", "path to config file (.json or .yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides config log.level)")
	root.PersistentFlags().BoolVar(&jsonLogs, "json", false, "emit logs as JSON")

	root.AddCommand(
		newServeCmd(a),
		newChatCmd(a),
		newSiteCmd(a),
		newContentCmd(a),
		newPreviewCmd(a),
		newProvidersCmd(a),
	)
	return root
}

func configureLogger(l *logrus.Logger, c config.LogConfig) error {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return err
	}
	l.SetLevel(level)
	if strings.EqualFold(c.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func (a *app) timeout() time.Duration {
	return time.Duration(a.cfg.LLM.TimeoutSeconds) * time.Second
}

func (a *app) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, a.timeout())
}

// readDoc decodes a JSON or YAML file, chosen by extension.
func readDoc(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	default:
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
