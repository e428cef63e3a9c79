package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ai_site_pipeline/assistant"
	"ai_site_pipeline/generator"
	"ai_site_pipeline/provider"
	"ai_site_pipeline/render"
	"ai_site_pipeline/server"
	"ai_site_pipeline/site"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := server.New(a.llm, a.timeout(), a.log)
			if err != nil {
				return err
			}
			listen := a.cfg.ServerAddr
			if addr != "" {
				listen = addr
			}
			a.log.WithField("addr", listen).Info("starting web server")
			return http.ListenAndServe(listen, srv.Routes())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config server_addr)")
	return cmd
}

func newChatCmd(a *app) *cobra.Command {
	var sitePath, outPath string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Edit a site interactively from the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var s site.Site
			if sitePath != "" {
				if err := readDoc(sitePath, &s); err != nil {
					return err
				}
			}
			final, err := runChat(cmd.Context(), a, s, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if outPath == "" {
				return nil
			}
			data, err := json.MarshalIndent(final, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{"path": outPath, "sections": len(final.Sections)}).Info("site saved")
			return nil
		},
	}
	cmd.Flags().StringVar(&sitePath, "site", "", "site document (.json or .yaml)")
	cmd.Flags().StringVar(&outPath, "out", "", "write the edited site as JSON when the session ends")
	return cmd
}

// runChat reads one message per line. "/site" prints the current document,
// "/reset" clears history and "/quit" ends the session.
func runChat(ctx context.Context, a *app, s site.Site, in io.Reader, out io.Writer) (site.Site, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	asst, err := assistant.New(a.llm, s, a.log)
	if err != nil {
		return s, err
	}
	sc := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
		case "/quit", "/exit":
			return s, nil
		case "/reset":
			asst.ResetConversation()
			fmt.Fprintln(out, "conversation cleared")
		case "/site":
			fmt.Fprintf(out, "%s: %s\n", s.Name, strings.Join(s.SectionTypes(), ", "))
		default:
			callCtx, cancel := a.withTimeout(ctx)
			turn, err := asst.ProcessMessage(callCtx, line)
			cancel()
			if err != nil {
				// 单条失败不结束会话
				fmt.Fprintf(out, "sorry, something went wrong: %v\n", err)
				break
			}
			fmt.Fprintln(out, turn.Content)
			if turn.Action != nil {
				next, err := site.Apply(s, *turn.Action)
				if err != nil {
					fmt.Fprintf(out, "could not apply %s: %v\n", turn.Action.Type, err)
					break
				}
				s = next
				asst.UpdateContext(assistant.ContextUpdate{Site: &s})
			}
		}
		fmt.Fprint(out, "> ")
	}
	return s, sc.Err()
}

func newSiteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "site", Short: "Generate whole sites"}
	var input string
	gen := &cobra.Command{
		Use:   "generate",
		Short: "Generate a site from a questionnaire file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input == "" {
				return errors.New("--input is required")
			}
			var in generator.SiteInput
			if err := readDoc(input, &in); err != nil {
				return err
			}
			g, err := generator.NewSiteGenerator(a.llm, a.log)
			if err != nil {
				return err
			}
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()
			out, err := g.GenerateSite(ctx, in)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	gen.Flags().StringVar(&input, "input", "", "questionnaire (.yaml or .json)")
	cmd.AddCommand(gen)
	return cmd
}

func newContentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "content", Short: "Generate or improve section text"}

	var (
		req      generator.ContentRequest
		tone     string
		length   string
		sectType string
	)
	gen := &cobra.Command{
		Use:   "generate",
		Short: "Generate content for one section",
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := generator.NewContentGenerator(a.llm, a.log)
			if err != nil {
				return err
			}
			req.SectionType = sectType
			req.Tone = generator.Tone(tone)
			req.Length = generator.Length(length)
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()
			c, err := g.Generate(ctx, req)
			if err != nil {
				return err
			}
			return printJSON(cmd, c)
		},
	}
	gen.Flags().StringVar(&sectType, "type", "features", "section type")
	gen.Flags().StringVar(&tone, "tone", string(generator.ToneProfessional), "tone")
	gen.Flags().StringVar(&length, "length", string(generator.LengthMedium), "short, medium or long")
	gen.Flags().StringVar(&req.Context.SiteName, "name", "", "business name")
	gen.Flags().StringVar(&req.Context.BusinessType, "business-type", "", "business type")
	gen.Flags().StringVar(&req.Context.Industry, "industry", "", "industry")
	gen.Flags().StringVar(&req.Context.TargetAudience, "audience", "", "target audience")

	var (
		kind string
		text string
	)
	improve := &cobra.Command{
		Use:   "improve",
		Short: "Improve text and score the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if text == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = string(b)
			}
			if strings.TrimSpace(text) == "" {
				return errors.New("--text is required")
			}
			im, err := generator.NewContentImprover(a.llm, a.log)
			if err != nil {
				return err
			}
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()
			res, err := im.Improve(ctx, generator.ImprovementRequest{
				OriginalContent: text,
				ImprovementType: generator.ImprovementType(kind),
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	improve.Flags().StringVar(&kind, "type", string(generator.ImproveEngagement), "clarity, engagement, seo, brevity or expansion")
	improve.Flags().StringVar(&text, "text", "", "text to improve, or - to read stdin")

	cmd.AddCommand(gen, improve)
	return cmd
}

func newPreviewCmd(a *app) *cobra.Command {
	var sitePath, outPath string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a site document to HTML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sitePath == "" {
				return errors.New("--site is required")
			}
			var s site.Site
			if err := readDoc(sitePath, &s); err != nil {
				return err
			}
			doc, err := render.Site(s)
			if err != nil {
				return err
			}
			if outPath == "" {
				_, err = io.WriteString(cmd.OutOrStdout(), doc)
				return err
			}
			if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
				return err
			}
			a.log.WithField("path", outPath).Info("preview written")
			return nil
		},
	}
	cmd.Flags().StringVar(&sitePath, "site", "", "site document (.json or .yaml)")
	cmd.Flags().StringVar(&outPath, "out", "", "write HTML here instead of stdout")
	return cmd
}

func newProvidersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "providers", Short: "Inspect the configured provider"}
	check := &cobra.Command{
		Use:   "check",
		Short: "Make one round trip to the configured provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()
			if err := provider.Check(ctx, a.llm); err != nil {
				return fmt.Errorf("provider %s: %w", a.cfg.LLM.Provider, err)
			}
			a.log.WithFields(logrus.Fields{"provider": a.cfg.LLM.Provider, "model": a.cfg.LLM.Model}).Info("provider ok")
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	cmd.AddCommand(check)
	return cmd
}
