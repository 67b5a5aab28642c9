package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/components"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/html"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
)

func newRenderCmd() *cobra.Command {
	var (
		rendererName string
		mode         string
		output       string
		action       string
		format       string
		stylesheet   string
		preset       string
	)
	cmd := &cobra.Command{
		Use:   "render <schema>",
		Short: "Render a schema as HTML or collect values in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := components.NewDefaultRegistry()
			result, err := loadSchema(cmd.Context(), registry, args[0], cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			renderers := render.NewRegistry()
			page, err := html.New(html.WithStrategies(registry), html.WithStylesheet(stylesheet))
			if err != nil {
				return err
			}
			renderers.MustRegister(page)
			terminal, err := tui.New(
				tui.WithStrategies(registry),
				tui.WithOutputFormat(tui.OutputFormat(format)),
				tui.WithPromptDriver(tui.NewSurveyDriver(cmd.ErrOrStderr())),
			)
			if err != nil {
				return err
			}
			renderers.MustRegister(terminal)

			options := []orchestrator.Option{
				orchestrator.WithComponents(registry),
				orchestrator.WithRegistry(renderers),
			}
			if preset != "" {
				data, err := os.ReadFile(preset)
				if err != nil {
					return fmt.Errorf("read preset: %w", err)
				}
				transformer, err := orchestrator.NewJSONPresetTransformer(data)
				if err != nil {
					return err
				}
				options = append(options, orchestrator.WithSchemaTransformer(transformer))
			}
			gen := orchestrator.New(options...)
			out, err := gen.Generate(cmd.Context(), orchestrator.Request{
				Schema:        &result.Schema,
				Renderer:      rendererName,
				RenderOptions: render.RenderOptions{Mode: render.Mode(mode), Action: action},
			})
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Form written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&rendererName, "renderer", "r", html.Name, "renderer to use (html, tui)")
	cmd.Flags().StringVar(&mode, "mode", string(render.ModePreview), "render mode (preview, published)")
	cmd.Flags().StringVar(&action, "action", "", "submit target for published HTML forms")
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "tui output format (json, form, pretty)")
	cmd.Flags().StringVar(&stylesheet, "stylesheet", "", "stylesheet href for HTML output")
	cmd.Flags().StringVar(&preset, "preset", "", "JSON file of label/required overrides keyed by field id")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
