// Command gocko-render is the CLI shell around gocko's render core,
// following the teacher's single-command urfave/cli/v3 shape (cmd/fbc):
// a top-level --config flag loads a RenderConfig, a render subcommand
// drives one render_html call and writes the result as PNG or PPM.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"gocko"
	"gocko/rconfig"
	"gocko/rfont"
	"gocko/scripthost"
)

type appState struct {
	cfg rconfig.RenderConfig
	log *zap.Logger
}

func main() {
	state := &appState{}

	app := &cli.Command{
		Name:            "gocko-render",
		Usage:           "render an HTML document to a pixel buffer",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load render configuration from `FILE` (YAML)"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := rconfig.Load(cmd.String("config"))
			if err != nil {
				return ctx, err
			}
			state.cfg = cfg
			state.log = cfg.Logger()
			return ctx, nil
		},
		Commands: []*cli.Command{
			renderCommand(state),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "gocko-render: %v\n", err)
		os.Exit(1)
	}
}

func renderCommand(state *appState) *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "render one HTML document",
		ArgsUsage: "HTML_FILE [CSS_FILE...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "out.png", Usage: "output image `FILE` (.png or .ppm)"},
			&cli.StringFlag{Name: "eval", Usage: "run a JavaScript `SOURCE` file against the parsed DOM before rendering, reporting its DOM writes"},
			&cli.Float64Flag{Name: "width", Usage: "viewport width override"},
			&cli.Float64Flag{Name: "height", Usage: "viewport height override"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runRender(state, cmd)
		},
	}
}

// runRender loads HTML_FILE and any CSS_FILE arguments, optionally
// drives --eval's script against the parsed DOM, runs render_html, and
// writes the pixel buffer to --out. Per spec §5, script evaluation
// happens here — between the shell's invocations of render_html — never
// inside RenderHTML itself.
func runRender(state *appState, cmd *cli.Command) (err error) {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("render: HTML_FILE is required")
	}

	htmlPath := cmd.Args().Get(0)
	htmlBytes, readErr := os.ReadFile(htmlPath)
	if readErr != nil {
		return fmt.Errorf("render: reading %s: %w", htmlPath, readErr)
	}

	var cssText []string
	for _, cssPath := range cmd.Args().Slice()[1:] {
		data, cssErr := os.ReadFile(cssPath)
		if cssErr != nil {
			err = multierr.Append(err, fmt.Errorf("render: reading %s: %w", cssPath, cssErr))
			continue
		}
		cssText = append(cssText, string(data))
	}
	if err != nil {
		return err
	}

	width := cmd.Float64("width")
	if width == 0 {
		width = state.cfg.Viewport.Width
	}
	height := cmd.Float64("height")
	if height == 0 {
		height = state.cfg.Viewport.Height
	}

	src := string(htmlBytes)
	if evalPath := cmd.String("eval"); evalPath != "" {
		src, err = evalAgainstDOM(state, src, evalPath)
		if err != nil {
			return err
		}
	}

	engine := gocko.NewEngine(rfont.Measure, rfont.Renderer, nil, state.log)
	result, renderErr := engine.RenderHTML(src, cssText, width, height)
	if renderErr != nil {
		return fmt.Errorf("render: %w", renderErr)
	}

	state.log.Sugar().Infow("rendered document", "title", result.PageTitle, "width", width, "height", height)

	return writeImage(result, cmd.String("out"))
}

// evalAgainstDOM runs the script at evalPath through scripthost against
// the parsed (but not yet styled/laid-out) DOM, serializing the
// resulting document back to HTML text so RenderHTML's normal pipeline
// re-parses and renders it. This keeps scripthost entirely outside
// RenderHTML's call graph, matching the dependency table's "never
// called from inside render_html" rule.
func evalAgainstDOM(state *appState, htmlSrc, evalPath string) (string, error) {
	script, err := os.ReadFile(evalPath)
	if err != nil {
		return htmlSrc, fmt.Errorf("render: reading --eval script %s: %w", evalPath, err)
	}

	root := parseForScripting(htmlSrc, state.log)
	engine := scripthost.New(root, state.log)
	mutations, err := engine.Evaluate(string(script))
	if err != nil {
		return htmlSrc, fmt.Errorf("render: evaluating %s: %w", evalPath, err)
	}
	for _, m := range mutations {
		state.log.Sugar().Debugw("script mutation", "kind", m.Kind, "node", m.NodeRef, "name", m.Name, "value", m.Value)
	}
	return serializeDocument(root), nil
}

func writeImage(result *gocko.RenderResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: creating %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ppm":
		return writePPM(f, result)
	default:
		return writePNG(f, result)
	}
}
