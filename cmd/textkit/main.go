// Command textkit renders text to PNG files through the async loader.
//
//	textkit -width 320 -o hello.png "Hello, 世界"
//	textkit -markup -fit -width 200 -height 60 '<b>Big</b> and <i>small</i>'
//	textkit -config textkit.yaml one two three
//
// Every argument is rendered to its own file. With several arguments a
// number is added to the output name before the extension.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/gogpu/textkit"
	"github.com/gogpu/textkit/internal/config"
	"github.com/gogpu/textkit/internal/logging"
	"github.com/gogpu/textkit/text"
	"github.com/gogpu/textkit/text/async"
	"github.com/gogpu/textkit/text/fontclient"
	"github.com/gogpu/textkit/text/markup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "textkit:", err)
		}
		os.Exit(1)
	}
}

type options struct {
	configPath string
	output     string
	width      float64
	height     float64
	pointSize  float64
	color      string
	markup     bool
	fit        bool
	autoScroll bool
}

func parseFlags(args []string, stderr io.Writer) (options, []string, error) {
	var o options
	fs := flag.NewFlagSet("textkit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&o.output, "o", "text.png", "output PNG file")
	fs.Float64Var(&o.width, "width", 0, "box width in pixels, 0 for the natural width")
	fs.Float64Var(&o.height, "height", 0, "box height in pixels, 0 for the text height")
	fs.Float64Var(&o.pointSize, "size", 0, "point size, overrides the configuration")
	fs.StringVar(&o.color, "color", "black", "text color, a name or #rrggbb")
	fs.BoolVar(&o.markup, "markup", false, "parse the text as markup")
	fs.BoolVar(&o.fit, "fit", false, "pick the largest point size that fits the box")
	fs.BoolVar(&o.autoScroll, "autoscroll", false, "render a single line loop for scrolling")
	if err := fs.Parse(args); err != nil {
		return o, nil, err
	}
	if fs.NArg() == 0 {
		return o, nil, errors.New("no text given")
	}
	if o.fit && o.autoScroll {
		return o, nil, errors.New("-fit and -autoscroll exclude each other")
	}
	return o, fs.Args(), nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, texts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	log, closer := logging.New(cfg.Logging, stderr)
	defer closer.Close()
	textkit.SetLogger(log)
	defer textkit.SetLogger(nil)

	fonts, err := newFonts(cfg.Font)
	if err != nil {
		return err
	}
	base, err := baseParameters(cfg, o)
	if err != nil {
		return err
	}
	params := make([]async.Parameters, len(texts))
	for i, s := range texts {
		params[i] = base
		params[i].Text = s
	}

	manager := async.NewTaskManager(fonts, cfg.Async.Workers)
	defer manager.Close()

	var infos []async.RenderInfo
	if o.fit || o.autoScroll {
		infos, err = renderEach(ctx, manager, params, o)
	} else {
		infos, err = manager.RenderAll(ctx, params)
	}
	if err != nil {
		return err
	}

	for i, info := range infos {
		name := outputName(o.output, i, len(infos))
		if err := savePNG(name, info); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s: %.0fx%.0f, %d lines, %gpt\n",
			name, info.Size.Width, info.Size.Height, info.LineCount, info.PointSize)
	}
	return nil
}

// renderEach submits one fit or auto-scroll task per text and collects the
// completions on this goroutine.
func renderEach(ctx context.Context, m *async.TaskManager, params []async.Parameters, o options) ([]async.RenderInfo, error) {
	infos := make([]async.RenderInfo, len(params))
	index := make(map[async.RequestID]int, len(params))
	var firstErr error
	for i, p := range params {
		task := func(l *async.Loader) async.RenderInfo { return l.RenderTextFit(p) }
		if o.autoScroll {
			task = func(l *async.Loader) async.RenderInfo { return l.RenderAutoScroll(p) }
		}
		id, err := m.Submit(task, func(id async.RequestID, info async.RenderInfo) {
			infos[index[id]] = info
			if !info.Success && firstErr == nil {
				firstErr = fmt.Errorf("render %d: %w", index[id], info.Err)
			}
		})
		if err != nil {
			return nil, err
		}
		index[id] = i
	}

	for done := 0; done < len(params); {
		select {
		case <-m.Ready():
			done += m.DrainCompleted()
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return infos, firstErr
}

func newFonts(cfg config.FontConfig) (*fontclient.Client, error) {
	fonts := fontclient.NewWithGoFonts(
		fontclient.WithDPI(cfg.DPI),
		fontclient.WithDefaultFamily(cfg.Family),
	)
	for _, path := range cfg.Files {
		if _, err := fonts.RegisterFontFile(path); err != nil {
			return nil, err
		}
	}
	return fonts, nil
}

func baseParameters(cfg config.Config, o options) (async.Parameters, error) {
	c, ok := markup.ParseColor(o.color)
	if !ok {
		return async.Parameters{}, fmt.Errorf("unknown color %q", o.color)
	}
	wrap, _ := cfg.Layout.WrapMode()
	align, _ := cfg.Layout.HorizontalAlignment()
	valign, _ := cfg.Layout.VerticalAlignment()

	p := async.Parameters{
		Markup:              o.markup,
		Font:                text.FontDescription{Family: cfg.Font.Family},
		PointSize:           cfg.Font.PointSize,
		TextColor:           c,
		Size:                text.Size{Width: o.width, Height: o.height},
		MultiLine:           cfg.Layout.MultiLine,
		WrapMode:            wrap,
		HorizontalAlignment: align,
		VerticalAlignment:   valign,
		LineSpacing:         cfg.Layout.LineSpacing,
		Ellipsis:            cfg.Layout.Ellipsis,
	}
	if o.pointSize > 0 {
		p.PointSize = o.pointSize
		p.MaxPointSize = o.pointSize
	}
	return p, nil
}

// outputName numbers base when there are several outputs:
// out.png becomes out-1.png, out-2.png and so on.
func outputName(base string, i, n int) string {
	if n == 1 {
		return base
	}
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(base, ext), i+1, ext)
}

func savePNG(name string, info async.RenderInfo) error {
	if info.Image == nil || info.Image.Bounds().Empty() {
		return fmt.Errorf("%s: nothing to draw", name)
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(f, info.Image); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", name, err)
	}
	return f.Close()
}
