// quotestencil - Quote card generation.
//
// Usage:
//
//	quotestencil -o <file> --quote <text> [--author <name>] (--bg <image> | --color <hex>) [options]
//	quotestencil batch --file <batch.json> [--config <path>]
//	quotestencil plan --quote <text> [--author <name>]
//	quotestencil config [--config <path>]
//	quotestencil serve [--port 8080]
//	quotestencil init
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/xob0t/quotestencil/clients/server"
	"github.com/xob0t/quotestencil/pkg/card"
	"github.com/xob0t/quotestencil/pkg/generator"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "init":
		err = runInit(os.Args[2:])
	case "config":
		err = runConfig(os.Args[2:])
	case "plan":
		err = runPlan(os.Args[2:])
	case "batch":
		err = runBatch(os.Args[2:])
	case "serve":
		err = server.RunServe(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		// Default: render mode (all flags on root).
		err = run(os.Args[1:])
	}
	if err != nil {
		fatal(err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("quotestencil", flag.ExitOnError)

	var (
		output     string
		quote      string
		author     string
		bgPath     string
		color      string
		configPath string
		verbose    bool
	)

	fs.StringVar(&output, "o", "", "Output file path (.png, .jpg, .bmp, .tiff)")
	fs.StringVar(&output, "output", "", "Output file path (.png, .jpg, .bmp, .tiff)")
	fs.StringVar(&quote, "quote", "", "Quote text")
	fs.StringVar(&author, "author", "", "Author name (blank = anonymous)")
	fs.StringVar(&bgPath, "bg", "", "Background image path")
	fs.StringVar(&color, "color", "", "Solid background color when no image is given: hex or 'random'")
	fs.StringVar(&configPath, "config", "", "Path to .qcbundle or config JSON (optional)")
	fs.BoolVar(&verbose, "v", false, "Verbose logging to stderr")

	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return err
	}
	setupLogging(verbose)

	if output == "" {
		printUsage()
		return fmt.Errorf("output file is required (-o)")
	}
	if quote == "" {
		return fmt.Errorf("quote is required (--quote)")
	}
	if bgPath == "" && color == "" {
		return fmt.Errorf("a background is required (--bg or --color)")
	}

	renderer, cleanup, err := newRenderer(configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Printf("Rendering: %s\n", output)
	img, err := renderer.RenderCard(card.CardData{Quote: quote, Author: author, Background: bgPath, Color: color})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if err := generator.Generate(output, generator.Config{Image: img}); err != nil {
		return err
	}
	fmt.Printf("Done: %s\n", output)
	return nil
}

func runBatch(args []string) error {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	var (
		batchPath  string
		configPath string
		workers    int
		verbose    bool
	)
	fs.StringVar(&batchPath, "file", "", "Path to batch.json")
	fs.StringVar(&configPath, "config", "", "Path to .qcbundle or config JSON (optional)")
	fs.IntVar(&workers, "workers", runtime.NumCPU(), "Cards rendered in parallel")
	fs.BoolVar(&verbose, "v", false, "Verbose logging to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setupLogging(verbose)

	if batchPath == "" {
		return fmt.Errorf("--file is required for batch command")
	}

	cards, warnings, err := card.LoadBatch(batchPath)
	if err != nil {
		return fmt.Errorf("load batch: %w", err)
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	renderer, cleanup, err := newRenderer(configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := renderBatch(renderer, cards, workers); err != nil {
		return err
	}
	fmt.Printf("Done: %d cards\n", len(cards))
	return nil
}

// renderBatch renders and writes cards with at most workers in flight. Every
// card is attempted; failures are joined into the returned error.
func renderBatch(renderer *card.Renderer, cards []card.CardData, workers int) error {
	workers = max(workers, 1)
	sem := make(chan struct{}, workers)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i, c := range cards {
		if c.Output == "" {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			err := renderOne(renderer, c)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("card %d (%s): %w", i, c.Output, err))
				return
			}
			fmt.Printf("Rendered: %s\n", c.Output)
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

func renderOne(renderer *card.Renderer, c card.CardData) error {
	img, err := renderer.RenderCard(c)
	if err != nil {
		return err
	}
	return generator.Generate(c.Output, generator.Config{Image: img})
}

func runPlan(args []string) error {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	var quote, author, configPath string
	fs.StringVar(&quote, "quote", "", "Quote text")
	fs.StringVar(&author, "author", "", "Author name")
	fs.StringVar(&configPath, "config", "", "Path to .qcbundle or config JSON (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	renderer, cleanup, err := newRenderer(configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	layout, err := renderer.Plan(quote, author)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(layout)
}

func runConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	var configPath string
	fs.StringVar(&configPath, "config", "", "Path to .qcbundle or config JSON (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	renderer, cleanup, err := newRenderer(configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := renderer.Config()
	fmt.Print(card.FormatConfig(cfg, renderer.Fonts()))
	for _, w := range card.ConfigWarnings(cfg) {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	return nil
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	var configOut, batchOut string
	fs.StringVar(&configOut, "config", "config.json", "Output path for sample config")
	fs.StringVar(&batchOut, "batch", "batch.json", "Output path for sample batch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, b := card.GetExampleJSON()

	if err := os.WriteFile(configOut, []byte(c), 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.WriteFile(batchOut, []byte(b), 0644); err != nil {
		return fmt.Errorf("write batch: %w", err)
	}

	fmt.Printf("Created: %s, %s\n", configOut, batchOut)
	fmt.Printf("Run: quotestencil batch --file %s --config %s\n", batchOut, configOut)
	return nil
}

// newRenderer loads the config at path (defaults when empty) and resolves its font.
func newRenderer(configPath string) (*card.Renderer, func(), error) {
	cfg, cleanup, err := card.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	renderer, err := card.NewRendererFromConfig(cfg)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("renderer: %w", err)
	}
	return renderer, cleanup, nil
}

func setupLogging(verbose bool) {
	if !verbose {
		return
	}
	card.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Print(`quotestencil - Quote Card Generation (Pure Go)

USAGE:
    quotestencil -o <file> --quote <text> [--author <name>] (--bg <image> | --color <hex>) [options]
    quotestencil batch --file <batch.json> [--config <path>] [--workers N]
    quotestencil plan --quote <text> [--author <name>] [--config <path>]
    quotestencil config [--config <path>]
    quotestencil serve [--port 8080] [--config <path>]
    quotestencil init [options]

RENDER MODE:
    -o, --output <path>    Output file (.png, .jpg, .bmp, .tiff)
    --quote <text>         Quote text
    --author <name>        Author (blank renders the anonymous label)
    --bg <path>            Background photo (PNG, JPEG, GIF, BMP, TIFF, WebP)
    --color <hex>          Solid background instead of a photo, or 'random'
    --config <path>        .qcbundle or config JSON (optional)
    -v                     Verbose logging

BATCH:
    quotestencil batch --file batch.json    Render every card in batch.json

PLAN:
    quotestencil plan --quote <text>        Print the computed layout as JSON

UI SERVER:
    quotestencil serve [--port 8080]        Start the web form and HTTP API

EXAMPLES:
    quotestencil init
    quotestencil -o card.png --quote "Conhece-te a ti mesmo." --bg photo.jpg
    quotestencil -o card.png --quote "..." --author "Lao Tsé" --bg photo.jpg --config theme.qcbundle
    quotestencil batch --file batch.json --config config.json
    quotestencil config --config theme.qcbundle
`)
}
