package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/dungeoneer-go/pkg/dungeon"
	"github.com/dshills/dungeoneer-go/pkg/export"
	"github.com/dshills/dungeoneer-go/pkg/persist"
	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

const version = "1.0.0"

var (
	configPath = flag.String("config", "", "Path to YAML request file (required)")
	outputDir  = flag.String("output", ".", "Output directory for generated files")
	format     = flag.String("format", "json", "Export format: json, png, svg, or all")
	seedFlag   = flag.Uint64("seed", 0, "Override the seed from config (0 = use config seed)")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
	versionF   = flag.Bool("version", false, "Print version and exit")
	help       = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("dungeongen version %s\n", version)
		os.Exit(0)
	}
	if *help {
		printHelp()
		os.Exit(0)
	}
	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -config flag is required")
		printUsage()
		os.Exit(1)
	}

	validFormats := map[string]bool{"json": true, "png": true, "svg": true, "all": true}
	if !validFormats[*format] {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q, must be one of: json, png, svg, all\n", *format)
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if *verbose {
		fmt.Printf("Loading request from %s\n", *configPath)
	}

	cfg, err := dungeon.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *seedFlag != 0 {
		if *verbose {
			fmt.Printf("Overriding seed from %d to %d\n", cfg.Request.Seed, *seedFlag)
		}
		cfg.Request.Seed = *seedFlag
	}

	if *verbose {
		fmt.Printf("Using seed: %d\n", cfg.Request.Seed)
		fmt.Printf("Algorithm: %s\n", cfg.Request.Algorithm)
		fmt.Printf("Size: %dx%d\n", cfg.Request.Width, cfg.Request.Height)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	gen := dungeon.NewGenerator(persist.Load)

	start := time.Now()
	if *verbose {
		fmt.Println("Generating dungeon...")
	}
	m, err := gen.Generate(cfg)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	elapsed := time.Since(start)
	if *verbose {
		fmt.Printf("Generation completed in %v\n", elapsed)
		printStats(m)
	}

	baseName := fmt.Sprintf("dungeon_%d", cfg.Request.Seed)

	dgmpPath := filepath.Join(*outputDir, baseName+".dgmp")
	if err := persist.Save(m, dgmpPath); err != nil {
		return fmt.Errorf("failed to write binary container: %w", err)
	}
	if *verbose {
		fmt.Printf("Wrote binary container to %s\n", dgmpPath)
	}

	if *format == "json" || *format == "all" {
		if err := exportJSON(m, baseName); err != nil {
			return err
		}
	}
	if *format == "png" || *format == "all" {
		if err := exportPNG(m, baseName); err != nil {
			return err
		}
	}
	if *format == "svg" || *format == "all" {
		if err := exportSVG(m, baseName); err != nil {
			return err
		}
	}

	fmt.Printf("Successfully generated dungeon (seed=%d) in %v\n", cfg.Request.Seed, elapsed)
	return nil
}

func exportJSON(m *tilemap.Map, baseName string) error {
	filename := filepath.Join(*outputDir, baseName+".json")
	if *verbose {
		fmt.Printf("Exporting JSON to %s\n", filename)
	}
	sc := export.BuildSideCar(m, paletteFor(m))
	if err := export.SaveJSONToFile(sc, filename); err != nil {
		return fmt.Errorf("failed to export JSON: %w", err)
	}
	if *verbose {
		info, _ := os.Stat(filename)
		fmt.Printf("  Wrote %d bytes\n", info.Size())
	}
	return nil
}

func exportPNG(m *tilemap.Map, baseName string) error {
	filename := filepath.Join(*outputDir, baseName+".png")
	if *verbose {
		fmt.Printf("Exporting PNG to %s\n", filename)
	}
	if err := export.SavePNGToFile(m, paletteFor(m), filename); err != nil {
		return fmt.Errorf("failed to export PNG: %w", err)
	}
	if *verbose {
		info, _ := os.Stat(filename)
		fmt.Printf("  Wrote %d bytes\n", info.Size())
	}
	return nil
}

func exportSVG(m *tilemap.Map, baseName string) error {
	filename := filepath.Join(*outputDir, baseName+".svg")
	if *verbose {
		fmt.Printf("Exporting SVG to %s\n", filename)
	}
	opts := export.DefaultSVGOptions()
	opts.Title = fmt.Sprintf("dungeon (seed=%d)", m.Metrics.Seed)
	if err := export.SaveSVGToFile(m, opts, filename); err != nil {
		return fmt.Errorf("failed to export SVG: %w", err)
	}
	if *verbose {
		info, _ := os.Stat(filename)
		fmt.Printf("  Wrote %d bytes\n", info.Size())
	}
	return nil
}

func paletteFor(m *tilemap.Map) map[uint32]string {
	seen := make(map[uint32]bool)
	var ids []uint32
	for _, r := range m.Rooms {
		if r.TypeID == tilemap.UnassignedType {
			continue
		}
		if !seen[r.TypeID] {
			seen[r.TypeID] = true
			ids = append(ids, r.TypeID)
		}
	}
	return export.DefaultTypePalette(ids)
}

func printStats(m *tilemap.Map) {
	fmt.Println("\nDungeon Statistics:")
	fmt.Printf("  Size: %dx%d\n", m.Width, m.Height)
	fmt.Printf("  Rooms: %d\n", len(m.Rooms))
	fmt.Printf("  Corridors: %d\n", len(m.Corridors))
	fmt.Printf("  Walkable tiles: %d\n", m.Metrics.WalkableTileCount)
	fmt.Printf("  Connected: %v\n", m.Metrics.ConnectedFloor)
	fmt.Printf("  Entrance/exit distance: %d\n", m.Metrics.EntranceExitDistance)
	fmt.Printf("  Generation attempts: %d\n", m.Metrics.GenerationAttempts)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage: dungeongen -config <request.yaml> [options]")
	fmt.Fprintln(os.Stderr, "\nRun 'dungeongen -help' for detailed help")
}

func printHelp() {
	fmt.Printf("dungeongen version %s\n\n", version)
	fmt.Println("A command-line tool for generating procedural dungeon tile maps.")
	fmt.Println("\nUsage:")
	fmt.Println("  dungeongen -config <request.yaml> [options]")
	fmt.Println("\nRequired Flags:")
	fmt.Println("  -config string")
	fmt.Println("        Path to YAML request file")
	fmt.Println("\nOptional Flags:")
	fmt.Println("  -output string")
	fmt.Println("        Output directory for generated files (default: current directory)")
	fmt.Println("  -format string")
	fmt.Println("        Export format: json, png, svg, or all (default: json)")
	fmt.Println("  -seed uint")
	fmt.Println("        Override the seed from config (0 = use config seed) (default: 0)")
	fmt.Println("  -verbose")
	fmt.Println("        Enable verbose output")
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println("\nEvery run also writes a versioned binary container (.dgmp) next to the")
	fmt.Println("requested export formats.")
	fmt.Println("\nExamples:")
	fmt.Println("  dungeongen -config dungeon.yaml")
	fmt.Println("  dungeongen -config dungeon.yaml -seed 12345 -format all -output ./out")
	fmt.Println("  dungeongen -config dungeon.yaml -format svg -verbose")
}
