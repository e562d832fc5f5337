package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mrsinham/mprview/cmd/mprview/viewer"
	"github.com/mrsinham/mprview/internal/config"
	"github.com/mrsinham/mprview/internal/dicomio"
	"github.com/mrsinham/mprview/internal/export"
	"github.com/mrsinham/mprview/internal/nav"
	"github.com/mrsinham/mprview/internal/volume"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	input := flag.String("input", "", "Directory containing a DICOM series to load")
	demo := flag.Bool("demo", false, "Use a generated phantom volume instead of a series")

	configFile := flag.String("config", "", "Load configuration from YAML file")
	preset := flag.String("preset", "", "Window preset name from the configuration")
	windowLevel := flag.Float64("window-level", 0, "Initial window level (requires -window-width)")
	windowWidth := flag.Float64("window-width", 0, "Initial window width (requires -window-level)")

	axisFlag := flag.String("axis", "", "Axis for -slice and -sequence: axial, sagittal, coronal")
	slice := flag.Int("slice", -1, "Slice index to position the cursor on along -axis")

	exportDir := flag.String("export-dir", "", "Export PNG slices to this directory instead of starting the viewer")
	sequence := flag.Bool("sequence", false, "Export every slice along -axis (requires -export-dir)")
	scale := flag.Int("scale", 0, "Integer upscale factor for exported images (default from config)")

	help := flag.Bool("help", false, "Show help message")
	showVersion := flag.Bool("version", false, "Show version")

	flag.Parse()

	if *showVersion {
		fmt.Printf("mprview %s\n", version)
		os.Exit(0)
	}

	if *help {
		printHelp()
		os.Exit(0)
	}

	if *input == "" && !*demo {
		fmt.Fprintf(os.Stderr, "Error: either -input or -demo is required\n")
		printUsage()
		os.Exit(1)
	}

	if *input != "" && *demo {
		fmt.Fprintf(os.Stderr, "Error: -input and -demo are mutually exclusive\n")
		os.Exit(1)
	}

	if (*windowLevel != 0) != (*windowWidth != 0) {
		fmt.Fprintf(os.Stderr, "Error: -window-level and -window-width must be given together\n")
		os.Exit(1)
	}

	if *sequence && *exportDir == "" {
		fmt.Fprintf(os.Stderr, "Error: -sequence requires -export-dir\n")
		os.Exit(1)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	var axis volume.Axis
	haveAxis := *axisFlag != ""
	if haveAxis {
		axis, err = volume.ParseAxis(*axisFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *sequence && !haveAxis {
		fmt.Fprintf(os.Stderr, "Error: -sequence requires -axis\n")
		os.Exit(1)
	}

	if *slice >= 0 && !haveAxis {
		fmt.Fprintf(os.Stderr, "Error: -slice requires -axis\n")
		os.Exit(1)
	}

	// Load the volume and its acquisition window, if any.
	vol, seriesWindow, hasSeriesWindow, err := loadVolume(*input, *demo, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	state, err := nav.NewState(vol)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Window precedence: explicit flags, then named preset, then the
	// series' own window, then the full intensity range.
	switch {
	case *windowWidth != 0:
		if err := state.SetWindow(*windowLevel, *windowWidth); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case *preset != "" || cfg.Display.Preset != "":
		name := *preset
		if name == "" {
			name = cfg.Display.Preset
		}
		p, ok := cfg.Preset(name)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown window preset %q\n", name)
			os.Exit(1)
		}
		if err := state.SetWindow(p.Level, p.Width); err != nil {
			fmt.Fprintf(os.Stderr, "Error: preset %q: %v\n", name, err)
			os.Exit(1)
		}
	case hasSeriesWindow:
		if err := state.SetWindow(seriesWindow.Level, seriesWindow.Width); err != nil {
			log.Printf("series window invalid, keeping full range: %v", err)
		}
	}

	if *slice >= 0 {
		state.SetAxisSlice(axis, *slice)
	}

	coord, err := nav.NewCoordinator(state)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *exportDir != "" {
		if err := runExport(coord, cfg, *exportDir, axis, haveAxis, *sequence, *scale); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := viewer.Run(coord, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadVolume resolves the volume source: a DICOM series directory or the
// configured phantom.
func loadVolume(input string, demo bool, cfg *config.Config) (*volume.Volume, volume.Window, bool, error) {
	if demo {
		e := cfg.Demo.Extents
		vol, err := volume.Synthetic(e[0], e[1], e[2], cfg.Demo.Seed)
		if err != nil {
			return nil, volume.Window{}, false, fmt.Errorf("generating phantom: %w", err)
		}
		return vol, volume.Window{}, false, nil
	}

	series, err := dicomio.LoadSeries(input)
	if err != nil {
		return nil, volume.Window{}, false, fmt.Errorf("loading series from %s: %w", input, err)
	}

	nx, ny, nz := series.Volume.Extent(volume.Sagittal), series.Volume.Extent(volume.Coronal), series.Volume.Extent(volume.Axial)
	desc := series.Description
	if desc == "" {
		desc = "(no description)"
	}
	log.Printf("loaded %s series %s: %dx%dx%d voxels", series.Modality, desc, nx, ny, nz)

	return series.Volume, series.Window, series.HasWindow, nil
}

// runExport writes PNG slices instead of starting the viewer. Without
// -sequence it saves the cursor slice of each axis (or just -axis when
// given); with -sequence it saves every slice along -axis.
func runExport(coord *nav.Coordinator, cfg *config.Config, dir string, axis volume.Axis, haveAxis, sequence bool, scale int) error {
	if scale < 1 {
		scale = cfg.Export.Scale
	}
	opts := export.Options{
		Scale:     scale,
		Crosshair: true,
		Label:     cfg.Export.Label,
	}

	state := coord.State()

	if sequence {
		seqOpts := opts
		seqOpts.Crosshair = false
		if err := export.SaveViewSequence(state.Volume(), state.Window(), axis, dir, seqOpts); err != nil {
			return err
		}
		fmt.Printf("Exported %d %s slices to %s\n", state.Volume().Extent(axis), axis, dir)
		return nil
	}

	axes := volume.Axes()
	if haveAxis {
		axes = []volume.Axis{axis}
	}
	for _, a := range axes {
		vs, err := state.ViewState(a)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf("slice_%s_%03d.png", a, vs.SliceIndex))
		if err := export.SaveView(vs, path, opts); err != nil {
			return err
		}
		fmt.Printf("Exported %s\n", path)
	}
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage:")
	fmt.Fprintln(os.Stderr, "  mprview -input <DIR> | -demo [options]")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	flag.PrintDefaults()
}

func printHelp() {
	fmt.Println("mprview")
	fmt.Println("=======")
	fmt.Println()
	fmt.Println("Inspect a volumetric series with three synchronized reconstruction views.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  mprview -input <DIR> | -demo [options]")
	fmt.Println()
	fmt.Println("Volume source (one required):")
	fmt.Println("  -input <DIR>          Directory containing a DICOM series (.dcm files)")
	fmt.Println("  -demo                 Generate a phantom volume (extents/seed from config)")
	fmt.Println()
	fmt.Println("Windowing:")
	fmt.Println("  -window-level <L>     Initial window level (with -window-width)")
	fmt.Println("  -window-width <W>     Initial window width (with -window-level)")
	fmt.Println("  -preset <NAME>        Named window preset from the configuration")
	fmt.Println()
	fmt.Println("Cursor placement:")
	fmt.Println("  -axis <AXIS>          axial, sagittal or coronal")
	fmt.Println("  -slice <N>            Move the cursor to slice N along -axis")
	fmt.Println()
	fmt.Println("Export (instead of the interactive viewer):")
	fmt.Println("  -export-dir <DIR>     Write PNG slices to DIR and exit")
	fmt.Println("  -sequence             Export every slice along -axis")
	fmt.Println("  -scale <N>            Integer upscale factor for exported images")
	fmt.Println()
	fmt.Println("Other:")
	fmt.Println("  -config <FILE>        Load configuration from a YAML file")
	fmt.Println("  -help                 Show this help message")
	fmt.Println("  -version              Show version")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Browse a series interactively")
	fmt.Println("  mprview -input dicom_series/PT000000/ST000000/SE000000")
	fmt.Println()
	fmt.Println("  # Browse a generated phantom")
	fmt.Println("  mprview -demo")
	fmt.Println()
	fmt.Println("  # Export the three cursor slices with a soft-tissue window")
	fmt.Println("  mprview -demo -preset soft-tissue -export-dir out")
	fmt.Println()
	fmt.Println("  # Export axial slice 40 at 4x scale")
	fmt.Println("  mprview -demo -axis axial -slice 40 -export-dir out -scale 4")
	fmt.Println()
	fmt.Println("  # Export the whole sagittal stack")
	fmt.Println("  mprview -demo -axis sagittal -sequence -export-dir out")
	fmt.Println()
	fmt.Println("Viewer keys:")
	fmt.Println("  tab                   Cycle the focused view")
	fmt.Println("  [ / ]                 Previous / next slice on the focused view")
	fmt.Println("  arrows                Move the shared crosshair on the focused view")
	fmt.Println("  g                     Jump to a slice by number")
	fmt.Println("  w / s                 Raise / lower the window level")
	fmt.Println("  a / d                 Narrow / widen the window width")
	fmt.Println("  r                     Reset the window to the full intensity range")
	fmt.Println("  q                     Quit")
}
