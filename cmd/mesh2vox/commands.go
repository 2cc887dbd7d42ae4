package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	voxel "github.com/flywave/go-voxel"
	"github.com/flywave/go-voxel/internal/config"
	"github.com/flywave/go-voxel/internal/logger"
)

// convertFlags are the command-line overrides of the config file.
type convertFlags struct {
	fs         *flag.FlagSet
	configPath *string
	x, y, z    *int
	resolution *float64
	rotation   *string
	order      *string
	normalize  *bool
	textures   *string
	perFaceUV  *bool
	output     *string
	names      *string
	preview    *string
	logLevel   *string
	logFile    *string
}

func newConvertFlags() *convertFlags {
	fs := newFlagSet("convert")
	return &convertFlags{
		fs:         fs,
		configPath: fs.String("config", "", "YAML config file"),
		x:          fs.Int("x", 0, "Grid size along X"),
		y:          fs.Int("y", 0, "Grid size along Y"),
		z:          fs.Int("z", 0, "Grid size along Z"),
		resolution: fs.Float64("res", 0, "Samples per unit length"),
		rotation:   fs.String("rot", "", "Rotation in degrees as x,y,z"),
		order:      fs.String("order", "", "Rotation order, e.g. xyz or zyx"),
		normalize:  fs.Bool("normalize", true, "Fit the model into the grid"),
		textures:   fs.String("textures", "", "Directory of block textures"),
		perFaceUV:  fs.Bool("per-face-uv", false, "Sample each face through its own UV face"),
		output:     fs.String("o", "", "Output grid (.json/.vxg[.gz|.zst]); stdout JSON when empty"),
		names:      fs.String("names", "", "Write the texture name table here"),
		preview:    fs.String("preview", "", "Write a .glb preview here"),
		logLevel:   fs.String("log-level", "", "debug, info, warn or error"),
		logFile:    fs.String("log-file", "", "Rotating log file"),
	}
}

// apply copies every flag given on the command line into cfg.
func (f *convertFlags) apply(cfg *config.Config) error {
	var err error
	f.fs.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "x":
			cfg.Grid.X = *f.x
		case "y":
			cfg.Grid.Y = *f.y
		case "z":
			cfg.Grid.Z = *f.z
		case "res":
			cfg.Grid.Resolution = float32(*f.resolution)
		case "rot":
			cfg.Transform.Rotation, err = parseVec3(*f.rotation)
		case "order":
			cfg.Transform.Order = *f.order
		case "normalize":
			cfg.Transform.Normalize = *f.normalize
		case "textures":
			cfg.Textures.Dir = *f.textures
		case "per-face-uv":
			cfg.Textures.PerFaceUV = *f.perFaceUV
		case "o":
			cfg.Output.Path = *f.output
		case "names":
			cfg.Output.Names = *f.names
		case "preview":
			cfg.Output.Preview = *f.preview
		case "log-level":
			cfg.Logging.Level = *f.logLevel
		case "log-file":
			cfg.Logging.LogFile = *f.logFile
		}
	})
	return err
}

// loadConfig applies defaults < file < flags and validates the result.
func (f *convertFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(*f.configPath)
	if err != nil {
		return nil, err
	}
	if err := f.apply(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func cmdConvert(args []string, out io.Writer) error {
	f := newConvertFlags()
	if err := f.fs.Parse(args); err != nil {
		return err
	}
	if f.fs.NArg() < 1 {
		return errors.New("usage: mesh2vox convert [options] <model>")
	}
	cfg, err := f.loadConfig()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return err
	}

	input := f.fs.Arg(0)
	c, err := convertModel(cfg, input)
	if err != nil {
		return err
	}
	if err := writeOutputs(cfg, c, out); err != nil {
		return err
	}
	logger.Info("converted",
		zap.String("model", input),
		zap.Stringer("dims", c.Grid.Dims),
		zap.Int("filled", c.Grid.FilledCount()),
		zap.String("output", cfg.Output.Path),
	)
	return nil
}

func cmdInfo(args []string, out io.Writer) error {
	fs := newFlagSet("info")
	empty := fs.Int("empty", 0, "Empty sentinel of JSON grids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: mesh2vox info [-empty N] <grid>")
	}
	g, err := voxel.ReadGridFile(fs.Arg(0), int16(*empty))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Grid:        %s\n", fs.Arg(0))
	fmt.Fprintf(out, "Dims:        %s\n", g.Dims)
	fmt.Fprintf(out, "Resolution:  %g\n", g.Resolution)
	fmt.Fprintf(out, "Empty:       %d\n", g.Empty)
	fmt.Fprintf(out, "Filled:      %d of %d\n", g.FilledCount(), g.Dims.Volume())
	fmt.Fprintf(out, "Fingerprint: %016x\n", g.Fingerprint())
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Blocks:")
	h := g.Histogram()
	for _, v := range voxel.SortedBlockValues(h) {
		if v == g.Empty {
			continue
		}
		fmt.Fprintf(out, "  %6d %d\n", v, h[v])
	}
	return nil
}

func cmdTextures(args []string, out io.Writer) error {
	fs := newFlagSet("textures")
	names := fs.String("o", "", "Write the name table here")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: mesh2vox textures [-o names.json] <dir>")
	}
	texs, err := voxel.LoadTextureDir(fs.Arg(0))
	if err != nil {
		return err
	}
	set := voxel.NewTextureSet(texs)
	for i, t := range texs {
		mean := set.Stat(i).Mean()
		fmt.Fprintf(out, "%4d  %-32s %4dx%-4d #%02x%02x%02x\n", i, t.Name, t.Width(), t.Height(), mean[0], mean[1], mean[2])
	}
	if *names == "" {
		return nil
	}
	file, err := os.Create(*names)
	if err != nil {
		return err
	}
	if err := voxel.WriteNameTable(file, set.Names); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func cmdPreview(args []string, out io.Writer) error {
	fs := newFlagSet("preview")
	textures := fs.String("textures", "", "Directory of block textures for colours")
	empty := fs.Int("empty", 0, "Empty sentinel of JSON grids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return errors.New("usage: mesh2vox preview [options] <grid> <out.glb>")
	}
	g, err := voxel.ReadGridFile(fs.Arg(0), int16(*empty))
	if err != nil {
		return err
	}
	set, err := loadTextureSet(*textures)
	if err != nil {
		return err
	}
	doc, err := voxel.GridToGltf(g, voxel.PaletteFromTextures(set))
	if err != nil {
		return err
	}
	if err := voxel.WriteGltfFile(fs.Arg(1), doc); err != nil {
		return err
	}
	prims := 0
	for _, m := range doc.Meshes {
		prims += len(m.Primitives)
	}
	fmt.Fprintf(out, "Wrote %s (%d primitives)\n", fs.Arg(1), prims)
	return nil
}

func cmdConfig(args []string, out io.Writer) error {
	fs := newFlagSet("config")
	configPath := fs.String("config", "", "YAML config file to start from")
	output := fs.String("o", "", "Save the config here instead of printing it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if *output != "" {
		return cfg.SaveTo(*output)
	}
	return cfg.Write(out)
}
