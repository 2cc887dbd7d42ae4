// mesh2vox converts triangle meshes into voxel grids.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/flywave/go-voxel/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	err := run(os.Args[1], os.Args[2:], os.Stdout)
	logger.Sync()
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", os.Args[1]), zap.Error(err))
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string, out io.Writer) error {
	switch command {
	case "convert", "c":
		return cmdConvert(args, out)
	case "info":
		return cmdInfo(args, out)
	case "textures", "tex":
		return cmdTextures(args, out)
	case "preview":
		return cmdPreview(args, out)
	case "config":
		return cmdConfig(args, out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		printUsage(os.Stderr)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage(wt io.Writer) {
	fmt.Fprintln(wt, `mesh2vox - mesh to voxel grid converter

Usage:
  mesh2vox <command> [options]

Commands:
  convert [options] <model.obj|.gltf|.glb>   Voxelize a model
  info [-empty N] <grid>                      Show grid statistics
  textures [-o names.json] <dir>              List block textures and their ids
  preview [options] <grid> <out.glb>          Export a grid as a glTF preview
  config [-config file] [-o file]             Print or save the effective config

Grids are written as .json or .vxg, optionally followed by .gz or .zst.

Examples:
  mesh2vox convert -x 64 -y 64 -z 64 -textures blocks -o house.vxg.zst house.obj
  mesh2vox info house.vxg.zst
  mesh2vox preview -textures blocks house.vxg.zst house.glb`)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

// parseVec3 reads "x,y,z".
func parseVec3(s string) ([3]float32, error) {
	var v [3]float32
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return v, fmt.Errorf("want x,y,z, got %q", s)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return v, fmt.Errorf("bad component %q: %w", p, err)
		}
		v[i] = float32(f)
	}
	return v, nil
}
