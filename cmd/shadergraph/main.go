// Command shadergraph compiles a shader graph snapshot and reports the
// resulting stages.
//
// Usage:
//
//	shadergraph [flags] graph.json
//
// With -dump, every generated program is written to the given directory as
// WGSL, SPIR-V and the sources of the -translate targets. With -preview,
// the compute rasterizer is run on the CPU over a unit quad and the
// visibility buffer is saved as a PNG.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gogpu/shadergraph"
	"github.com/gogpu/shadergraph/cache"
	"github.com/gogpu/shadergraph/codegen"
	"github.com/gogpu/shadergraph/graph"
	"github.com/gogpu/shadergraph/raster"
	"github.com/gogpu/shadergraph/snapshot"
)

func main() {
	var (
		size      = flag.Uint("size", 512, "output image size in pixels")
		mult      = flag.Uint("multiplier", 1, "visibility buffer size multiplier")
		workgroup = flag.Uint("workgroup", 64, "triangles per rasterize workgroup")
		mips      = flag.Bool("mips", false, "request a mip chain on rasterizer images")
		retain    = flag.String("retain", "", "comma-separated subgraph ids kept through pruning")
		validate  = flag.Bool("validate", true, "validate generated programs")
		dump      = flag.String("dump", "", "directory to write generated programs to")
		translate = flag.String("translate", "msl,glsl,hlsl", "comma-separated targets written with -dump")
		preview   = flag.String("preview", "", "write a CPU-rasterized visibility preview PNG")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: shadergraph [flags] graph.json")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if *verbose {
		shadergraph.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	g, err := readGraph(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to read graph: %v", err)
	}
	retained, err := parseIDs(*retain)
	if err != nil {
		log.Fatalf("Bad -retain: %v", err)
	}

	shaders := cache.NewShaderCache(cache.DefaultCapacity)
	out, err := shadergraph.Compile(g,
		shadergraph.WithOutputSize(uint32(*size)),
		shadergraph.WithBaseSizeMultiplier(uint32(*mult)),
		shadergraph.WithWorkgroupSize(uint32(*workgroup)),
		shadergraph.WithMipMaps(*mips),
		shadergraph.WithRetainedSubgraphs(retained...),
		shadergraph.WithValidation(*validate),
		shadergraph.WithCache(shaders),
	)
	if err != nil {
		log.Fatalf("Compile failed: %v", err)
	}
	printStages(os.Stdout, out)

	if *dump != "" {
		targets, err := parseTargets(*translate)
		if err != nil {
			log.Fatalf("Bad -translate: %v", err)
		}
		if err := dumpPrograms(*dump, out, targets); err != nil {
			log.Fatalf("Failed to dump programs: %v", err)
		}
	}

	if *preview != "" {
		if err := writePreview(*preview, out); err != nil {
			log.Fatalf("Failed to write preview: %v", err)
		}
		log.Printf("Preview saved to %s", *preview)
	}
}

func readGraph(path string) (*graph.Graph, error) {
	if path == "-" {
		return snapshot.Decode(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return snapshot.Decode(f)
}

func parseIDs(s string) ([]graph.ID, error) {
	if s == "" {
		return nil, nil
	}
	var ids []graph.ID
	for _, field := range strings.Split(s, ",") {
		n, err := strconv.ParseUint(strings.TrimSpace(field), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, graph.ID(n))
	}
	return ids, nil
}

func parseTargets(s string) ([]codegen.Target, error) {
	var targets []codegen.Target
	for _, field := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(field)) {
		case "":
		case "msl":
			targets = append(targets, codegen.TargetMSL)
		case "glsl":
			targets = append(targets, codegen.TargetGLSL)
		case "hlsl":
			targets = append(targets, codegen.TargetHLSL)
		default:
			return nil, fmt.Errorf("unknown target %q", field)
		}
	}
	return targets, nil
}

func printStages(w io.Writer, out *shadergraph.IntermediateOutput) {
	fmt.Fprintf(w, "%d stage(s), %d typed port(s)\n", len(out.Stages), len(out.Types))
	for _, s := range out.Stages {
		fmt.Fprintf(w, "stage %d: %s domains=%s nodes=%v", s.ID, s.Shader, s.Domains, s.Nodes)
		if len(s.Dependencies) > 0 {
			fmt.Fprintf(w, " after=%v", s.Dependencies)
		}
		fmt.Fprintln(w)
		for _, p := range s.Programs() {
			fmt.Fprintf(w, "  program %s: entry=%s workgroup=%v bindings=%d\n",
				p.Label, p.EntryPoint, p.Workgroup, len(p.Layout.Entries))
		}
	}
}

func dumpPrograms(dir string, out *shadergraph.IntermediateOutput, targets []codegen.Target) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, s := range out.Stages {
		for _, p := range s.Programs() {
			base := filepath.Join(dir, strings.ReplaceAll(p.Label, "/", "_"))
			if err := os.WriteFile(base+".wgsl", []byte(p.Source), 0o644); err != nil {
				return err
			}
			bin, err := p.SPIRV(out.Cache)
			if err != nil {
				return err
			}
			if err := os.WriteFile(base+".spv", bin, 0o644); err != nil {
				return err
			}
			for _, t := range targets {
				src, err := p.Translate(t)
				if err != nil {
					return err
				}
				if err := os.WriteFile(base+"."+t.String(), []byte(src), 0o644); err != nil {
					return err
				}
			}
			log.Printf("Wrote %s.{wgsl,spv}", base)
		}
	}
	return nil
}

// writePreview runs the first rasterizer stage over a unit quad.
func writePreview(path string, out *shadergraph.IntermediateOutput) error {
	var r *codegen.Rasterizer
	for _, s := range out.Stages {
		if s.Rasterizer != nil {
			r = s.Rasterizer
			break
		}
	}
	if r == nil {
		return fmt.Errorf("no %s stage", shadergraph.ShaderComputeRasterizer)
	}

	mesh := raster.Quad()
	vis := raster.NewVisibility(r.Options.GridSize())
	pool := raster.NewWorkerPool(0)
	defer pool.Close()
	raster.RasterizeParallel(pool, mesh, vis, r.Options.WorkgroupSize)

	img := raster.Colorize(raster.Downscale(raster.ToImage(vis), int(r.Options.OutputSize)))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
