// Command dem-inspect reports the shape, resolution, and format of a
// COG/GeoTIFF coarse DEM, for checking that a file is suitable for use
// as the Coarse DEM Collaborator before wiring it into hirdem-demo.
// Adapted from the teacher's cog-inspection tooling, narrowed to the
// handful of fields the Coarse DEM Collaborator contract actually
// cares about (shape, resolution, sample format) rather than the full
// tile-pyramid/CRS report the original tool produced.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dgorski/hirdem/internal/coarsedem/cog"
)

func main() {
	var level int
	flag.IntVar(&level, "level", 0, "IFD/overview level to inspect")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: dem-inspect [-level N] <path-to-geotiff>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	r, err := cog.Open(path)
	if err != nil {
		log.Fatalf("open %s: %v", path, err)
	}
	defer r.Close()

	if level < 0 || level >= r.IFDCount() {
		log.Fatalf("invalid level %d (have %d IFDs)", level, r.IFDCount())
	}

	fmt.Printf("path:             %s\n", r.Path())
	fmt.Printf("ifd levels:       %d\n", r.IFDCount())
	fmt.Printf("level %d width:    %d px\n", level, r.IFDWidth(level))
	fmt.Printf("level %d height:   %d px\n", level, r.IFDHeight(level))
	fmt.Printf("pixel size:       %.6g world units/px\n", r.IFDPixelSize(level))
	fmt.Printf("format:           %s\n", r.FormatDescription())
	fmt.Printf("is float:         %v\n", r.IsFloat())
	fmt.Printf("nodata:           %q\n", r.NoData())

	if !r.IsFloat() {
		fmt.Fprintln(os.Stderr, "warning: raster is not floating-point; it cannot serve as a coarse DEM elevation source")
	}

	minX, minY, maxX, maxY := r.BoundsInCRS()
	fmt.Printf("bounds (CRS):     [%.3f, %.3f] - [%.3f, %.3f]\n", minX, minY, maxX, maxY)
}
