package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	lappd "github.com/next-exp/lappd_go/pkg"
)

func main() {
	strip := flag.Int("strip", 0, "Print the centre of this strip")
	trans := flag.Float64("trans", math.NaN(), "Print the strip covering this transverse coordinate (mm)")
	flag.Parse()

	geometry := lappd.DefaultGeometry()

	switch {
	case *strip != 0:
		coordinate, err := geometry.CoordinateOf(*strip)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("strip %d: %.3f mm\n", *strip, coordinate)
	case !math.IsNaN(*trans):
		index, err := geometry.StripIndexOf(*trans)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("%.3f mm: strip %d\n", *trans, index)
	default:
		printStripTable(geometry)
	}
}

func printStripTable(geometry lappd.Geometry) {
	fmt.Printf("%6s %12s %10s %8s %8s\n", "strip", "centre (mm)", "roundtrip", "left ch", "right ch")
	for strip := 1; strip <= geometry.NStrips; strip++ {
		coordinate, _ := geometry.CoordinateOf(strip)
		index, _ := geometry.StripIndexOf(coordinate)
		left, _ := geometry.Channel(strip, lappd.Left)
		right, _ := geometry.Channel(strip, lappd.Right)
		fmt.Printf("%6d %12.3f %10d %8d %8d\n", strip, coordinate, index, left, right)
	}
}
