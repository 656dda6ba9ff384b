package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/jive-vlbi/vlbid/internal/vbs"
)

// cmdVbsLs runs the "vbs-ls" verb: component D's recording scan (§4.D
// "Recording scan") against a set of mountpoints, listing every chunk
// discovered for recname and the combined virtual-file size a
// subsequent vbs.Open would report.
func cmdVbsLs(cfg runtimeConfig, args []string) error {
	fs := flag.NewFlagSet("vbs-ls", flag.ExitOnError)
	mountpointGlobs := fs.String("mountpoints", strings.Join(cfg.MountpointGlobs, ","), "comma-separated mountpoint glob patterns")
	layout := fs.String("layout", "flexbuff", "recording layout to scan: flexbuff or mk6")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: vlbid vbs-ls [-mountpoints globs] [-layout flexbuff|mk6] <recname>")
	}
	recname := fs.Arg(0)

	mountpoints, err := vbs.DiscoverMountpoints(strings.Split(*mountpointGlobs, ","))
	if err != nil {
		return err
	}

	var chunks []*vbs.FileChunk
	switch *layout {
	case "flexbuff":
		chunks, err = vbs.ScanFlexBuff(mountpoints, recname)
	case "mk6":
		chunks, err = vbs.ScanMk6(mountpoints, recname)
	default:
		return fmt.Errorf("unknown -layout %q (want flexbuff or mk6)", *layout)
	}
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		fmt.Printf("no chunks found for %q across %d mountpoint(s)\n", recname, len(mountpoints))
		return nil
	}

	f := vbs.Open(chunks)
	defer f.Close()

	for _, c := range chunks {
		fmt.Printf("  %-40s chunk %-6d suffix %-4d size %d\n", c.Path, c.ChunkNumber, c.SuffixID, c.Size)
	}
	fmt.Printf("total: %d chunk(s), %d bytes\n", len(chunks), f.Size())
	return nil
}
