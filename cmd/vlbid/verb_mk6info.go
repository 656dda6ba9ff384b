package main

import (
	"flag"
	"fmt"

	"github.com/jive-vlbi/vlbid/internal/vbs"
)

// cmdMk6Info runs the "mk6info" verb: a standalone inspection of one
// Mark6 container file's header and block inventory, grounded on
// original_source/src/mk6info.cc and exercising component D's Mark6
// reader in isolation (spec.md §3.4, §6.2).
func cmdMk6Info(args []string) error {
	fs := flag.NewFlagSet("mk6info", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: vlbid mk6info <path>")
	}

	info, err := vbs.InspectMk6File(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Printf("packet format: %d\n", info.PacketFormat)
	fmt.Printf("packet size:   %d\n", info.PacketSize)
	fmt.Printf("block size:    %d\n", info.BlockSize)
	fmt.Printf("blocks:        %d\n", len(info.Blocks))
	for _, b := range info.Blocks {
		fmt.Printf("  block %-8d offset %-10d size %d\n", b.BlockNumber, b.Offset, b.Size)
	}
	return nil
}
