package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/jive-vlbi/vlbid/internal/datacheck"
)

// cmdScanCheck runs the "scan-check" verb: component B's FindDataFormat
// against a single file on disk, printing the recognised format the way
// an operator would use it to sanity-check a recording (spec.md §4.B,
// §8 scenario 1/2).
func cmdScanCheck(cfg runtimeConfig, args []string) error {
	fs := flag.NewFlagSet("scan-check", flag.ExitOnError)
	budget := fs.Int64("budget", int64(cfg.ScanCheckBudget), "inspect-byte budget sampled from the start of the file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: vlbid scan-check [-budget N] <path>")
	}

	r, err := datacheck.NewFileReader(fs.Arg(0))
	if err != nil {
		return err
	}
	defer r.Close()

	res, err := datacheck.FindDataFormat(r, *budget, datacheck.Options{CurrentYear: time.Now().Year()})
	if err != nil {
		return err
	}

	fmt.Printf("format:        %s\n", res.Format)
	fmt.Printf("ntrack:        %d\n", res.Ntrack)
	fmt.Printf("trackbitrate:  %s\n", res.TrackBitrate)
	fmt.Printf("byte offset:   %d\n", res.ByteOffset)
	fmt.Printf("frame size:    %d\n", res.FrameSize)
	fmt.Printf("frame number:  %d\n", res.FrameNumber)
	fmt.Printf("time:          %s\n", res.Time)
	fmt.Printf("partial:       %t\n", res.Partial())
	fmt.Printf("threads:       %d\n", res.Threads)
	if res.TVG {
		fmt.Println("tvg:           true")
	}
	if res.DBENoSubsecond {
		fmt.Println("dbe-no-subsecond: true")
	}
	return nil
}
