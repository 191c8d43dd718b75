// Command retune shifts the pitch of a mono WAV recording.
//
// Usage:
//
//	retune [flags] input.wav output.wav
//	retune -history runs.db -list-history 10
//
// The target is chosen from the first flag given of -ratio, -semitones,
// -hz, -note, -ref and -snap. Settings can also come from a .env file in
// the working directory (RETUNE_ENGINE, RETUNE_THRESHOLD, RETUNE_HISTORY,
// RETUNE_PCM16, RETUNE_TIMEOUT); flags win.
//
// Examples:
//
//	retune -note A4 voice.wav voice_a4.wav
//	retune -semitones -3 -engine vocoder in.wav out.wav
//	retune -ref piano_c.wav -engine both in.wav out.wav
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/ossrs/go-oryx-lib/errors"
	"github.com/ossrs/go-oryx-lib/logger"

	"github.com/cwbudde/algo-retune/internal/store"
	"github.com/cwbudde/algo-retune/tuner"
)

func main() {
	ctx := logger.WithContext(context.Background())

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		for s := range sc {
			logger.Tf(ctx, "Got signal %v", s)
			cancel()
		}
	}()

	if err := doMain(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		logger.Ef(ctx, "run err %+v", err)
		os.Exit(1)
	}
}

type options struct {
	cfg         tuner.Config
	listHistory int
}

func doMain(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if err := tuner.LoadEnv(".env"); err != nil {
		return err
	}

	opts, err := parseFlags(args, stderr)
	if err == flag.ErrHelp {
		return nil
	} else if err != nil {
		return errors.Wrapf(err, "parse flags")
	}

	if opts.listHistory > 0 {
		return listHistory(ctx, stdout, opts.cfg.HistoryPath, opts.listHistory)
	}

	t, err := tuner.New(opts.cfg)
	if err != nil {
		return err
	}
	defer t.Close()

	report, err := t.Run(ctx)
	if err != nil {
		return errors.Wrapf(err, "retune %v", opts.cfg.Input)
	}
	return printSummary(stdout, report)
}

// parseFlags layers command-line flags over the environment config.
func parseFlags(args []string, stderr io.Writer) (options, error) {
	cfg, err := tuner.ConfigFromEnv()
	if err != nil {
		return options{}, err
	}
	opts := options{cfg: cfg}

	fs := flag.NewFlagSet("retune", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Float64Var(&opts.cfg.Ratio, "ratio", 0, "frequency ratio to apply, e.g. 1.5")
	fs.Float64Var(&opts.cfg.Semitones, "semitones", 0, "shift by semitones, may be negative")
	fs.Float64Var(&opts.cfg.TargetHz, "hz", 0, "target fundamental frequency in Hz")
	fs.StringVar(&opts.cfg.Note, "note", "", "target note name, e.g. A4 or C#3")
	fs.StringVar(&opts.cfg.Reference, "ref", "", "reference WAV whose pitch class to match")
	fs.BoolVar(&opts.cfg.Snap, "snap", false, "snap to the nearest equal-tempered note")
	fs.StringVar(&opts.cfg.Engine, "engine", cfg.Engine, "psola, vocoder, auto or both")
	fs.Float64Var(&opts.cfg.Threshold, "threshold", cfg.Threshold, "YIN threshold in (0, 1)")
	fs.BoolVar(&opts.cfg.PCM16, "pcm16", cfg.PCM16, "write 16-bit PCM instead of 32-bit float")
	fs.BoolVar(&opts.cfg.Strict, "strict", false, "fail instead of writing silence for too short input")
	fs.StringVar(&opts.cfg.HistoryPath, "history", cfg.HistoryPath, "SQLite file recording every run")
	fs.DurationVar(&opts.cfg.Timeout, "timeout", cfg.Timeout, "abort after this long, 0 disables")
	fs.IntVar(&opts.listHistory, "list-history", 0, "print the last N runs and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: retune [flags] input.wav output.wav\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if opts.listHistory > 0 {
		if opts.cfg.HistoryPath == "" {
			return opts, errors.New("-list-history needs -history or RETUNE_HISTORY")
		}
		return opts, nil
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return opts, errors.Errorf("want input and output file, got %d arguments", fs.NArg())
	}
	opts.cfg.Input, opts.cfg.Output = fs.Arg(0), fs.Arg(1)
	return opts, nil
}

func printSummary(w io.Writer, r *tuner.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "input\t%v\t%v samples @ %v Hz\n", r.Input, humanize.Comma(int64(r.Samples)), r.SampleRate)
	if r.SourceF0 > 0 {
		fmt.Fprintf(tw, "source\t%.2f Hz\tconfidence %.3f\n", r.SourceF0, r.Confidence)
	} else {
		fmt.Fprintf(tw, "source\tunvoiced\t\n")
	}
	if r.ReferenceF0 > 0 {
		fmt.Fprintf(tw, "reference\t%.2f Hz\t\n", r.ReferenceF0)
	}
	if r.TargetF0 > 0 {
		fmt.Fprintf(tw, "target\t%.2f Hz\tratio %.4f (%v)\n", r.TargetF0, r.Ratio, r.Reason)
	} else {
		fmt.Fprintf(tw, "target\t-\tratio %.4f (%v)\n", r.Ratio, r.Reason)
	}
	if r.Marks > 0 {
		fmt.Fprintf(tw, "engine\t%v\t%v pitch marks\n", r.Engine, humanize.Comma(int64(r.Marks)))
	} else {
		fmt.Fprintf(tw, "engine\t%v\t\n", r.Engine)
	}
	for _, out := range r.Outputs {
		size := "?"
		if fi, err := os.Stat(out); err == nil {
			size = humanize.Bytes(uint64(fi.Size()))
		}
		fmt.Fprintf(tw, "output\t%v\t%v\n", out, size)
	}
	fmt.Fprintf(tw, "elapsed\t%v\t\n", r.Elapsed)
	if r.RunID != "" {
		fmt.Fprintf(tw, "run\t%v\t\n", r.RunID)
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrapf(err, "write summary")
	}
	return nil
}

func listHistory(ctx context.Context, w io.Writer, path string, limit int) error {
	s, err := store.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open history %v", path)
	}
	defer s.Close()

	runs, err := s.Recent(ctx, limit)
	if err != nil {
		return errors.Wrapf(err, "list history")
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "When\tInput\tEngine\tF0 [Hz]\tTarget [Hz]\tRatio\tRun\n")
	fmt.Fprintf(tw, "----\t-----\t------\t-------\t-----------\t-----\t---\n")
	for _, r := range runs {
		fmt.Fprintf(tw, "%v\t%v\t%v\t%.2f\t%.2f\t%.4f\t%v\n",
			humanize.Time(r.CreatedAt), r.Input, r.Engine, r.SourceF0, r.TargetF0, r.Ratio, r.ID)
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrapf(err, "write history")
	}
	return nil
}
