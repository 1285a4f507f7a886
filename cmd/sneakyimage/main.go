package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/ironsheep/sneakyimage/internal/imaging"
	"github.com/ironsheep/sneakyimage/internal/server"
	"github.com/ironsheep/sneakyimage/internal/steg"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// errUsage marks errors caused by bad command-line arguments.
var errUsage = errors.New("usage error")

func main() {
	// Configure logging to stderr (stdout carries results and MCP traffic)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the streams and settings shared by every subcommand.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	debug  bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	a := &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		debug:  os.Getenv("SNEAKYIMAGE_LOG_LEVEL") == "debug",
	}

	if len(args) == 0 {
		a.printHelp()
		return fmt.Errorf("%w: no command given", errUsage)
	}

	switch args[0] {
	case "--version", "-v", "version":
		fmt.Fprintf(stdout, "sneakyimage %s\n", Version)
		fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
		return nil
	case "--help", "-h", "help":
		a.printHelp()
		return nil
	case "enc":
		return a.runEncode(args[1:])
	case "dec":
		return a.runDecode(args[1:])
	case "capacity":
		return a.runCapacity(args[1:])
	case "inspect":
		return a.runInspect(args[1:])
	case "compare":
		return a.runCompare(args[1:])
	case "planes":
		return a.runPlanes(args[1:])
	case "serve":
		return a.runServe(args[1:])
	default:
		a.printHelp()
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func (a *app) printHelp() {
	fmt.Fprintln(a.stdout, "sneakyimage - hide text in the least significant bits of an image")
	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, "Usage:")
	fmt.Fprintln(a.stdout, "  sneakyimage enc <input> <message> <output>")
	fmt.Fprintln(a.stdout, "  sneakyimage enc --message-file <path|-> <input> <output>")
	fmt.Fprintln(a.stdout, "  sneakyimage dec [--raw] <input>")
	fmt.Fprintln(a.stdout, "  sneakyimage capacity [--message TEXT] [--json] <image>")
	fmt.Fprintln(a.stdout, "  sneakyimage inspect [--json] <image> <x> <y>")
	fmt.Fprintln(a.stdout, "  sneakyimage compare [--diff PATH] [--scale N] [--json] <original> <modified>")
	fmt.Fprintln(a.stdout, "  sneakyimage planes [--channel C] [--bit N] [--region R] [--scale N] --out PATH <image>")
	fmt.Fprintln(a.stdout, "  sneakyimage serve")
	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, "Options:")
	fmt.Fprintln(a.stdout, "  --version, -v    Print version information")
	fmt.Fprintln(a.stdout, "  --help, -h       Print this help message")
	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, "Output images must be lossless (png, tiff, bmp); jpeg and gif are refused.")
	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, "Environment variables:")
	fmt.Fprintln(a.stdout, "  SNEAKYIMAGE_LOG_LEVEL=debug    Enable debug logging")
}

// newFlagSet returns a flag set for a subcommand whose usage goes to stderr.
func (a *app) newFlagSet(name, usage string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage: sneakyimage %s\n", usage)
		fs.PrintDefaults()
	}
	return fs
}

// parse parses args into fs and checks the positional argument count.
func parse(fs *pflag.FlagSet, args []string, want int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, pflag.ErrHelp
		}
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	return checkArgs(fs, want)
}

func checkArgs(fs *pflag.FlagSet, want int) ([]string, error) {
	if fs.NArg() != want {
		fs.Usage()
		return nil, fmt.Errorf("%w: %s expects %d arguments, got %d", errUsage, fs.Name(), want, fs.NArg())
	}
	return fs.Args(), nil
}

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) runEncode(args []string) error {
	fs := a.newFlagSet("enc", "enc [--message-file <path|->] <input> [message] <output>")
	messageFile := fs.StringP("message-file", "f", "", "read the payload from a file, or stdin for -")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	fromFile := fs.Changed("message-file")
	want := 3
	if fromFile {
		want = 2
	}
	pos, err := checkArgs(fs, want)
	if err != nil {
		return err
	}

	var inputPath, outputPath string
	var payload []byte
	if fromFile {
		inputPath, outputPath = pos[0], pos[1]
		if payload, err = a.readMessageFile(*messageFile); err != nil {
			return err
		}
	} else {
		inputPath, outputPath = pos[0], pos[2]
		payload = []byte(pos[1])
	}

	if a.debug {
		log.Printf("encoding %d bytes (%d bits)", len(payload), steg.RequiredBits(len(payload)))
	}

	fmt.Fprintf(a.stdout, "Encoding message in '%s' and saving to '%s'\n", inputPath, outputPath)
	if err := steg.EncodeBytesFile(inputPath, payload, outputPath); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Encoding complete!")
	return nil
}

func (a *app) readMessageFile(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read message from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read message file: %w", err)
	}
	return data, nil
}

func (a *app) runDecode(args []string) error {
	fs := a.newFlagSet("dec", "dec [--raw] <input>")
	raw := fs.Bool("raw", false, "write the payload bytes to stdout unvalidated")

	pos, err := parse(fs, args, 1)
	if err != nil {
		return ignoreHelp(err)
	}
	inputPath := pos[0]

	if *raw {
		payload, err := steg.DecodeBytesFile(inputPath)
		if err != nil {
			return err
		}
		if a.debug {
			log.Printf("decoded %d bytes", len(payload))
		}
		_, err = a.stdout.Write(payload)
		return err
	}

	fmt.Fprintf(a.stdout, "Decoding message from '%s'\n", inputPath)
	message, err := steg.DecodeFile(inputPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "The secret message is: %s\n", message)
	return nil
}

func (a *app) runCapacity(args []string) error {
	fs := a.newFlagSet("capacity", "capacity [--message TEXT] [--json] <image>")
	message := fs.StringP("message", "m", "", "check whether this message fits")
	asJSON := fs.Bool("json", false, "print the result as JSON")

	pos, err := parse(fs, args, 1)
	if err != nil {
		return ignoreHelp(err)
	}

	g, err := imaging.LoadGrid(pos[0])
	if err != nil {
		return err
	}
	width, height := g.Dimensions()
	c := steg.CapacityOf(width, height)

	var planErr error
	checkMessage := fs.Changed("message")
	if checkMessage {
		_, planErr = steg.Plan(width, height, len(*message))
	}

	if *asJSON {
		out := map[string]interface{}{"capacity": c}
		if checkMessage {
			out["required_bits"] = steg.RequiredBits(len(*message))
			out["fits"] = planErr == nil
		}
		return a.printJSON(out)
	}

	fmt.Fprintf(a.stdout, "Image: %dx%d (%d pixels)\n", c.Width, c.Height, c.Pixels)
	fmt.Fprintf(a.stdout, "Capacity: %d bits\n", c.CapacityBits)
	fmt.Fprintf(a.stdout, "Largest message: %d bytes\n", c.MaxPayloadBytes)
	if checkMessage {
		if planErr != nil {
			fmt.Fprintf(a.stdout, "Message does not fit: %v\n", planErr)
		} else {
			fmt.Fprintf(a.stdout, "Message fits: %d of %d bits\n", steg.RequiredBits(len(*message)), c.CapacityBits)
		}
	}
	return nil
}

func (a *app) runInspect(args []string) error {
	fs := a.newFlagSet("inspect", "inspect [--json] <image> <x> <y>")
	asJSON := fs.Bool("json", false, "print the result as JSON")

	pos, err := parse(fs, args, 3)
	if err != nil {
		return ignoreHelp(err)
	}

	x, err := strconv.Atoi(pos[1])
	if err != nil {
		return fmt.Errorf("%w: invalid x coordinate %q", errUsage, pos[1])
	}
	y, err := strconv.Atoi(pos[2])
	if err != nil {
		return fmt.Errorf("%w: invalid y coordinate %q", errUsage, pos[2])
	}

	g, err := imaging.LoadGrid(pos[0])
	if err != nil {
		return err
	}
	sample, err := imaging.SamplePixel(g.Image(), x, y)
	if err != nil {
		return err
	}

	if *asJSON {
		return a.printJSON(sample)
	}
	fmt.Fprintf(a.stdout, "Pixel (%d,%d): %s alpha=%d\n", sample.X, sample.Y, sample.Hex, sample.RGBA.A)
	fmt.Fprintf(a.stdout, "RGBA: %d %d %d %d\n", sample.RGBA.R, sample.RGBA.G, sample.RGBA.B, sample.RGBA.A)
	fmt.Fprintf(a.stdout, "HSL: %d %d%% %d%%\n", sample.HSL.H, sample.HSL.S, sample.HSL.L)
	fmt.Fprintf(a.stdout, "LSBs (R G B): %d %d %d\n", sample.LSBs[0], sample.LSBs[1], sample.LSBs[2])
	return nil
}

func (a *app) runCompare(args []string) error {
	fs := a.newFlagSet("compare", "compare [--diff PATH] [--scale N] [--json] <original> <modified>")
	diffPath := fs.String("diff", "", "write a diff map marking changed channels to PATH")
	scale := fs.Int("scale", 1, "integer enlargement factor for the diff map")
	asJSON := fs.Bool("json", false, "print the result as JSON")

	pos, err := parse(fs, args, 2)
	if err != nil {
		return ignoreHelp(err)
	}

	original, err := imaging.LoadGrid(pos[0])
	if err != nil {
		return err
	}
	modified, err := imaging.LoadGrid(pos[1])
	if err != nil {
		return err
	}

	result, err := imaging.Compare(original.Image(), modified.Image())
	if err != nil {
		return err
	}

	if *diffPath != "" {
		if err := imaging.SaveOverlay(imaging.ScaleDiffMap(result.DiffMap, *scale), *diffPath); err != nil {
			return err
		}
		if a.debug {
			log.Printf("diff map written to %s", *diffPath)
		}
	}

	if *asJSON {
		return a.printJSON(result)
	}
	fmt.Fprintf(a.stdout, "Image: %dx%d\n", result.Width, result.Height)
	fmt.Fprintf(a.stdout, "Changed pixels: %d\n", result.ChangedPixels)
	fmt.Fprintf(a.stdout, "Changed channels: %d\n", result.ChangedChannels)
	fmt.Fprintf(a.stdout, "Last changed pixel index: %d\n", result.LastChangedIndex)
	fmt.Fprintf(a.stdout, "Max channel delta: %d\n", result.MaxChannelDelta)
	fmt.Fprintf(a.stdout, "Max CIEDE2000 distance: %.4f\n", result.MaxDeltaE)
	fmt.Fprintf(a.stdout, "LSB-only changes: %t\n", result.LSBOnly)
	return nil
}

func (a *app) runPlanes(args []string) error {
	fs := a.newFlagSet("planes", "planes [--channel C] [--bit N] [--region R] [--scale N] --out PATH <image>")
	channel := fs.String("channel", "rgb", "channel to render: r, g, b, a or rgb")
	bit := fs.Int("bit", 0, "bit to render, 0 (least significant) to 7")
	region := fs.String("region", "full", "named region: full, top-left, ..., center")
	scale := fs.Int("scale", 1, "integer enlargement factor")
	outPath := fs.StringP("out", "o", "", "path for the rendered plane")

	pos, err := parse(fs, args, 1)
	if err != nil {
		return ignoreHelp(err)
	}
	if *outPath == "" {
		fs.Usage()
		return fmt.Errorf("%w: planes requires --out", errUsage)
	}

	g, err := imaging.LoadGrid(pos[0])
	if err != nil {
		return err
	}
	result, err := imaging.BitPlaneRegion(g.Image(), *region, *channel, *bit, *scale)
	if err != nil {
		return err
	}
	if err := imaging.SaveOverlay(result.Plane, *outPath); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Bit %d of %s: %d of %d set (%.4f)\n",
		result.Bit, result.Channel, result.SetBits, result.TotalBits, result.SetRatio)
	return nil
}

func (a *app) runServe(args []string) error {
	fs := a.newFlagSet("serve", "serve")
	if _, err := parse(fs, args, 0); err != nil {
		return ignoreHelp(err)
	}

	if a.debug {
		log.Printf("SneakyImage MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.New(Version)
	srv.SetDebug(a.debug)
	if err := srv.Run(a.stdin, a.stdout); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// ignoreHelp turns an explicit --help request into a clean exit.
func ignoreHelp(err error) error {
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	return err
}
