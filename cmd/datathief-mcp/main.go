package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/ironsheep/datathief-mcp/internal/config"
	"github.com/ironsheep/datathief-mcp/internal/datathief"
	"github.com/ironsheep/datathief-mcp/internal/imaging"
	"github.com/ironsheep/datathief-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("datathief-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol and results)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	if len(os.Args) > 1 && os.Args[1] == "extract" {
		if err := extract(cfg, os.Args[2:]); err != nil {
			log.Fatalf("Extract failed: %v", err)
		}
		return
	}

	if cfg.Debug() {
		log.Printf("DataThief MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	server.Version = Version
	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printHelp() {
	fmt.Println("datathief-mcp - MCP server for extracting data from annotated charts")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  datathief-mcp [options]")
	fmt.Println("  datathief-mcp extract <image> [xlo xhi ylo yhi]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  extract          Calibrate one image and print the data as JSON")
	fmt.Println()
	fmt.Println("Environment variables (also read from ./.env):")
	fmt.Printf("  %s=debug            Enable debug logging\n", config.EnvLogLevel)
	fmt.Printf("  %s=lo,hi             Default x axis limits (0,1)\n", config.EnvXLimits)
	fmt.Printf("  %s=lo,hi             Default y axis limits (0,1)\n", config.EnvYLimits)
	fmt.Printf("  %s=#rrggbb            X reference color (#0000ff)\n", config.EnvXColor)
	fmt.Printf("  %s=#rrggbb            Y reference color (#ff0000)\n", config.EnvYColor)
	fmt.Printf("  %s=#rrggbb         Data point color (#00ff00)\n", config.EnvDataColor)
	fmt.Printf("  %s=y|both|none   Reference pairs to sort (y)\n", config.EnvReferenceSort)
	fmt.Println()
	fmt.Println("Without a command the server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

// extract runs one calibration and writes the result to stdout.
func extract(cfg *config.Config, args []string) error {
	if len(args) != 1 && len(args) != 5 {
		return fmt.Errorf("usage: datathief-mcp extract <image> [xlo xhi ylo yhi]")
	}

	opts := cfg.Options()
	if len(args) == 5 {
		var v [4]float64
		for i, s := range args[1:] {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("invalid limit %q: %w", s, err)
			}
			v[i] = f
		}
		opts.XLimits = datathief.AxisLimits{Lo: v[0], Hi: v[1]}
		opts.YLimits = datathief.AxisLimits{Lo: v[2], Hi: v[3]}
	}

	res, err := datathief.CalibrateFile(imaging.NewImageCache(), args[0], opts)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
