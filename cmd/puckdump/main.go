// Command puckdump downloads the dive log from a Mares Puck Pro (or other
// IconHD-family) dive computer over its USB-serial bridge and prints the
// recovered dives.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/divetools/go-iconhd/device"
	"github.com/divetools/go-iconhd/dive"
	"github.com/divetools/go-iconhd/profile"
	"github.com/divetools/go-iconhd/serialport"
)

var (
	Version   = "1.0.0"
	BuildTime = "unknown"
)

func main() {
	portPath := flag.String("port", "", "serial device path (e.g. /dev/ttyUSB0)")
	profilePath := flag.String("profile", "", "device profile YAML (defaults to Puck Pro)")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "text", "log format (text or json)")
	withSamples := flag.Bool("samples", false, "print the full sample series of each dive")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("puckdump v%s (Build: %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	log := setupLogger(*logLevel, *logFormat)

	if *portPath == "" {
		log.Fatal("missing required -port flag")
	}

	prof := profile.PuckPro()
	if *profilePath != "" {
		var err error
		prof, err = profile.Load(*profilePath)
		if err != nil {
			log.Fatalf("load profile: %v", err)
		}
		log.Infof("using profile %q (log top 0x%08X)", prof.Model, prof.LogTop)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mgr := device.NewManager(serialport.Open,
		device.WithProfile(prof),
		device.WithLogger(&logrusAdapter{log: log}),
		device.WithProgressCallback(printProgress),
	)

	if err := mgr.Connect(ctx, *portPath); err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer mgr.Disconnect()

	info, err := mgr.Identify(ctx)
	if err != nil {
		log.Fatalf("identify: %v", err)
	}
	log.Infof("device: %s (firmware %s, serial %s)", info.Product, info.Firmware, info.Serial)

	dives, err := mgr.DownloadDives(ctx)
	if err != nil {
		log.Fatalf("download: %v", err)
	}
	fmt.Fprintln(os.Stderr)

	if len(dives) == 0 {
		log.Info("scan completed: the log region holds no dives")
		return
	}

	printDives(dives, *withSamples)
}

func setupLogger(level, format string) *logrus.Logger {
	log := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return log
}

// printProgress renders a one-line progress indicator on stderr.
func printProgress(p device.Progress) {
	fmt.Fprintf(os.Stderr, "\r[%s] %5.1f%%  blocks %d/%d  dives %d  %s ",
		p.Phase, p.Percentage, p.BlocksRead, p.TotalBlocks, p.DivesFound,
		p.Elapsed.Truncate(time.Second))
}

func printDives(dives []dive.Dive, withSamples bool) {
	fmt.Printf("%-5s %-19s %-9s %-8s %-6s %-7s %-7s\n",
		"#", "Start", "Duration", "MaxDepth", "Water", "MaxTemp", "MinTemp")

	for _, d := range dives {
		h := d.Header
		fmt.Printf("%-5d %-19s %-9s %7.1fm %-6s %6.1fC %6.1fC\n",
			h.Number,
			h.Start.Format("2006-01-02 15:04:05"),
			h.Duration,
			h.MaxDepth,
			h.Salinity,
			h.MaxTemp,
			h.MinTemp,
		)

		if withSamples {
			for _, s := range d.Samples {
				fmt.Printf("      %8s  %6.1fm  %5.1fC\n", s.Offset, s.Depth, s.Temp)
			}
		}
	}
}

// logrusAdapter bridges the library's Logger interface onto logrus.
type logrusAdapter struct {
	log *logrus.Logger
}

func (a *logrusAdapter) Debug(msg string, keysAndValues ...interface{}) {
	a.log.WithFields(fields(keysAndValues)).Debug(msg)
}

func (a *logrusAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.log.WithFields(fields(keysAndValues)).Info(msg)
}

func (a *logrusAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.log.WithFields(fields(keysAndValues)).Error(msg)
}

func fields(keysAndValues []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		f[key] = keysAndValues[i+1]
	}
	return f
}
