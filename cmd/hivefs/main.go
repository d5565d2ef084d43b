// hivefs mounts a Windows registry hive (or a system32\config directory
// of hives) as a read-only FUSE filesystem.
//
//	hivefs [flags] <hive-or-dir> <mountpoint>
//	unmount with fusermount -u <mountpoint>
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/marmos91/hivefs/internal/logger"
	"github.com/marmos91/hivefs/pkg/adapter/fusefs"
	"github.com/marmos91/hivefs/pkg/config"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("hivefs", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", "", "path to config file")
	flags.BoolP("foreground", "f", false, "stay in the foreground until unmounted")
	flags.BoolP("debug", "d", false, "trace FUSE requests on stderr (implies --foreground)")
	flags.Bool("allow-other", false, "allow other users to access the mount")
	flags.String("fsname", "", "filesystem source name (default: the hive path)")
	flags.BoolP("append-newline", "n", true, "append a newline to text-typed file content")
	flags.BoolP("append-extensions", "e", true, "append the data type to each file name")
	flags.String("log-level", "", "log level (DEBUG, INFO, WARN, ERROR)")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: hivefs [flags] <hive-or-dir> <mountpoint>\n\n")
		fmt.Fprintln(os.Stderr, "Mount a Windows registry hive as a read-only filesystem.")
		fmt.Fprintln(os.Stderr, "A directory is treated as %WINDIR%\\system32\\config with HKLM inside.")
		fmt.Fprintf(os.Stderr, "\nFlags:\n%s", flags.FlagUsages())
	}
	if err := flags.Parse(args); err != nil {
		return 1
	}

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Positional arguments override the config file.
	positional := flags.Args()
	if len(positional) > 0 {
		cfg.Hives.Path = positional[0]
	}
	if len(positional) > 1 {
		cfg.Mount.Mountpoint = positional[1]
	}
	config.ApplyDefaults(cfg)

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flags.Usage()
		return 1
	}

	logger.SetLevel(cfg.Logging.Level)
	if err := setupLogOutput(cfg.Logging.Output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	projection, cleanup, err := config.BuildTree(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer cleanup()

	if mounted, err := fusefs.IsMounted(cfg.Mount.FSName, cfg.Mount.Mountpoint); err == nil && mounted {
		fmt.Fprintf(os.Stderr, "Error: %s is already mounted at %s\n", cfg.Mount.FSName, cfg.Mount.Mountpoint)
		return 1
	}

	server, err := fusefs.Mount(fusefs.Options{
		Mountpoint: cfg.Mount.Mountpoint,
		Tree:       projection,
		FSName:     cfg.Mount.FSName,
		AllowOther: cfg.Mount.AllowOther,
		Debug:      cfg.Mount.Debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Unmount cleanly on SIGINT/SIGTERM; an external fusermount -u
	// ends the serve loop the same way.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received %s, unmounting", sig)
		if err := server.Unmount(); err != nil {
			logger.Error("Unmount failed: %v (try fusermount -u %s)", err, cfg.Mount.Mountpoint)
		}
	}()

	// The process must outlive the mount either way; Foreground only
	// selects which goroutine runs the serve loop.
	done := fusefs.Serve(server, cfg.Mount.Foreground)
	<-done
	logger.Info("Unmounted %s", cfg.Mount.Mountpoint)
	return 0
}

func setupLogOutput(output string) error {
	switch output {
	case "", "stdout":
		return nil
	case "stderr":
		logger.SetOutput(os.Stderr)
		return nil
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log output %s: %w", output, err)
	}
	logger.SetOutput(f)
	return nil
}
