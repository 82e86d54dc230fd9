// um runs a Universal Machine program file against standard input and output.
//
//	um [--log-level warn] [--log-modules um_mod,seg_mod] [--segments 1000] <program.um>
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/colorfulnotion/um/common"
	log "github.com/colorfulnotion/um/log"
	"github.com/colorfulnotion/um/program"
	"github.com/colorfulnotion/um/segment"
	"github.com/colorfulnotion/um/um"
	"github.com/colorfulnotion/um/umerrors"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitInterrupted = 130
)

// CommandConfig collects the command line of one invocation.
type CommandConfig struct {
	LogLevel        string
	LogModules      string
	LogJson         bool
	SegmentCapacity int
	Disasm          bool
	Version         bool
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// execute runs the command line and returns the process exit status.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdin, stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, umerrors.ErrUUsage):
		fmt.Fprintf(stderr, "%v\n\n%s", err, cmd.UsageString())
		return exitFailure
	case errors.Is(err, umerrors.ErrEInterrupted):
		log.Warn(log.EngineMonitoring, "interrupted", "err", err)
		return exitInterrupted
	default:
		log.Error(log.EngineMonitoring, "um failed", "code", umerrors.GetErrorCodeWithName(err), "err", err)
		fmt.Fprintf(stderr, "um: %v\n", err)
		return exitFailure
	}
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	config := &CommandConfig{}
	rootCmd := &cobra.Command{
		Use:           "um [flags] <program.um>",
		Short:         "Run a Universal Machine program",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if config.Version {
				return nil
			}
			if len(args) != 1 {
				return fmt.Errorf("got %d arguments: %w", len(args), umerrors.ErrUUsage)
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := log.Setup(stderr, config.LogLevel, config.LogJson); err != nil {
				return fmt.Errorf("%v: %w", err, umerrors.ErrUUsage)
			}
			log.EnableModules(config.LogModules)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.Version {
				fmt.Fprintf(stdout, "um %s (commit %s, built %s)\n", Version, common.GetCommitHash(), BuildTime)
				return nil
			}
			if config.Disasm {
				return disassemble(args[0], stdout)
			}
			return runProgram(args[0], config, stdin, stdout)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%v: %w", err, umerrors.ErrUUsage)
	})

	flags := rootCmd.Flags()
	flags.StringVar(&config.LogLevel, "log-level", "warn", "Log level: crit, error, warn, info, debug, trace.")
	flags.StringVar(&config.LogModules, "log-modules", "", "Comma separated modules whose debug/trace output is shown (um_mod, seg_mod, ld_mod, all).")
	flags.BoolVar(&config.LogJson, "log-json", false, "Logs output in JSON format.")
	flags.IntVar(&config.SegmentCapacity, "segments", segment.DefaultCapacity, "Initial number of slots in the segment table.")
	flags.BoolVar(&config.Disasm, "disasm", false, "List the program's instructions instead of running it.")
	flags.BoolVar(&config.Version, "version", false, "Print the version and exit.")
	return rootCmd
}

func disassemble(path string, stdout io.Writer) error {
	p, err := program.Load(path)
	if err != nil {
		return err
	}
	for _, line := range program.Disassemble(p.Words) {
		if _, err := fmt.Fprintln(stdout, line); err != nil {
			return fmt.Errorf("%v: %w", err, umerrors.ErrIOutput)
		}
	}
	return nil
}

func runProgram(path string, config *CommandConfig, stdin io.Reader, stdout io.Writer) error {
	p, err := program.Load(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stopCh)
	go func() {
		select {
		case <-stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	cfg := um.DefaultConfig()
	cfg.Input = stdin
	cfg.Output = stdout
	cfg.SegmentCapacity = config.SegmentCapacity

	vm := um.NewVM(p, cfg)
	runErr := vm.Run(ctx)
	if runErr == nil {
		log.New("program", path, "hash", p.Hash.String_short()).Info(log.EngineMonitoring, "halted", "steps", vm.Steps(), "segments", vm.Segments().Live())
	}
	if err := vm.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
