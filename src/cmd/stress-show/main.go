package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"pop-translate/src/singleinstance"
)

type stressOptions struct {
	n        int
	port     int
	deadline time.Duration
}

type summary struct {
	launched   int
	delegated  int32
	noResident int32
	failed     int32
	elapsed    time.Duration
}

func (s summary) String() string {
	return fmt.Sprintf("launched=%d ok=%d none=%d err=%d elapsed=%s",
		s.launched, s.delegated, s.noResident, s.failed, s.elapsed)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := &stressOptions{}
	cmd := newRootCmd(opts, os.Stdout)
	return cmd.Execute()
}

func newRootCmd(opts *stressOptions, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stress-show",
		Short:         "Stress test SHOW delegation to the resident",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.n <= 0 {
				return fmt.Errorf("--n must be positive, got %d", opts.n)
			}
			fmt.Fprintln(out, runWithOptions(*opts))
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.n, "n", 50, "number of clients to launch")
	cmd.Flags().IntVar(&opts.port, "port", singleinstance.DefaultPort, "resident TCP port")
	cmd.Flags().DurationVar(&opts.deadline, "deadline", 5*time.Second, "per-client timeout")

	return cmd
}

func runWithOptions(opts stressOptions) summary {
	var wg sync.WaitGroup
	s := summary{launched: opts.n}

	start := time.Now()
	for i := 0; i < opts.n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), opts.deadline)
			defer cancel()
			delegated, err := singleinstance.NewClient(opts.port).Show(ctx)
			switch {
			case err != nil:
				atomic.AddInt32(&s.failed, 1)
			case delegated:
				atomic.AddInt32(&s.delegated, 1)
			default:
				atomic.AddInt32(&s.noResident, 1)
			}
		}()
	}
	wg.Wait()
	s.elapsed = time.Since(start)
	return s
}
