// Command loadtest drives one synthetic-traffic suite against a running cat
// service and prints a line per scenario.
//
//	loadtest -suite=alerts -base=http://localhost:3000 -scale=1 -workers=10
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-cat-service/internal/config"
	"github.com/tbourn/go-cat-service/internal/loadgen"
	"github.com/tbourn/go-cat-service/internal/sysutil"
)

// defaultBaseURL is used when neither -base nor LOADTEST_BASE_URL is set.
const defaultBaseURL = "http://localhost:3000"

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	log := sysutil.ConfigureLogger(os.Stderr, cfg.LogPretty, "cat-loadtest")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], cfg.LoadTest, os.Stdout, log); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal().Err(err).Msg("load test failed")
	}
}

// run parses args with defaults from lt, runs the chosen suite, and writes
// results to out. An interrupted run still prints what it collected.
func run(ctx context.Context, args []string, lt config.LoadTestConfig, out io.Writer, log zerolog.Logger) error {
	fs := flag.NewFlagSet("loadtest", flag.ContinueOnError)
	fs.SetOutput(out)
	suite := fs.String("suite", loadgen.SuiteAlerts, "suite to run: "+strings.Join(loadgen.SuiteNames(), ", "))
	base := fs.String("base", lt.BaseURL, "service base URL")
	scale := fs.Float64("scale", lt.Scale, "duration multiplier")
	workers := fs.Int("workers", 10, "workers for the mixed suite")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *scale <= 0 {
		return fmt.Errorf("-scale must be > 0")
	}
	if *workers < 1 {
		return fmt.Errorf("-workers must be >= 1")
	}

	s, err := loadgen.SuiteByName(*suite, *workers)
	if err != nil {
		return err
	}

	r := loadgen.NewRunner(sysutil.FirstNonEmpty(*base, defaultBaseURL), *scale, log)
	results, err := r.RunSuite(ctx, s)
	for _, res := range results {
		fmt.Fprintln(out, res.String())
	}
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		fmt.Fprintln(out, "interrupted")
	}
	return nil
}
