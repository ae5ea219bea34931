package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"lectio/internal/app"
	"lectio/internal/config"
	"lectio/internal/daterange"
	"lectio/internal/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	command := os.Args[1]
	args := os.Args[2:]
	ctx := context.Background()

	switch command {
	case "fetch":
		opts, err := parseBatchFlags("fetch", args, false)
		if err != nil {
			os.Exit(2)
		}
		err = application.Fetch(ctx, opts)
		exitOn(logger, err)
	case "meditate":
		opts, err := parseBatchFlags("meditate", args, true)
		if err != nil {
			os.Exit(2)
		}
		err = application.Meditate(ctx, opts)
		exitOn(logger, err)
	case "approve":
		flags := flag.NewFlagSet("approve", flag.ExitOnError)
		id := flags.Int64("id", 0, "Meditation ID to approve")
		by := flags.String("by", "", "Acting moderator identity")
		_ = flags.Parse(args)
		if *id == 0 || *by == "" {
			fmt.Fprintln(os.Stderr, "Usage: lectio approve -id=<meditation-id> -by=<moderator>")
			os.Exit(2)
		}
		exitOn(logger, application.Approve(ctx, *id, *by))
	case "daemon":
		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		exitOn(logger, application.RunDaemon(ctx))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func parseBatchFlags(name string, args []string, withForce bool) (app.BatchOptions, error) {
	flags := flag.NewFlagSet(name, flag.ExitOnError)
	date := flags.String("date", "", "Single date in YYYY-MM-DD format (default: today)")
	start := flags.String("start", "", "Start date in YYYY-MM-DD for a range")
	end := flags.String("end", "", "End date in YYYY-MM-DD for a range (inclusive)")
	days := flags.Int("days", 0, "Number of days from start date (e.g. 7 for a week)")
	language := flags.String("language", "", "Language code to store content under (default: es)")

	var force *bool
	if withForce {
		force = flags.Bool("force", false, "Generate a new draft even if one already exists")
	}

	if err := flags.Parse(args); err != nil {
		return app.BatchOptions{}, err
	}

	opts := app.BatchOptions{
		Range: daterange.Options{
			Date:  *date,
			Start: *start,
			End:   *end,
			Days:  *days,
		},
		Language: *language,
	}
	if force != nil {
		opts.Force = *force
	}
	return opts, nil
}

func exitOn(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("lectio - daily readings ingester and meditation drafter")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  lectio <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  fetch      Fetch daily readings for one date or a range")
	fmt.Println("  meditate   Generate draft gospel meditations for one date or a range")
	fmt.Println("  approve    Approve a draft meditation (-id, -by)")
	fmt.Println("  daemon     Run fetch+meditate for today, once a day")
	fmt.Println()
	fmt.Println("Range flags (fetch, meditate):")
	fmt.Println("  -date=<YYYY-MM-DD>   Single date (default: today)")
	fmt.Println("  -start=<YYYY-MM-DD>  Start of an inclusive range")
	fmt.Println("  -end=<YYYY-MM-DD>    End of an inclusive range")
	fmt.Println("  -days=<n>            Number of days from -start")
	fmt.Println("  -language=<code>     Language edition (default: es)")
	fmt.Println()
	fmt.Println("Meditate flags:")
	fmt.Println("  -force               Create another draft even if one exists")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  lectio fetch -date=2024-12-25")
	fmt.Println("  lectio fetch -start=2024-12-01 -days=7")
	fmt.Println("  lectio meditate -start=2024-12-01 -end=2024-12-07")
	fmt.Println("  lectio approve -id=42 -by=editor@example.org")
}
