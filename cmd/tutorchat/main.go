package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/studyloop/tutorchat/controller"
	"github.com/studyloop/tutorchat/core/protocol"
	"github.com/studyloop/tutorchat/history"
	"github.com/studyloop/tutorchat/observability"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to chat config JSON file (required)")
		userKey    = flag.String("user", "", "User key for the remote tutoring service (overrides config)")
		baseURL    = flag.String("url", "", "Base URL of the remote tutoring service (overrides config)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	if *configFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: tutorchat -config <file>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := controller.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *userKey != "" {
		cfg.UserKey = *userKey
	}
	if *baseURL != "" {
		cfg.Service.BaseURL = *baseURL
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	observability.RegisterObserver("slog", observability.NewSlogObserver(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	chat, err := controller.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create chat controller: %v", err)
	}
	defer chat.Close()

	for _, msg := range chat.Messages() {
		printMessage(msg)
	}

	repl(ctx, chat)
}

func repl(ctx context.Context, chat *controller.Controller) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := command(ctx, chat, line); quit {
				return
			}
			continue
		}

		reply, err := chat.Send(ctx, line, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "send failed: %v\n", err)
			continue
		}
		printMessage(reply)
	}
}

// command dispatches a slash command and reports whether the REPL
// should exit.
func command(ctx context.Context, chat *controller.Controller, line string) bool {
	name, arg, _ := strings.Cut(line, " ")

	switch name {
	case "/quit", "/exit":
		return true

	case "/reset":
		chat.Reset(ctx)
		for _, msg := range chat.Messages() {
			printMessage(msg)
		}

	case "/check":
		if arg == "" {
			fmt.Fprintln(os.Stderr, "usage: /check <answer>")
			return false
		}
		reply, err := chat.Check(ctx, arg, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "check failed: %v\n", err)
			return false
		}
		printMessage(reply)

	case "/history":
		records := chat.History().Records()
		if len(records) == 0 {
			fmt.Println("no saved conversations")
			return false
		}
		for i, rec := range records {
			fmt.Printf("  [%d] %s (%d messages, %s)\n",
				i+1, rec.Title, len(rec.Messages), rec.UpdatedAt.Format("2006-01-02 15:04"))
		}

	case "/resume":
		n, err := strconv.Atoi(arg)
		records := chat.History().Records()
		if err != nil || n < 1 || n > len(records) {
			fmt.Fprintln(os.Stderr, "usage: /resume <n>  (see /history)")
			return false
		}
		resume(ctx, chat, records[n-1])

	default:
		fmt.Fprintf(os.Stderr, "unknown command %s (try /history, /resume, /check, /reset, /quit)\n", name)
	}

	return false
}

// resume swaps the live screen for a saved conversation by seeding the
// controller's resume path.
func resume(ctx context.Context, chat *controller.Controller, rec history.Record) {
	chat.Resume(ctx, rec.SessionID, rec.Messages)
	for _, msg := range chat.Messages() {
		printMessage(msg)
	}
}

func printMessage(msg protocol.Message) {
	prefix := "tutor"
	if msg.Sender == protocol.SenderUser {
		prefix = "you"
	}
	if msg.ImageRef != "" {
		fmt.Printf("%s: [image %s] %s\n", prefix, msg.ImageRef, msg.Text)
		return
	}
	fmt.Printf("%s: %s\n", prefix, msg.Text)
}
