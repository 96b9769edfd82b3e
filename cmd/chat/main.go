package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"

	"github.com/nurumindfulness/nuru/backend/internal/client"
	"github.com/nurumindfulness/nuru/backend/internal/model/chat"
	"github.com/nurumindfulness/nuru/backend/internal/model/persona"
)

// Config is the terminal client configuration.
type Config struct {
	ServerURL string        `env:"CHAT_SERVER_URL,default=http://localhost:3001"`
	Timeout   time.Duration `env:"CHAT_TIMEOUT"`
	Colours   bool          `env:"CHAT_COLOURS,default=true"`
}

func loadConfig(es env.EnvSet) (Config, error) {
	var cfg Config
	if err := env.Unmarshal(es, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	cfg.ServerURL = strings.TrimSpace(cfg.ServerURL)
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	es, err := env.EnvironToEnvSet(os.Environ())
	if err != nil {
		fmt.Fprintln(os.Stderr, "read environment:", err)
		os.Exit(1)
	}
	cfg, err := loadConfig(es)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	color.Enable = cfg.Colours

	c := client.New(cfg.ServerURL, cfg.Timeout)

	greeting := persona.Nuru().OpeningLine
	title := persona.Nuru().Title
	if g, err := c.Persona(ctx); err == nil {
		if g.Greeting != "" {
			greeting = g.Greeting
		}
		if g.Title != "" {
			title = g.Title
		}
	}

	conv := client.NewConversation(c, greeting)
	if err := run(ctx, os.Stdin, os.Stdout, title, conv); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	headerStyle = color.New(color.FgWhite, color.BgBlue, color.OpBold)
	userStyle   = color.New(color.FgBlue, color.OpBold)
	botStyle    = color.New(color.FgGreen)
	safetyStyle = color.New(color.FgRed, color.OpBold)
	hintStyle   = color.New(color.FgGray)
)

// run reads one line per message until EOF, "/quit" or cancellation.
// Cancellation wins even while a line is still being typed.
func run(ctx context.Context, in io.Reader, out io.Writer, title string, conv *client.Conversation) error {
	fmt.Fprintln(out, headerStyle.Render(" "+title+" "))
	fmt.Fprintln(out, hintStyle.Render("Type a message and press Enter. /quit to leave."))
	for _, m := range conv.Messages() {
		printMessage(out, m)
	}

	done := make(chan struct{})
	defer close(done)
	lines, readErr := readLines(in, done)

	for {
		fmt.Fprint(out, userStyle.Render("you> "))

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return <-readErr
			}
			line = l
		}

		switch strings.TrimSpace(line) {
		case "":
			continue
		case "/quit":
			return nil
		}

		fmt.Fprintln(out, hintStyle.Render("Nuru is thinking…"))
		bot, err := conv.Submit(ctx, line)
		switch {
		case errors.Is(err, client.ErrEmptyInput):
			continue
		case err != nil:
			return err
		}
		if ctx.Err() != nil {
			fmt.Fprintln(out)
			return ctx.Err()
		}
		printMessage(out, bot)
	}
}

// readLines scans in on its own goroutine so a blocked read never holds up
// shutdown. lines is closed at EOF, after the scan error is sent on errc.
func readLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		errc <- scanner.Err()
		close(lines)
	}()
	return lines, errc
}

func printMessage(out io.Writer, m chat.Message) {
	switch {
	case m.Sender == chat.SenderUser:
		return
	case m.Safety:
		fmt.Fprintln(out, safetyStyle.Render("nuru> "+m.Text))
	default:
		fmt.Fprintln(out, botStyle.Render("nuru> ")+m.Text)
	}
}
