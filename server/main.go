package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	err := godotenv.Load()
	if os.IsNotExist(err) {
		log.Printf("no .env file found, skipping")
	} else if err != nil {
		log.Fatalf("failed loading .env file: %s", err)
	}

	app := cli.NewApp()
	app.Name = "lyrics-finder"
	app.Usage = "Song catalog with YouTube links and automatic lyrics lookup."
	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "port to run server on",
			EnvVars: []string{"LYRICS_PORT"},
		},
		&cli.StringFlag{
			Name:     "data-directory",
			Usage:    "data directory where the song database is stored",
			EnvVars:  []string{"LYRICS_DATA_DIR"},
			Required: true,
		},
		&cli.StringFlag{
			Name:    "base-url",
			Value:   "http://localhost:8080",
			Usage:   "public URL of the server, used in notifications",
			EnvVars: []string{"LYRICS_BASE_URL"},
		},
		&cli.StringFlag{
			Name:     "username",
			Usage:    "username for the web interface",
			EnvVars:  []string{"LYRICS_USERNAME"},
			Required: true,
		},
		&cli.StringFlag{
			Name:     "password",
			Usage:    "bcrypt hash of the password for the web interface",
			EnvVars:  []string{"LYRICS_PASSWORD"},
			Required: true,
		},
		&cli.StringFlag{
			Name:     "jwt-secret",
			Usage:    "secret used to sign session cookies",
			EnvVars:  []string{"LYRICS_JWT_SECRET"},
			Required: true,
		},
		&cli.StringFlag{
			Name:    "auth-token",
			Usage:   "token accepted by the JSON endpoints as 'Authorization: Token <token>'",
			EnvVars: []string{"LYRICS_AUTH_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "telegram-token",
			Usage:   "telegram bot token; notifications are disabled when empty",
			EnvVars: []string{"LYRICS_TG_TOKEN"},
		},
		&cli.Int64SliceFlag{
			Name:    "telegram-chat-id",
			Usage:   "telegram bot chat id or comma-separated ids",
			EnvVars: []string{"LYRICS_TG_CHAT_ID"},
		},
		&cli.DurationFlag{
			Name:    "fetch-timeout",
			Value:   15 * time.Second,
			Usage:   "timeout for each outbound request to YouTube and the lyrics sites",
			EnvVars: []string{"LYRICS_FETCH_TIMEOUT"},
		},
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "enable debug logging",
			EnvVars: []string{"LYRICS_DEBUG"},
		},
	}
	app.Action = func(ctx *cli.Context) error {
		if ctx.Bool("debug") {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}

		handler, err := newServer(&config{
			DataDir:         ctx.String("data-directory"),
			BaseURL:         ctx.String("base-url"),
			Username:        ctx.String("username"),
			Password:        ctx.String("password"),
			JWTSecret:       ctx.String("jwt-secret"),
			APIToken:        ctx.String("auth-token"),
			TelegramToken:   ctx.String("telegram-token"),
			TelegramChatIDs: ctx.Int64Slice("telegram-chat-id"),
			FetchTimeout:    ctx.Duration("fetch-timeout"),
		})
		if err != nil {
			return err
		}
		defer handler.Close()

		// Start HTTP handler.
		quit := make(chan os.Signal, 2)
		var wg sync.WaitGroup
		wg.Add(1)

		server := &http.Server{Addr: ":" + strconv.Itoa(ctx.Int("port")), Handler: handler}

		go func() {
			defer wg.Done()

			slog.Info("serving", "address", server.Addr)

			err := server.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintf(os.Stderr, "failed to start server: %s\n", err)
				quit <- os.Interrupt
			}
		}()

		signal.Notify(
			quit,
			syscall.SIGINT,
			syscall.SIGTERM,
			syscall.SIGHUP,
		)
		<-quit

		slog.Info("Server shutting down...")

		go server.Close()

		wg.Wait()
		return nil
	}

	err = app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
