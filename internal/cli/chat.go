package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/soyeahso/telcoassist/internal/logging"
)

func newChatCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := paths.EnsureDirs(); err != nil {
				return err
			}

			// Keep the terminal clean: REPL logs go to the log file only.
			logger := logging.New(logging.Options{
				Level: cfg.Logging.Level,
				File:  cfg.Logging.File,
				JSON:  true,
			})

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			b, cleanup, err := buildBot(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			fmt.Printf("session %s — type your message, /reset to start over, /quit to exit\n", sessionID)

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				switch {
				case line == "":
					continue
				case line == "/quit", line == "/exit":
					return nil
				case line == "/reset":
					if err := b.Reset(ctx, sessionID); err != nil {
						fmt.Println("reset failed:", err)
						continue
					}
					fmt.Println("session cleared")
					continue
				}

				result, err := b.Chat(ctx, sessionID, line)
				if err != nil {
					fmt.Println("error:", err)
					continue
				}
				fmt.Println(result.Reply)
			}
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "resume an existing session id")

	return cmd
}
