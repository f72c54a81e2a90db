package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caeleel/friendbook/pkg/agent/tool"
	"github.com/caeleel/friendbook/pkg/cli/config"
	"github.com/caeleel/friendbook/pkg/domain/model"
	"github.com/caeleel/friendbook/pkg/usecase"
	"github.com/caeleel/friendbook/pkg/utils/logging"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const (
	chatCommandReset = "/reset"
	chatCommandExit  = "/exit"
)

// sessionChat is the part of the chat use case the REPL drives
type sessionChat interface {
	ChatInSession(ctx context.Context, user model.UserID, message string) (*model.ChatReply, error)
	ResetSession(ctx context.Context, user model.UserID) error
}

func cmdChat() *cli.Command {
	var user string
	var repoCfg config.Repository
	var engineCfg config.Engine

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID owning the friend records",
			Value:       "local",
			Sources:     cli.EnvVars("FRIENDBOOK_USER"),
			Destination: &user,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, engineCfg.Flags()...)

	return &cli.Command{
		Name:    "chat",
		Aliases: []string{"c"},
		Usage:   "Chat with the assistant in the terminal",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			kv, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := kv.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			engine, err := engineCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize reasoning engine")
			}

			uc := usecase.New(kv, engine, engineCfg.UseCaseOptions()...)
			return runChat(ctx, os.Stdin, os.Stdout, uc.Chat, model.UserID(user))
		},
	}
}

// runChat reads one message per line until EOF or /exit. Failed turns are
// reported and the loop goes on.
func runChat(ctx context.Context, in io.Reader, out io.Writer, chat sessionChat, user model.UserID) error {
	prompt := color.New(color.FgCyan, color.Bold)
	progress := color.New(color.FgHiBlack)
	failure := color.New(color.FgRed)

	ctx = tool.WithProgress(ctx, func(ctx context.Context, call tool.Call) {
		_, _ = progress.Fprintf(out, "  🔧 %s\n", tool.Describe(call))
	})

	scanner := bufio.NewScanner(in)
	for {
		_, _ = prompt.Fprint(out, "you> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case chatCommandExit:
			return nil
		case chatCommandReset:
			if err := chat.ResetSession(ctx, user); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(out, "Started a new conversation.")
			continue
		}

		reply, err := chat.ChatInSession(ctx, user, line)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			logging.From(ctx).Error("chat failed", "error", err)
			_, _ = failure.Fprintln(out, chatErrorText(err))
			continue
		}

		_, _ = prompt.Fprint(out, "friendbook> ")
		_, _ = fmt.Fprintln(out, reply.Content())
	}

	if err := scanner.Err(); err != nil {
		return goerr.Wrap(err, "failed to read input")
	}
	return nil
}

func chatErrorText(err error) string {
	if errors.Is(err, usecase.ErrRunTimeout) {
		return "The assistant took too long. Please try again."
	}
	if reason := usecase.RunFailureReason(err); reason != "" {
		return "The assistant failed: " + reason
	}
	return "An error occurred: " + err.Error()
}
