package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caeleel/friendbook/pkg/cli/config"
	"github.com/caeleel/friendbook/pkg/domain/interfaces"
	"github.com/caeleel/friendbook/pkg/domain/model"
	"github.com/caeleel/friendbook/pkg/service/person"
	"github.com/caeleel/friendbook/pkg/service/transcript"
	"github.com/caeleel/friendbook/pkg/utils/logging"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// cmdFriends inspects stored records without going through the assistant
func cmdFriends() *cli.Command {
	var user string
	var repoCfg config.Repository

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

	withStore := func(ctx context.Context, fn func(kv interfaces.KVStore) error) error {
		kv, err := repoCfg.Configure(ctx)
		if err != nil {
			return goerr.Wrap(err, "failed to initialize repository")
		}
		defer func() {
			if err := kv.Close(); err != nil {
				logging.Default().Error("failed to close repository", "error", err.Error())
			}
		}()
		return fn(kv)
	}

	return &cli.Command{
		Name:    "friends",
		Aliases: []string{"f"},
		Usage:   "Inspect stored friends and the chat transcript",
		Flags:   flags,
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List friend names with their person IDs",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(ctx, func(kv interfaces.KVStore) error {
						return printFriends(ctx, os.Stdout, person.New(kv), model.UserID(user))
					})
				},
			},
			{
				Name:      "show",
				Usage:     "Show every fact and list of a person",
				ArgsUsage: "<name> <id>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 2 {
						return goerr.New("name and id are required", goerr.V("args", c.Args().Slice()))
					}
					return withStore(ctx, func(kv interfaces.KVStore) error {
						view, err := person.New(kv).GetPerson(ctx, model.UserID(user), c.Args().Get(0), model.PersonID(c.Args().Get(1)))
						if err != nil {
							return err
						}
						return printJSON(os.Stdout, view)
					})
				},
			},
			{
				Name:  "transcript",
				Usage: "Print the chat transcript",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(ctx, func(kv interfaces.KVStore) error {
						return printTranscript(ctx, os.Stdout, transcript.New(kv), model.UserID(user))
					})
				},
			},
		},
	}
}

func printFriends(ctx context.Context, w io.Writer, people *person.Repository, user model.UserID) error {
	index, err := people.ListFriends(ctx, user)
	if err != nil {
		return err
	}

	if len(index.Friends) == 0 {
		_, _ = fmt.Fprintln(w, "No friends recorded yet.")
		return nil
	}

	name := color.New(color.Bold)
	for _, friend := range index.Friends {
		_, _ = name.Fprint(w, friend)
		_, _ = fmt.Fprintf(w, "\t%s\n", index.FriendMap[friend])
	}
	return nil
}

func printTranscript(ctx context.Context, w io.Writer, log *transcript.Log, user model.UserID) error {
	messages, err := log.List(ctx, user)
	if err != nil {
		return err
	}

	role := color.New(color.FgCyan)
	for _, msg := range messages {
		at := time.UnixMilli(msg.Time).Format(time.DateTime)
		_, _ = fmt.Fprintf(w, "[%s] ", at)
		_, _ = role.Fprintf(w, "%s: ", msg.Role)
		_, _ = fmt.Fprintln(w, msg.Content)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to encode output")
	}
	return nil
}
