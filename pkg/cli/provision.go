package cli

import (
	"context"
	"fmt"

	"github.com/caeleel/friendbook/pkg/cli/config"
	"github.com/caeleel/friendbook/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdProvision() *cli.Command {
	var engineCfg config.Engine

	return &cli.Command{
		Name:  "provision",
		Usage: "Create the OpenAI assistant with the friend tools and print its ID",
		Flags: engineCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			profile, err := engineCfg.Profile()
			if err != nil {
				return err
			}

			id, err := engineCfg.Provision(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to provision assistant")
			}

			logging.Default().Info("Assistant provisioned", "id", id, "name", profile.Name, "model", profile.Model)
			_, _ = fmt.Fprintln(c.Root().Writer, id)
			return nil
		},
	}
}
