package main

import (
	"context"
	"io"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/career-league/internal/app"
	"github.com/spf13/cobra"
)

type servicesFactory func(ctx context.Context) (*app.Services, error)

type cli struct {
	build servicesFactory
	out   io.Writer
}

func newRootCmd(build servicesFactory, out io.Writer) *cobra.Command {
	c := &cli{build: build, out: out}

	root := &cobra.Command{
		Use:           "economyctl",
		Short:         "Operator tool for the career league economy",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.AddCommand(c.payrollCmd(), c.auctionsCmd(), c.walletCmd())
	return root
}

// withServices builds the engine for one command and closes it afterwards.
func (c *cli) withServices(cmd *cobra.Command, fn func(ctx context.Context, svc *app.Services) (any, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, err := c.build(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	result, err := fn(ctx, svc)
	if result != nil {
		if printErr := c.print(result); printErr != nil && err == nil {
			err = printErr
		}
	}
	return err
}

func (c *cli) print(v any) error {
	body, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = c.out.Write(append(body, '\n'))
	return err
}
