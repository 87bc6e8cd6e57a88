package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	utilflag "k8s.io/component-base/cli/flag"
	"k8s.io/component-base/logs"

	"github.com/openshift/bzpatch/pkg/cmd/export"
	"github.com/openshift/bzpatch/pkg/cmd/get"
	"github.com/openshift/bzpatch/pkg/cmd/post"
	"github.com/openshift/bzpatch/pkg/cmd/pullreq"
	"github.com/openshift/bzpatch/pkg/cmd/show"
)

func main() {
	pflag.CommandLine.SetNormalizeFunc(utilflag.WordSepNormalizeFunc)
	pflag.CommandLine.AddGoFlagSet(goflag.CommandLine)

	logs.InitLogs()
	defer logs.FlushLogs()

	command := NewBzPatchCommand(context.Background())
	if err := command.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func NewBzPatchCommand(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bzpatch",
		Short: "Fetch and post patches on Bugzilla bugs",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
			os.Exit(1)
		},
	}

	cmd.AddCommand(get.NewGetCommand(ctx))
	cmd.AddCommand(post.NewPostCommand(ctx))
	cmd.AddCommand(pullreq.NewPullreqCommand(ctx))
	cmd.AddCommand(show.NewShowCommand(ctx))
	cmd.AddCommand(export.NewExportCommand(ctx))

	return cmd
}
