package get

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/openshift/bzpatch/pkg/bzapi"
	"github.com/openshift/bzpatch/pkg/cmd/util"
	"github.com/openshift/bzpatch/pkg/config"
	"github.com/openshift/bzpatch/pkg/patch"
)

// getOptions holds values to drive the get command.
type getOptions struct {
	util.ClientOptions

	outFile string
	bugID   int
	out     io.Writer
}

// NewGetCommand creates the get command.
func NewGetCommand(ctx context.Context) *cobra.Command {
	getOpts := getOptions{out: os.Stdout}
	getOpts.Prompt = config.TerminalPrompt
	cmd := &cobra.Command{
		Use:   "get <bug-id>",
		Short: "Print the most recent patch attached to a bug, with a changeset header",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := getOpts.Complete(args); err != nil {
				klog.Exit(err)
			}
			if err := getOpts.Validate(); err != nil {
				klog.Exit(err)
			}
			if err := getOpts.Run(ctx); err != nil {
				klog.Exit(err)
			}
		},
	}

	getOpts.AddFlags(cmd.Flags())

	return cmd
}

func (r *getOptions) AddFlags(fs *pflag.FlagSet) {
	r.ClientOptions.AddFlags(fs)
	fs.StringVarP(&r.outFile, "output", "o", "", "Set output file instead of standard output")
}

func (r *getOptions) Complete(args []string) error {
	var err error
	if r.bugID, err = util.ParseBugID(args[0]); err != nil {
		return err
	}
	return r.ClientOptions.Complete()
}

func (r *getOptions) Validate() error {
	return nil
}

func (r *getOptions) Run(ctx context.Context) error {
	api, err := r.NewAPI()
	if err != nil {
		return err
	}
	bug, err := bzapi.FetchBug(ctx, api, r.bugID)
	if err != nil {
		return err
	}
	p, err := patch.Get(ctx, bug)
	if err != nil {
		return err
	}

	if len(r.outFile) > 0 {
		return writePatchFile(r.outFile, p)
	}
	_, err = fmt.Fprint(r.out, p)
	return err
}

// writePatchFile reports close errors so a failed flush is not lost.
func writePatchFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprint(f, content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
