package post

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/openshift/bzpatch/pkg/api"
	"github.com/openshift/bzpatch/pkg/bzapi"
	"github.com/openshift/bzpatch/pkg/cmd/util"
	"github.com/openshift/bzpatch/pkg/config"
	"github.com/openshift/bzpatch/pkg/patch"
)

// postOptions holds values to drive the post command.
type postOptions struct {
	util.ClientOptions

	inFile      string
	reviewer    string
	confirm     bool
	bugID       int
	description string

	in       io.Reader
	out      io.Writer
	terminal func() io.ReadCloser
}

// NewPostCommand creates the post command.
func NewPostCommand(ctx context.Context) *cobra.Command {
	postOpts := postOptions{in: os.Stdin, out: os.Stdout, terminal: util.OpenTerminal}
	postOpts.Prompt = config.TerminalPrompt
	cmd := &cobra.Command{
		Use:   "post <bug-id> <description>",
		Short: "Attach a patch read from standard input to a bug",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			if err := postOpts.Complete(args); err != nil {
				klog.Exit(err)
			}
			if err := postOpts.Validate(); err != nil {
				klog.Exit(err)
			}
			if err := postOpts.Run(ctx); err != nil {
				klog.Exit(err)
			}
		},
	}

	postOpts.AddFlags(cmd.Flags())

	return cmd
}

func (r *postOptions) AddFlags(fs *pflag.FlagSet) {
	r.ClientOptions.AddFlags(fs)
	fs.StringVarP(&r.inFile, "file", "f", "", "Read the patch from a file instead of standard input")
	fs.StringVar(&r.reviewer, "review", "", "Request review from this user")
	fs.BoolVar(&r.confirm, "confirm", false, "Ask before uploading")
}

func (r *postOptions) Complete(args []string) error {
	var err error
	if r.bugID, err = util.ParseBugID(args[0]); err != nil {
		return err
	}
	r.description = args[1]
	return r.ClientOptions.Complete()
}

func (r *postOptions) Validate() error {
	if len(r.description) == 0 {
		return fmt.Errorf("patch description required")
	}
	if len(r.Config.Username) == 0 {
		return fmt.Errorf("username must be set in the config file to post patches")
	}
	return nil
}

func (r *postOptions) readPatch() (string, error) {
	if len(r.inFile) > 0 {
		content, err := ioutil.ReadFile(r.inFile)
		return string(content), err
	}
	content, err := ioutil.ReadAll(r.in)
	return string(content), err
}

func (r *postOptions) Run(ctx context.Context) error {
	content, err := r.readPatch()
	if err != nil {
		return err
	}

	bzAPI, err := r.NewAPI()
	if err != nil {
		return err
	}
	bug, err := bzapi.FetchBug(ctx, bzAPI, r.bugID)
	if err != nil {
		return err
	}
	author, err := bzAPI.CurrentUser()
	if err != nil {
		return err
	}

	if r.confirm {
		fmt.Fprintf(r.out, "Attach %q to %s? (y/n) ", r.description, bug)
		tty := r.terminal()
		defer tty.Close()
		if !util.AskForConfirmation(tty, r.out) {
			return nil
		}
	}

	if _, err := patch.Post(ctx, bzAPI, author, bug, content, r.description, r.reviewer); err != nil {
		return err
	}
	klog.V(2).Infof("Posted patch %q to bug %d", r.description, bug.ID)
	fmt.Fprintf(r.out, "Attached patch to %s\n", api.BugURL(r.Config.Server, bug.ID))
	return nil
}
