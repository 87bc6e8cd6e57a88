package pullreq

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/openshift/bzpatch/pkg/api"
	"github.com/openshift/bzpatch/pkg/bzapi"
	"github.com/openshift/bzpatch/pkg/cmd/util"
	"github.com/openshift/bzpatch/pkg/config"
	"github.com/openshift/bzpatch/pkg/github"
	"github.com/openshift/bzpatch/pkg/patch"
)

// pullRequestLookup is satisfied by *github.PullRequestLookup.
type pullRequestLookup interface {
	Get(ctx context.Context, pullRequestURL string) (*github.PullRequest, error)
}

// pullreqOptions holds values to drive the pullreq command.
type pullreqOptions struct {
	util.ClientOptions

	bugID          int
	pullRequestURL string
	reviewer       string
	description    string
	confirm        bool

	lookup   pullRequestLookup
	out      io.Writer
	terminal func() io.ReadCloser
}

// NewPullreqCommand creates the pullreq command.
func NewPullreqCommand(ctx context.Context) *cobra.Command {
	pullreqOpts := pullreqOptions{out: os.Stdout, terminal: util.OpenTerminal}
	pullreqOpts.Prompt = config.TerminalPrompt
	cmd := &cobra.Command{
		Use:   "pullreq <bug-id> <url> [reviewer]",
		Short: "Attach a pointer to a GitHub pull request to a bug, optionally asking for review",
		Args:  cobra.RangeArgs(2, 3),
		Run: func(cmd *cobra.Command, args []string) {
			if err := pullreqOpts.Complete(ctx, args); err != nil {
				klog.Exit(err)
			}
			if err := pullreqOpts.Validate(); err != nil {
				klog.Exit(err)
			}
			if err := pullreqOpts.Run(ctx); err != nil {
				klog.Exit(err)
			}
		},
	}

	pullreqOpts.AddFlags(cmd.Flags())

	return cmd
}

func (r *pullreqOptions) AddFlags(fs *pflag.FlagSet) {
	r.ClientOptions.AddFlags(fs)
	fs.StringVar(&r.description, "description", "", "Attachment description (defaults to the pull request title)")
	fs.BoolVar(&r.confirm, "confirm", false, "Ask before uploading")
}

func (r *pullreqOptions) Complete(ctx context.Context, args []string) error {
	var err error
	if r.bugID, err = util.ParseBugID(args[0]); err != nil {
		return err
	}
	r.pullRequestURL = args[1]
	if len(args) > 2 {
		r.reviewer = args[2]
	}
	if err := r.ClientOptions.Complete(); err != nil {
		return err
	}
	if r.lookup == nil {
		r.lookup = github.NewPullRequestLookup(ctx, r.Config.GithubToken)
	}
	return nil
}

func (r *pullreqOptions) Validate() error {
	if _, _, _, err := github.ParsePullRequestURL(r.pullRequestURL); err != nil {
		return err
	}
	return nil
}

func (r *pullreqOptions) resolveDescription(ctx context.Context) string {
	if len(r.description) > 0 {
		return r.description
	}
	pr, err := r.lookup.Get(ctx, r.pullRequestURL)
	if err != nil {
		klog.Warningf("Unable to look up pull request %s: %v", r.pullRequestURL, err)
		return fmt.Sprintf("Pointer to pull request %s", r.pullRequestURL)
	}
	return pr.Description()
}

func (r *pullreqOptions) Run(ctx context.Context) error {
	bzAPI, err := r.NewAPI()
	if err != nil {
		return err
	}
	bug, err := bzapi.FetchBug(ctx, bzAPI, r.bugID)
	if err != nil {
		return err
	}
	description := r.resolveDescription(ctx)

	if r.confirm {
		fmt.Fprintf(r.out, "Attach %q to %s? (y/n) ", description, bug)
		tty := r.terminal()
		defer tty.Close()
		if !util.AskForConfirmation(tty, r.out) {
			return nil
		}
	}

	if err := patch.PostPullRequest(ctx, bzAPI, bug, r.pullRequestURL, description, r.reviewer); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Attached %s to %s\n", r.pullRequestURL, api.BugURL(r.Config.Server, bug.ID))
	return nil
}
