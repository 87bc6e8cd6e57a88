package show

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/lensesio/tableprinter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/openshift/bzpatch/pkg/api"
	"github.com/openshift/bzpatch/pkg/bzapi"
	"github.com/openshift/bzpatch/pkg/bzrest"
	"github.com/openshift/bzpatch/pkg/cmd/util"
	"github.com/openshift/bzpatch/pkg/config"
)

// showOptions holds values to drive the show command.
type showOptions struct {
	util.ClientOptions

	bugID  int
	output string

	// details is nil when no API key is configured.
	details func(id int) (*bzrest.Details, error)
	out     io.Writer
}

// NewShowCommand creates the show command.
func NewShowCommand(ctx context.Context) *cobra.Command {
	showOpts := showOptions{out: os.Stdout}
	showOpts.Prompt = config.TerminalPrompt
	cmd := &cobra.Command{
		Use:   "show <bug-id>",
		Short: "Print a bug and its attachments",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := showOpts.Complete(args); err != nil {
				klog.Exit(err)
			}
			if err := showOpts.Validate(); err != nil {
				klog.Exit(err)
			}
			if err := showOpts.Run(ctx); err != nil {
				klog.Exit(err)
			}
		},
	}

	showOpts.AddFlags(cmd.Flags())

	return cmd
}

func (r *showOptions) AddFlags(fs *pflag.FlagSet) {
	r.ClientOptions.AddFlags(fs)
	fs.StringVarP(&r.output, "output", "o", "table", "Output format (table or yaml)")
}

func (r *showOptions) Complete(args []string) error {
	var err error
	if r.bugID, err = util.ParseBugID(args[0]); err != nil {
		return err
	}
	if err := r.ClientOptions.Complete(); err != nil {
		return err
	}
	if r.details == nil && len(r.Config.APIKey) > 0 {
		client := bzrest.NewClient(r.Config.APIKey, r.Config.Server)
		r.details = func(id int) (*bzrest.Details, error) {
			return bzrest.Lookup(client, id)
		}
	}
	return nil
}

func (r *showOptions) Validate() error {
	switch r.output {
	case "table", "yaml":
		return nil
	default:
		return fmt.Errorf("unknown output format %q, expected table or yaml", r.output)
	}
}

type attachmentRow struct {
	ID          int    `header:"ID"`
	Description string `header:"Description"`
	State       string `header:"State"`
	Attacher    string `header:"Attacher"`
	Created     string `header:"Created"`
	Size        string `header:"Size"`
}

func attachmentState(a *bzapi.Attachment) string {
	switch {
	case a.IsObsolete:
		return color.RedString("obsolete")
	case a.IsPatch:
		return color.GreenString("patch")
	default:
		return a.ContentType
	}
}

func (r *showOptions) Run(ctx context.Context) error {
	bzAPI, err := r.NewAPI()
	if err != nil {
		return err
	}
	bug, err := bzapi.FetchBug(ctx, bzAPI, r.bugID)
	if err != nil {
		return err
	}

	var details *bzrest.Details
	if r.details != nil {
		if details, err = r.details(bug.ID); err != nil {
			klog.Warningf("Unable to get details for bug %d: %v", bug.ID, err)
		}
	}

	if r.output == "yaml" {
		out, err := api.Marshal(api.NewBugReport(r.Config.Server, bug, details))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(r.out, "%s", out)
		return err
	}

	fmt.Fprintf(r.out, "%s\n%s\n", bug, api.BugURL(r.Config.Server, bug.ID))
	if details != nil {
		fmt.Fprintf(r.out, "Severity: %s\nComponent: %s\nPM Score: %s\nFlags: %s\n",
			details.Severity, strings.Join(details.Component, "/"), details.PMScore, strings.Join(details.Flags, ","))
	}
	if len(bug.Attachments) == 0 {
		fmt.Fprintln(r.out, "No attachments.")
		return nil
	}
	fmt.Fprintln(r.out)

	rows := []attachmentRow{}
	for _, a := range bug.Attachments {
		size := "-"
		if a.Size > 0 {
			size = humanize.Bytes(uint64(a.Size))
		}
		rows = append(rows, attachmentRow{
			ID:          a.ID,
			Description: a.Description,
			State:       attachmentState(a),
			Attacher:    a.Attacher.Name,
			Created:     humanize.Time(a.CreationTime),
			Size:        size,
		})
	}
	tableprinter.New(r.out).Print(rows)
	return nil
}
