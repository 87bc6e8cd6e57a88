package export

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/openshift/bzpatch/pkg/bzapi"
	"github.com/openshift/bzpatch/pkg/cmd/util"
	"github.com/openshift/bzpatch/pkg/config"
	"github.com/openshift/bzpatch/pkg/patch"
)

// exportOptions holds values to drive the export command.
type exportOptions struct {
	util.ClientOptions

	bugID     int
	targetDir string
	quiet     bool

	progress io.Writer
}

// NewExportCommand creates the export command.
func NewExportCommand(ctx context.Context) *cobra.Command {
	exportOpts := exportOptions{progress: os.Stderr}
	exportOpts.Prompt = config.TerminalPrompt
	cmd := &cobra.Command{
		Use:   "export <bug-id> <dir>",
		Short: "Write every current patch of a bug to a directory",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			if err := exportOpts.Complete(args); err != nil {
				klog.Exit(err)
			}
			if err := exportOpts.Validate(); err != nil {
				klog.Exit(err)
			}
			if err := exportOpts.Run(ctx); err != nil {
				klog.Exit(err)
			}
		},
	}

	exportOpts.AddFlags(cmd.Flags())

	return cmd
}

func (r *exportOptions) AddFlags(fs *pflag.FlagSet) {
	r.ClientOptions.AddFlags(fs)
	fs.BoolVarP(&r.quiet, "quiet", "q", false, "Do not show progress")
}

func (r *exportOptions) Complete(args []string) error {
	var err error
	if r.bugID, err = util.ParseBugID(args[0]); err != nil {
		return err
	}
	r.targetDir = args[1]
	return r.ClientOptions.Complete()
}

func (r *exportOptions) Validate() error {
	if info, err := os.Stat(r.targetDir); err == nil && !info.IsDir() {
		return fmt.Errorf("%s is not a directory", r.targetDir)
	}
	return nil
}

// FileName is where an attachment of a bug is written.
func FileName(bugID, attachmentID int) string {
	return fmt.Sprintf("bug-%d-attachment-%d.diff", bugID, attachmentID)
}

func (r *exportOptions) Run(ctx context.Context) error {
	bzAPI, err := r.NewAPI()
	if err != nil {
		return err
	}
	bug, err := bzapi.FetchBug(ctx, bzAPI, r.bugID)
	if err != nil {
		return err
	}
	live := patch.Live(bug)
	if len(live) == 0 {
		return fmt.Errorf("bug %d: %w", bug.ID, patch.ErrNoPatch)
	}
	if err := os.MkdirAll(r.targetDir, 0755); err != nil {
		return err
	}

	bar := pb.New(len(live)).SetWriter(r.progress)
	if !r.quiet {
		bar.Start()
		defer bar.Finish()
	}

	for _, a := range live {
		content, err := patch.FromAttachment(ctx, a)
		if err != nil {
			return fmt.Errorf("attachment %d: %w", a.ID, err)
		}
		target := filepath.Join(r.targetDir, FileName(bug.ID, a.ID))
		if err := ioutil.WriteFile(target, []byte(content), 0644); err != nil {
			return err
		}
		klog.V(2).Infof("Wrote %s", target)
		bar.Increment()
	}
	return nil
}
