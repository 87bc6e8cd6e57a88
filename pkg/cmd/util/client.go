package util

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/openshift/bzpatch/pkg/bzapi"
	"github.com/openshift/bzpatch/pkg/config"
)

// ClientOptions are the flags every command talking to Bugzilla shares.
type ClientOptions struct {
	ConfigFile string
	NoCache    bool

	Config *config.Config
	// Prompt asks for the password when the config has a username only.
	Prompt config.PasswordPrompt
}

func (o *ClientOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigFile, "config", os.Getenv("BUGZILLA_CONFIG"), "Path to a config file (BUGZILLA_CONFIG env variable)")
	fs.BoolVar(&o.NoCache, "no-cache", false, "Do not use the response cache even if cache_dir is configured")
}

func (o *ClientOptions) Complete() error {
	var err error
	o.Config, err = config.LoadConfig(o.ConfigFile, o.Prompt)
	if err != nil {
		return err
	}
	if len(o.Config.APIKey) == 0 {
		o.Config.APIKey = os.Getenv("BUGZILLA_APIKEY")
	}
	if len(o.Config.GithubToken) == 0 {
		o.Config.GithubToken = os.Getenv("GITHUB_TOKEN")
	}
	if o.NoCache {
		o.Config.CacheDir = ""
	}
	return nil
}

func (o *ClientOptions) NewAPI() (*bzapi.API, error) {
	return bzapi.NewForConfig(o.Config)
}

// ParseBugID validates a bug number given on the command line.
func ParseBugID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("not a valid bug id: %s", s)
	}
	return id, nil
}

// OpenTerminal returns the controlling terminal, or stdin when there is none.
func OpenTerminal() io.ReadCloser {
	tty, err := os.Open("/dev/tty")
	if err != nil {
		return io.NopCloser(os.Stdin)
	}
	return tty
}
