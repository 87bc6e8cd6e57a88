package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v2"
	"k8s.io/klog/v2"
)

const (
	DefaultAPIServer = "https://api-dev.bugzilla.mozilla.org/latest"
	DefaultServer    = "https://bugzilla.mozilla.org"
)

// ErrAborted is returned when the password prompt yields nothing.
var ErrAborted = errors.New("aborted")

// PasswordPrompt asks the user for a password.
type PasswordPrompt func(prompt string) (string, error)

// Defaults returns a fresh copy of the built-in configuration.
func Defaults() Config {
	return Config{
		APIServer: DefaultAPIServer,
		Server:    DefaultServer,
	}
}

// DefaultPaths lists the config files tried when none is given, in order.
func DefaultPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".bugzilla-config.json"),
		filepath.Join(home, ".bugzilla-config.yaml"),
	}
}

// LoadConfig merges the file at location over Defaults. An empty location means the first existing
// file from DefaultPaths; if none exists the defaults are returned as is. When prompt is not nil and a
// username is configured without a password, prompt is asked for it.
func LoadConfig(location string, prompt PasswordPrompt) (*Config, error) {
	config := Defaults()

	if len(location) == 0 {
		for _, p := range DefaultPaths() {
			if _, err := os.Stat(p); err == nil {
				location = p
				break
			}
		}
	}

	if len(location) > 0 {
		klog.V(2).Infof("Loading configuration from %s", location)
		if err := readConfigFile(location, &config); err != nil {
			return nil, fmt.Errorf("unable to read config file %q: %w", location, err)
		}
	}

	config.CacheDir = ExpandHome(config.CacheDir)

	if prompt != nil && len(config.Username) > 0 && len(config.Password) == 0 {
		password, err := prompt(fmt.Sprintf("Enter password for %s: ", config.Username))
		if err != nil {
			return nil, err
		}
		if len(password) == 0 {
			return nil, ErrAborted
		}
		config.Password = password
	}

	return &config, nil
}

// readConfigFile decodes the file onto config, so keys missing from the file keep their current value.
func readConfigFile(location string, config *Config) error {
	configBytes, err := ioutil.ReadFile(location)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(location)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(configBytes, config)
	default:
		return json.Unmarshal(configBytes, config)
	}
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// TerminalPrompt reads a password from the controlling terminal without echo, so it works while
// stdin carries a patch.
func TerminalPrompt(prompt string) (string, error) {
	in := os.Stdin
	if tty, err := os.Open("/dev/tty"); err == nil {
		defer tty.Close()
		in = tty
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)
	password, err := term.ReadPassword(int(in.Fd()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAborted, err)
	}
	return string(password), nil
}
