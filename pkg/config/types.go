package config

// Config is the merged view of built-in defaults and the user config file.
type Config struct {
	// APIServer is the base URL of the Bugzilla REST API, paths are appended verbatim.
	APIServer string `json:"api_server" yaml:"api_server"`
	// Server is the Bugzilla web UI, also used for the native REST API.
	Server string `json:"server" yaml:"server"`

	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	// CacheDir enables the on-disk response cache when set.
	CacheDir string `json:"cache_dir,omitempty" yaml:"cache_dir,omitempty"`

	// APIKey is used for the native Bugzilla 5 REST API only.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	GithubToken string `json:"github_token,omitempty" yaml:"github_token,omitempty"`
}

// HasCredentials reports whether both username and password are known.
func (c *Config) HasCredentials() bool {
	return len(c.Username) > 0 && len(c.Password) > 0
}
