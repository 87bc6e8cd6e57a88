package v1

// BugReport is what `bzpatch show -o yaml` prints.
type BugReport struct {
	ID      int    `yaml:"id"`
	Summary string `yaml:"summary"`
	URL     string `yaml:"url"`

	// Only known when the native REST API could be queried.
	Severity  string   `yaml:"severity,omitempty"`
	Component string   `yaml:"component,omitempty"`
	Flags     []string `yaml:"flags,omitempty"`
	PMScore   string   `yaml:"pmScore,omitempty"`

	Attachments []Attachment `yaml:"attachments"`
}

type Attachment struct {
	ID          int    `yaml:"id"`
	Description string `yaml:"description"`
	ContentType string `yaml:"contentType"`
	FileName    string `yaml:"fileName,omitempty"`
	Size        int    `yaml:"size,omitempty"`
	Patch       bool   `yaml:"patch"`
	Obsolete    bool   `yaml:"obsolete"`
	Attacher    string `yaml:"attacher"`
	Created     string `yaml:"created"`
}
