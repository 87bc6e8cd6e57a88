package api

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	v1 "github.com/openshift/bzpatch/pkg/api/v1"
	"github.com/openshift/bzpatch/pkg/bzapi"
	"github.com/openshift/bzpatch/pkg/bzrest"
)

// BugURL is the web UI page of the bug.
func BugURL(server string, id int) string {
	return fmt.Sprintf("%s/show_bug.cgi?id=%d", strings.TrimSuffix(server, "/"), id)
}

// NewBugReport flattens the bug for serialization. details may be nil.
func NewBugReport(server string, bug *bzapi.Bug, details *bzrest.Details) v1.BugReport {
	report := v1.BugReport{
		ID:          bug.ID,
		Summary:     sanitizeSummary(bug.Summary),
		URL:         BugURL(server, bug.ID),
		Attachments: make([]v1.Attachment, len(bug.Attachments)),
	}
	if details != nil {
		report.Severity = details.Severity
		report.Component = strings.Join(details.Component, "/")
		report.Flags = details.Flags
		report.PMScore = details.PMScore
	}
	for i, a := range bug.Attachments {
		report.Attachments[i] = v1.Attachment{
			ID:          a.ID,
			Description: sanitizeSummary(a.Description),
			ContentType: a.ContentType,
			FileName:    a.FileName,
			Size:        a.Size,
			Patch:       a.IsPatch,
			Obsolete:    a.IsObsolete,
			Attacher:    a.Attacher.Name,
			Created:     a.CreationTime.Format(time.RFC3339),
		}
	}
	return report
}

func Marshal(report v1.BugReport) ([]byte, error) {
	return yaml.Marshal(report)
}

func sanitizeSummary(in string) string {
	return strings.ReplaceAll(strings.TrimSpace(in), "\n", " ")
}
