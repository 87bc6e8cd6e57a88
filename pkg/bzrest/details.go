// Package bzrest reads triage details from the native Bugzilla REST API, which needs an API key
// rather than the username and password used elsewhere.
package bzrest

import (
	"fmt"

	"github.com/eparis/bugzilla"
	"k8s.io/klog/v2"
)

// Details complements a bzapi.Bug with fields the attachment workflow does not need.
type Details struct {
	Severity  string
	Component []string
	Flags     []string
	PMScore   string
}

func NewClient(apiKey, server string) bugzilla.Client {
	return bugzilla.NewClient(func() []byte {
		return []byte(apiKey)
	}, server)
}

func Lookup(client bugzilla.Client, id int) (*Details, error) {
	klog.V(2).Infof("Fetching details for bug %d", id)
	bug, err := client.GetBug(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bug #%d: %w", id, err)
	}
	details := &Details{
		Severity:  bug.Severity,
		Component: bug.Component,
		PMScore:   bug.PMScore,
	}
	for _, f := range bug.Flags {
		details.Flags = append(details.Flags, f.Name)
	}
	return details, nil
}
