package patch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openshift/bzpatch/pkg/bzapi"
)

// ErrNoPatch is returned when a bug has no patch that is still current.
var ErrNoPatch = errors.New("no patch found")

const diffMarker = "diff"

// StripHeader drops anything preceding the first line starting with "diff".
// Patches without such a line are returned untouched.
func StripHeader(patch string) string {
	if strings.HasPrefix(patch, diffMarker) {
		return patch
	}
	index := strings.Index(patch, "\n"+diffMarker)
	if index == -1 {
		return patch
	}
	return patch[index+1:]
}

// MakeHeader renders the changeset header crediting the author for the bug.
func MakeHeader(realName, email string, bugID int, summary string) string {
	return strings.Join([]string{
		"# HG changeset patch",
		fmt.Sprintf("# User %s <%s>", realName, email),
		fmt.Sprintf("Bug %d - %s", bugID, summary),
	}, "\n")
}

// Make replaces any existing header of patch with a fresh one, followed by an empty line.
func Make(patch, realName, email string, bugID int, summary string) string {
	return strings.Join([]string{MakeHeader(realName, email, bugID, summary), "", StripHeader(patch)}, "\n")
}

// FromAttachment formats the attachment contents, crediting its attacher.
func FromAttachment(ctx context.Context, attachment *bzapi.Attachment) (string, error) {
	data, err := attachment.Data(ctx)
	if err != nil {
		return "", err
	}
	realName, err := attachment.Attacher.RealName(ctx)
	if err != nil {
		return "", err
	}
	email, err := attachment.Attacher.Email(ctx)
	if err != nil {
		return "", err
	}
	bug, err := attachment.Bug(ctx)
	if err != nil {
		return "", err
	}
	return Make(string(data), realName, email, bug.ID, bug.Summary), nil
}

// Live returns the attachments of bug that are patches and not obsolete, in bug order.
func Live(bug *bzapi.Bug) []*bzapi.Attachment {
	var patches []*bzapi.Attachment
	for _, a := range bug.Attachments {
		if a.IsPatch && !a.IsObsolete {
			patches = append(patches, a)
		}
	}
	return patches
}

// Latest picks the most recently created live patch. On equal creation times the one listed last wins.
func Latest(bug *bzapi.Bug) (*bzapi.Attachment, error) {
	var latest *bzapi.Attachment
	for _, a := range Live(bug) {
		if latest == nil || !a.CreationTime.Before(latest.CreationTime) {
			latest = a
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("bug %d: %w", bug.ID, ErrNoPatch)
	}
	return latest, nil
}

// Get returns the latest live patch of bug with a changeset header.
func Get(ctx context.Context, bug *bzapi.Bug) (string, error) {
	latest, err := Latest(bug)
	if err != nil {
		return "", err
	}
	return FromAttachment(ctx, latest)
}
