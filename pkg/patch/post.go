package patch

import (
	"context"
	"encoding/json"
	"fmt"
	"html"

	"github.com/openshift/bzpatch/pkg/bzapi"
)

// PullRequestContentType makes Bugzilla render the attachment as a link to the pull request.
const PullRequestContentType = "text/x-github-pull-request"

// Poster uploads attachments; *bzapi.API is one.
type Poster interface {
	PostAttachment(ctx context.Context, bugID int, upload bzapi.AttachmentUpload) (json.RawMessage, error)
}

// ReviewFlag asks reviewer for review.
func ReviewFlag(reviewer string) bzapi.Flag {
	return bzapi.Flag{
		Name:      "review",
		Status:    "?",
		Requestee: &bzapi.FlagRequestee{Name: reviewer},
	}
}

func reviewFlags(reviewer string) []bzapi.Flag {
	if len(reviewer) == 0 {
		return nil
	}
	return []bzapi.Flag{ReviewFlag(reviewer)}
}

// Post attaches patch to bug, credited to author, and returns the patch as uploaded.
// An empty reviewer means no review is requested.
func Post(ctx context.Context, poster Poster, author *bzapi.User, bug *bzapi.Bug, patch, description, reviewer string) (string, error) {
	realName, err := author.RealName(ctx)
	if err != nil {
		return "", err
	}
	email, err := author.Email(ctx)
	if err != nil {
		return "", err
	}
	fullPatch := Make(patch, realName, email, bug.ID, bug.Summary)
	_, err = poster.PostAttachment(ctx, bug.ID, bzapi.AttachmentUpload{
		Contents:    []byte(fullPatch),
		FileName:    fmt.Sprintf("bug-%d-patch.diff", bug.ID),
		Description: description,
		ContentType: "text/plain",
		IsPatch:     true,
		Flags:       reviewFlags(reviewer),
	})
	if err != nil {
		return "", err
	}
	return fullPatch, nil
}

// PullRequestPointer is a page redirecting to the pull request.
func PullRequestPointer(pullRequestURL string) string {
	u := html.EscapeString(pullRequestURL)
	return fmt.Sprintf(`<!DOCTYPE html>
<meta charset="utf-8">
<meta http-equiv="refresh" content="0; url=%[1]s">
<title>Pull request</title>
<a href="%[1]s">%[1]s</a>
`, u)
}

// PostPullRequest attaches a pointer to the pull request to bug.
func PostPullRequest(ctx context.Context, poster Poster, bug *bzapi.Bug, pullRequestURL, description, reviewer string) error {
	_, err := poster.PostAttachment(ctx, bug.ID, bzapi.AttachmentUpload{
		Contents:    []byte(PullRequestPointer(pullRequestURL)),
		FileName:    fmt.Sprintf("bug-%d-pullreq.html", bug.ID),
		Description: description,
		ContentType: PullRequestContentType,
		Flags:       reviewFlags(reviewer),
	})
	return err
}
