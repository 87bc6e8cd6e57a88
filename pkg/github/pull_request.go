package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-github/v32/github"
	"golang.org/x/oauth2"
	"k8s.io/klog/v2"
)

// PullRequest is the little we need to know to point a bug at a pull request.
type PullRequest struct {
	Owner  string
	Repo   string
	Number int
	Title  string
	URL    string
}

// Description is the default attachment description for a pointer to this pull request.
func (p *PullRequest) Description() string {
	return fmt.Sprintf("Pull request #%d: %s", p.Number, p.Title)
}

type PullRequestLookup struct {
	client *github.Client
}

// NewPullRequestLookup talks to github.com, anonymously when ghToken is empty.
func NewPullRequestLookup(ctx context.Context, ghToken string) *PullRequestLookup {
	if len(ghToken) == 0 {
		return &PullRequestLookup{client: github.NewClient(nil)}
	}
	return &PullRequestLookup{client: github.NewClient(oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: ghToken})))}
}

func NewPullRequestLookupForClient(client *github.Client) *PullRequestLookup {
	return &PullRequestLookup{client: client}
}

func (l *PullRequestLookup) Get(ctx context.Context, pullRequestURL string) (*PullRequest, error) {
	owner, repo, number, err := ParsePullRequestURL(pullRequestURL)
	if err != nil {
		return nil, err
	}
	klog.V(2).Infof("Looking up pull request %s/%s#%d", owner, repo, number)
	pr, _, err := l.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}
	return &PullRequest{
		Owner:  owner,
		Repo:   repo,
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
		URL:    pr.GetHTMLURL(),
	}, nil
}

// ParsePullRequestURL splits https://github.com/<owner>/<repo>/pull/<number>[/...] into its parts.
func ParsePullRequestURL(u string) (string, string, int, error) {
	parsed, err := url.Parse(u)
	if err != nil {
		return "", "", 0, err
	}
	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if parsed.Host != "github.com" || len(parts) < 4 || parts[2] != "pull" {
		return "", "", 0, fmt.Errorf("unable to parse pull request url %q", u)
	}
	number, err := strconv.Atoi(parts[3])
	if err != nil {
		return "", "", 0, fmt.Errorf("unable to parse pull request url %q: %v", u, err)
	}
	return parts[0], parts[1], number, nil
}
