package bzapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// User is a Bugzilla account. Name is always known; e-mail and real name are looked up by name
// the first time either is asked for, unless the payload already had them.
type User struct {
	Name string

	email    *string
	realName *string
	doer     Doer
}

// NewUser returns a user known only by name.
func NewUser(name string, doer Doer) *User {
	return &User{Name: name, doer: doer}
}

func newUserFromJSON(raw json.RawMessage, doer Doer) (*User, error) {
	f, err := parseFields(raw)
	if err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	u := &User{doer: doer}
	if u.Name, err = f.str("name"); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if u.email, err = f.optionalStr("email"); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", u.Name, err)
	}
	if u.realName, err = f.optionalStr("real_name"); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", u.Name, err)
	}
	return u, nil
}

func (u *User) Email(ctx context.Context) (string, error) {
	if u.email == nil {
		if err := u.fulfill(ctx); err != nil {
			return "", err
		}
	}
	return *u.email, nil
}

func (u *User) RealName(ctx context.Context) (string, error) {
	if u.realName == nil {
		if err := u.fulfill(ctx); err != nil {
			return "", err
		}
	}
	return *u.realName, nil
}

func (u *User) String() string {
	return u.Name
}

// fulfill sets both e-mail and real name, so it runs at most once per user.
func (u *User) fulfill(ctx context.Context) error {
	if u.doer == nil {
		return fmt.Errorf("%w: cannot look up user %q", ErrNoAPI, u.Name)
	}
	raw, err := u.doer.Request(ctx, "GET", "/user", url.Values{"match": {u.Name}}, nil)
	if err != nil {
		return err
	}
	var result struct {
		Users []struct {
			Email    string `json:"email"`
			RealName string `json:"real_name"`
		} `json:"users"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return &Error{Message: fmt.Sprintf("decode user search for %q: %v", u.Name, err)}
	}
	switch {
	case len(result.Users) > 1:
		return &Error{Message: fmt.Sprintf("more than one user found for name %q", u.Name)}
	case len(result.Users) == 0:
		return &Error{Message: fmt.Sprintf("no users found for name %q", u.Name)}
	}
	u.email = &result.Users[0].Email
	u.realName = &result.Users[0].RealName
	return nil
}
