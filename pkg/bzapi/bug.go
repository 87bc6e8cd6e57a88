package bzapi

import (
	"context"
	"encoding/json"
	"fmt"
)

// Bug is a snapshot of a bug and the attachments it owns.
type Bug struct {
	ID          int
	Summary     string
	Attachments []*Attachment
}

func NewBug(raw json.RawMessage, doer Doer) (*Bug, error) {
	f, err := parseFields(raw)
	if err != nil {
		return nil, fmt.Errorf("decode bug: %w", err)
	}
	b := &Bug{}
	if b.ID, err = f.integer("id"); err != nil {
		return nil, fmt.Errorf("decode bug: %w", err)
	}
	if b.Summary, err = f.str("summary"); err != nil {
		return nil, fmt.Errorf("decode bug %d: %w", b.ID, err)
	}
	if !f.has("attachments") {
		return b, nil
	}
	var attachments []json.RawMessage
	if err := json.Unmarshal(f["attachments"], &attachments); err != nil {
		return nil, fmt.Errorf("decode bug %d attachments: %w", b.ID, err)
	}
	for _, raw := range attachments {
		a, err := NewAttachment(raw, doer, b)
		if err != nil {
			return nil, fmt.Errorf("bug %d: %w", b.ID, err)
		}
		b.Attachments = append(b.Attachments, a)
	}
	return b, nil
}

// FetchBug retrieves a bug with its attachment metadata.
func FetchBug(ctx context.Context, doer Doer, id int) (*Bug, error) {
	raw, err := doer.Request(ctx, "GET", fmt.Sprintf("/bug/%d", id), nil, nil)
	if err != nil {
		return nil, err
	}
	bug, err := NewBug(raw, doer)
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}
	return bug, nil
}

func (b *Bug) String() string {
	return fmt.Sprintf("Bug %d - %s", b.ID, b.Summary)
}
