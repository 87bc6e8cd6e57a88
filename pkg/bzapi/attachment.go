package bzapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Attachment is a file attached to a bug. Its contents and owning bug are fetched on demand when the
// payload it was built from did not include them.
type Attachment struct {
	ID             int
	BugID          int
	LastChangeTime time.Time
	CreationTime   time.Time
	Description    string
	ContentType    string
	IsPatch        bool
	IsObsolete     bool
	// FileName and Size are zero when the server did not send them.
	FileName string
	Size     int
	Attacher *User

	data    []byte
	hasData bool
	bug     *Bug
	doer    Doer
}

// NewAttachment decodes an attachment payload. bug may be nil.
func NewAttachment(raw json.RawMessage, doer Doer, bug *Bug) (*Attachment, error) {
	f, err := parseFields(raw)
	if err != nil {
		return nil, fmt.Errorf("decode attachment: %w", err)
	}
	a := &Attachment{doer: doer, bug: bug}
	if a.ID, err = f.integer("id"); err != nil {
		return nil, fmt.Errorf("decode attachment: %w", err)
	}
	if err := a.decode(f); err != nil {
		return nil, fmt.Errorf("decode attachment %d: %w", a.ID, err)
	}
	return a, nil
}

func (a *Attachment) decode(f fields) error {
	var err error
	if a.BugID, err = f.integer("bug_id"); err != nil {
		return err
	}
	if a.LastChangeTime, err = f.timestamp("last_change_time"); err != nil {
		return err
	}
	if a.CreationTime, err = f.timestamp("creation_time"); err != nil {
		return err
	}
	if a.Description, err = f.str("description"); err != nil {
		return err
	}
	if a.ContentType, err = f.str("content_type"); err != nil {
		return err
	}
	if a.IsPatch, err = f.boolean("is_patch"); err != nil {
		return err
	}
	if a.IsObsolete, err = f.boolean("is_obsolete"); err != nil {
		return err
	}
	if f.has("file_name") {
		if a.FileName, err = f.str("file_name"); err != nil {
			return err
		}
	}
	if f.has("size") {
		if a.Size, err = f.integer("size"); err != nil {
			return err
		}
	}
	attacher, err := f.get("attacher")
	if err != nil {
		return err
	}
	if a.Attacher, err = newUserFromJSON(attacher, a.doer); err != nil {
		return err
	}
	if f.has("data") {
		if a.data, err = decodeData(f); err != nil {
			return err
		}
		a.hasData = true
	}
	return nil
}

// FetchAttachment retrieves an attachment including its contents.
func FetchAttachment(ctx context.Context, doer Doer, id int) (*Attachment, error) {
	raw, err := getFullAttachment(ctx, doer, id)
	if err != nil {
		return nil, err
	}
	a, err := NewAttachment(raw, doer, nil)
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}
	return a, nil
}

func getFullAttachment(ctx context.Context, doer Doer, id int) (json.RawMessage, error) {
	return doer.Request(ctx, "GET", fmt.Sprintf("/attachment/%d", id), url.Values{"attachmentdata": {"1"}}, nil)
}

// Data returns the decoded contents of the attachment.
func (a *Attachment) Data(ctx context.Context) ([]byte, error) {
	if a.hasData {
		return a.data, nil
	}
	if a.doer == nil {
		return nil, fmt.Errorf("%w: cannot fetch data for attachment %d", ErrNoAPI, a.ID)
	}
	raw, err := getFullAttachment(ctx, a.doer, a.ID)
	if err != nil {
		return nil, err
	}
	f, err := parseFields(raw)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("decode attachment %d: %v", a.ID, err)}
	}
	data, err := decodeData(f)
	if err != nil {
		return nil, fmt.Errorf("attachment %d: %w", a.ID, err)
	}
	a.data, a.hasData = data, true
	return a.data, nil
}

// Bug returns the bug the attachment belongs to.
func (a *Attachment) Bug(ctx context.Context) (*Bug, error) {
	if a.bug != nil {
		return a.bug, nil
	}
	if a.doer == nil {
		return nil, fmt.Errorf("%w: cannot fetch bug %d for attachment %d", ErrNoAPI, a.BugID, a.ID)
	}
	bug, err := FetchBug(ctx, a.doer, a.BugID)
	if err != nil {
		return nil, err
	}
	a.bug = bug
	return a.bug, nil
}

func (a *Attachment) String() string {
	return fmt.Sprintf("Attachment %d - %s", a.ID, a.Description)
}

func decodeData(f fields) ([]byte, error) {
	encoding, err := f.str("encoding")
	if err != nil {
		return nil, err
	}
	if encoding != "base64" {
		return nil, fmt.Errorf("unrecognized encoding: %s", encoding)
	}
	data, err := f.str("data")
	if err != nil {
		return nil, err
	}
	data = strings.NewReplacer("\n", "", "\r", "").Replace(data)
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("field \"data\": %w", err)
	}
	return decoded, nil
}
