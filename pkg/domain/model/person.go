package model

import (
	"encoding/json"

	"github.com/caeleel/friendbook/pkg/domain/types"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// PersonID is a UUID-based identifier for a Person. It never changes after
// the person is created, even when the person is renamed.
type PersonID string

// NewPersonID generates a new UUID v4 PersonID
func NewPersonID() PersonID {
	return PersonID(uuid.New().String())
}

func (id PersonID) String() string {
	return string(id)
}

// RelationshipFactKey is the fact every person receives at creation
const RelationshipFactKey = "relationship"

// Projection keys that facts may not shadow
const (
	viewKeyName  = "name"
	viewKeyID    = "id"
	viewKeyLists = "lists"
)

// IsReservedFactKey reports whether key collides with an identity field of
// the person projection
func IsReservedFactKey(key string) bool {
	switch key {
	case viewKeyName, viewKeyID, viewKeyLists:
		return true
	default:
		return false
	}
}

// Fact is a single keyed piece of knowledge about a person
type Fact struct {
	Value      string           `json:"value"`
	Confidence types.Confidence `json:"confidence"`
	Importance float64          `json:"importance"`
}

// ListEntry is one member of a person's list with an optional timestamp
type ListEntry struct {
	Value     string  `json:"value"`
	Timestamp *string `json:"timestamp,omitempty"`
}

// PersonRef pairs a friend name with its person id
type PersonRef struct {
	Name string   `json:"name"`
	ID   PersonID `json:"id"`
}

// Person is the result of creating a person
type Person struct {
	ID           PersonID
	Name         string
	Relationship Fact
}

// FriendIndex is the per-user name index
type FriendIndex struct {
	Friends   []string            `json:"friends"`
	FriendMap map[string]PersonID `json:"friendMap"`
}

// PersonView is the full projection of a person: identity, every fact and
// every list joined with its timestamps.
type PersonView struct {
	ID    PersonID
	Name  string
	Facts map[string]Fact
	Lists map[string][]ListEntry
}

// NewPersonView returns an empty projection for the given identity
func NewPersonView(name string, id PersonID) *PersonView {
	return &PersonView{
		ID:    id,
		Name:  name,
		Facts: map[string]Fact{},
		Lists: map[string][]ListEntry{},
	}
}

// MarshalJSON flattens facts next to the identity fields:
// {"name":..,"id":..,"<fact>":{..},"lists":{..}}
func (v PersonView) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(v.Facts)+3)
	for key, fact := range v.Facts {
		if IsReservedFactKey(key) {
			continue
		}
		out[key] = fact
	}
	out[viewKeyName] = v.Name
	out[viewKeyID] = v.ID

	lists := v.Lists
	if lists == nil {
		lists = map[string][]ListEntry{}
	}
	out[viewKeyLists] = lists

	return json.Marshal(out)
}

// UnmarshalJSON reverses MarshalJSON
func (v *PersonView) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return goerr.Wrap(err, "failed to decode person view")
	}

	view := NewPersonView("", "")
	for key, value := range raw {
		var err error
		switch key {
		case viewKeyName:
			err = json.Unmarshal(value, &view.Name)
		case viewKeyID:
			err = json.Unmarshal(value, &view.ID)
		case viewKeyLists:
			err = json.Unmarshal(value, &view.Lists)
		default:
			var fact Fact
			err = json.Unmarshal(value, &fact)
			view.Facts[key] = fact
		}
		if err != nil {
			return goerr.Wrap(err, "failed to decode person view field", goerr.V("key", key))
		}
	}
	if view.Lists == nil {
		view.Lists = map[string][]ListEntry{}
	}

	*v = *view
	return nil
}

// Attribute narrows the projection to the identity fields plus one
// attribute. The attribute is a fact key or "lists"; a missing attribute is
// reported as null.
func (v PersonView) Attribute(attr string) map[string]any {
	out := map[string]any{
		viewKeyName: v.Name,
		viewKeyID:   v.ID,
	}

	switch attr {
	case viewKeyName, viewKeyID:
		return out
	case viewKeyLists:
		lists := v.Lists
		if lists == nil {
			lists = map[string][]ListEntry{}
		}
		out[viewKeyLists] = lists
		return out
	}

	if fact, ok := v.Facts[attr]; ok {
		out[attr] = fact
	} else {
		out[attr] = nil
	}
	return out
}
