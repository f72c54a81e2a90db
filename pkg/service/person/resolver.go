package person

import (
	"context"
	"slices"
	"strings"

	"github.com/caeleel/friendbook/pkg/domain/model"
	"github.com/caeleel/friendbook/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// FindByPrefix returns every friend whose name starts with prefix, sorted by
// name. Matching is case-sensitive.
func (r *Repository) FindByPrefix(ctx context.Context, user model.UserID, prefix string) ([]model.PersonRef, error) {
	index, err := r.ListFriends(ctx, user)
	if err != nil {
		return nil, err
	}

	refs := []model.PersonRef{}
	for _, name := range index.Friends {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		id, ok := index.FriendMap[name]
		if !ok {
			logging.From(ctx).Warn("friend has no person id", "user", user, "name", name)
			continue
		}
		refs = append(refs, model.PersonRef{Name: name, ID: id})
	}

	slices.SortFunc(refs, func(a, b model.PersonRef) int {
		return strings.Compare(a.Name, b.Name)
	})
	return refs, nil
}

// Resolve maps a free-text name to a person. An unknown name creates the
// person with the given relationship, a unique match loads it, and more
// than one match fails with ErrAmbiguousPerson.
func (r *Repository) Resolve(ctx context.Context, user model.UserID, name, relationship string) (*model.PersonView, error) {
	refs, err := r.FindByPrefix(ctx, user, name)
	if err != nil {
		return nil, err
	}

	switch len(refs) {
	case 0:
		p, err := r.AddPerson(ctx, user, name, relationship)
		if err != nil {
			return nil, err
		}
		logging.From(ctx).Info("person created on first reference", "user", user, "name", name, "id", p.ID)

		view := model.NewPersonView(p.Name, p.ID)
		view.Facts[model.RelationshipFactKey] = p.Relationship
		return view, nil

	case 1:
		return r.GetPerson(ctx, user, refs[0].Name, refs[0].ID)

	default:
		names := make([]string, len(refs))
		for i, ref := range refs {
			names[i] = ref.Name
		}
		return nil, goerr.Wrap(ErrAmbiguousPerson, "name matches several friends",
			goerr.V("name", name), goerr.V("matches", names))
	}
}
