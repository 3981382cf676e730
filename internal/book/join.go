package book

import (
	"fmt"

	"bookshare/internal/identity"
)

// OwnerFromIdentity projects a directory identity onto the public owner shape.
func OwnerFromIdentity(u identity.Identity) OwnerSummary {
	return OwnerSummary{
		ID:              u.ID,
		Username:        u.Username,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.ProfileImageURL,
	}
}

// DistinctOwnerIDs returns each FirstOwnerID once, in order of first appearance.
func DistinctOwnerIDs(books []Book) []string {
	seen := make(map[string]struct{}, len(books))
	ids := make([]string, 0, len(books))
	for _, b := range books {
		if _, ok := seen[b.FirstOwnerID]; ok {
			continue
		}
		seen[b.FirstOwnerID] = struct{}{}
		ids = append(ids, b.FirstOwnerID)
	}
	return ids
}

// JoinOwners pairs every book with the identity whose ID equals its
// FirstOwnerID, keeping book order. If any owner is missing it returns
// ErrUnknownOwner and no books.
func JoinOwners(books []Book, users []identity.Identity) ([]EnrichedBook, error) {
	owners := make(map[string]OwnerSummary, len(users))
	for _, u := range users {
		owners[u.ID] = OwnerFromIdentity(u)
	}

	out := make([]EnrichedBook, 0, len(books))
	for _, b := range books {
		owner, ok := owners[b.FirstOwnerID]
		if !ok {
			return nil, fmt.Errorf("%w: book %s owner %s", ErrUnknownOwner, b.ID, b.FirstOwnerID)
		}
		out = append(out, EnrichedBook{Book: b, FirstOwner: owner})
	}
	return out, nil
}
