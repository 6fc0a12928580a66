package analysis

import (
	"log"
	"os"

	"github.com/google/uuid"
)

// PathResolver maps an episode ID to its storage path. It fails when the
// episode no longer exists in the catalog.
type PathResolver interface {
	ResolvePath(id uuid.UUID) (string, error)
}

// ResultCache answers whether an episode already has a detection result.
type ResultCache interface {
	Contains(id uuid.UUID) (bool, error)
}

// Verifier filters a group down to the episodes still backed by a real file
// and reports whether any member of the group lacks a prior result.
type Verifier struct {
	resolver PathResolver
	cache    ResultCache
}

func NewVerifier(resolver PathResolver, cache ResultCache) *Verifier {
	return &Verifier{resolver: resolver, cache: cache}
}

// VerifySeason checks every episode of the group, in order. Episodes whose
// path resolves to an existing file are returned with Path set, preserving
// input order. The unanalyzed check is independent of the existence check:
// an episode that fails resolution can still mark the group unanalyzed.
// Per-episode faults are absorbed, never returned.
func (v *Verifier) VerifySeason(group Group) (verified []Candidate, anyUnanalyzed bool) {
	for _, ep := range group.Episodes {
		known, err := v.cache.Contains(ep.ID)
		if err != nil {
			log.Printf("Verify: result lookup failed for %s, treating as unanalyzed: %v", ep.Title, err)
			known = false
		}
		if !known {
			anyUnanalyzed = true
		}

		path, err := v.resolver.ResolvePath(ep.ID)
		if err != nil {
			log.Printf("Verify: skipping %s (%s): %v", ep.Title, group.Key, err)
			continue
		}
		if _, err := os.Stat(path); err != nil {
			log.Printf("Verify: skipping %s (%s): file missing at %s", ep.Title, group.Key, path)
			continue
		}

		ep.Path = path
		verified = append(verified, ep)
	}
	return verified, anyUnanalyzed
}
