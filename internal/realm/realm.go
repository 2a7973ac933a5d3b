package realm

import "strings"

// Realm is the trust domain a request belongs to. Every request is
// classified into exactly one realm, and sessions never cross realms.
type Realm int

const (
	Public Realm = iota
	Admin
)

func (r Realm) String() string {
	switch r {
	case Admin:
		return "admin"
	default:
		return "public"
	}
}

/*
	The classifier answers one question: does this path belong to the
	back-office? It works on configured prefixes so that operators can
	mount the admin console elsewhere without a code change.

	Classification is pure. It never looks at cookies, headers, or any
	mutable state; the path alone decides the realm.
*/

type Classifier struct {
	adminPrefixes []string
}

func NewClassifier(adminPrefixes []string) *Classifier {
	prefixes := make([]string, 0, len(adminPrefixes))
	for _, p := range adminPrefixes {
		if p == "" {
			continue
		}
		prefixes = append(prefixes, p)
	}

	return &Classifier{adminPrefixes: prefixes}
}

func (c *Classifier) Classify(path string) Realm {
	for _, prefix := range c.adminPrefixes {
		if strings.HasPrefix(path, prefix) {
			return Admin
		}
	}

	return Public
}
