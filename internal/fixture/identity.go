package fixture

import (
	"slices"
	"strconv"
	"strings"
)

// Key is the comparable form of an Identity. Two identities produce the same
// key exactly when their fixture types and ordered parameter lists are equal.
type Key string

// Identity is the deduplication key of a fixture invocation: the declared
// fixture type and its ordered string parameters. It does not depend on which
// work item declared it.
type Identity struct {
	Type   string
	Params []string
}

// NewIdentity builds an identity, copying params so later mutation of the
// caller's slice cannot change the key.
func NewIdentity(typeName string, params ...string) Identity {
	return Identity{Type: typeName, Params: slices.Clone(params)}
}

// Key encodes the identity with length prefixes so that no choice of type
// name or parameters can collide with a different identity.
func (id Identity) Key() Key {
	var b strings.Builder
	writeField(&b, id.Type)
	b.WriteString(strconv.Itoa(len(id.Params)))
	b.WriteByte('#')
	for _, p := range id.Params {
		writeField(&b, p)
	}
	return Key(b.String())
}

func writeField(b *strings.Builder, s string) {
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
}

// Equal reports structural equality.
func (id Identity) Equal(other Identity) bool {
	return id.Type == other.Type && slices.Equal(id.Params, other.Params)
}

// String renders the identity as Type(p1, p2).
func (id Identity) String() string {
	return id.Type + "(" + strings.Join(id.Params, ", ") + ")"
}
