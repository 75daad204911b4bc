package markup

import "strings"

// Attr is a single tag attribute as it appeared in the template.
//
// Value holds the markup text between the quotes, not an entity-decoded
// string. Quote is the quote character used in the source ('"', '\'' or 0
// for unquoted and valueless attributes).
type Attr struct {
	Key   string
	Value string
	Quote byte
}

// Attributes is an ordered attribute list. Keys keep their original case;
// lookups are case-insensitive, matching HTML semantics.
type Attributes []Attr

// Lookup returns the value for key and whether the attribute exists.
func (a Attributes) Lookup(key string) (string, bool) {
	if i := a.index(key); i >= 0 {
		return a[i].Value, true
	}
	return "", false
}

// Get returns the value for key, or "" if absent.
func (a Attributes) Get(key string) string {
	v, _ := a.Lookup(key)
	return v
}

// Has reports whether key is present.
func (a Attributes) Has(key string) bool {
	return a.index(key) >= 0
}

// Set replaces the value of an existing attribute (keeping its position and
// key spelling) or appends a new one.
func (a *Attributes) Set(key, value string) {
	if i := a.index(key); i >= 0 {
		(*a)[i].Value = value
		if (*a)[i].Quote == 0 {
			(*a)[i].Quote = '"'
		}
		return
	}
	*a = append(*a, Attr{Key: key, Value: value, Quote: '"'})
}

// Remove deletes key and reports whether it was present.
func (a *Attributes) Remove(key string) bool {
	i := a.index(key)
	if i < 0 {
		return false
	}
	*a = append((*a)[:i], (*a)[i+1:]...)
	return true
}

// Clone returns an independent copy.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	copy(out, a)
	return out
}

func (a Attributes) index(key string) int {
	for i := range a {
		if strings.EqualFold(a[i].Key, key) {
			return i
		}
	}
	return -1
}

// writeTo appends the attributes in source order, each preceded by a space.
func (a Attributes) writeTo(sb *strings.Builder) {
	for _, attr := range a {
		sb.WriteByte(' ')
		sb.WriteString(attr.Key)
		switch attr.Quote {
		case 0:
			if attr.Value != "" {
				sb.WriteByte('=')
				sb.WriteString(attr.Value)
			}
		default:
			sb.WriteByte('=')
			sb.WriteByte(attr.Quote)
			sb.WriteString(attr.Value)
			sb.WriteByte(attr.Quote)
		}
	}
}
