package auth

import "strings"

// Slugify pasa name a minúsculas, reemplaza cada tramo de caracteres fuera
// de [a-z0-9] por un único "-" y recorta los guiones de los extremos.
//
//	Slugify("Acme, Inc.")    == "acme-inc"
//	Slugify("  Foo---Bar  ") == "foo-bar"
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
