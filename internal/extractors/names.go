package extractors

import "strings"

// BaseName strips directory components from an archive member name.
// Directory markers such as "d/" yield "".
func BaseName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// StripExtension drops the last extension from a display name, so
// "logs.tar.gz" becomes "logs.tar". Leading dots do not start an
// extension: ".bashrc" is returned unchanged.
func StripExtension(name string) string {
	base := BaseName(name)
	trimmed := strings.TrimLeft(base, ".")
	i := strings.LastIndex(trimmed, ".")
	if i < 0 {
		return name
	}
	cut := len(name) - len(trimmed) + i
	return name[:cut]
}
