package normalizer

import "golang.org/x/text/unicode/norm"

// NormalizeFilename returns the canonical decomposed (NFD) form of a file name.
// Drawing assets are stored under decomposed names, so composed and decomposed
// spellings of the same name must map to one key.
func NormalizeFilename(name string) string {
	return norm.NFD.String(name)
}
