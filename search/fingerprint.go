package search

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
)

// computeFingerprint generates a stable hash of the document slice.
// The fingerprint changes when document content changes, enabling
// efficient cache invalidation for the BM25 index. Variant and class
// lists hash order-independently; document order matters.
func computeFingerprint(docs []Doc) string {
	h := sha256.New()

	for _, doc := range docs {
		h.Write([]byte(doc.Name))
		h.Write([]byte{0}) // separator

		h.Write([]byte(doc.Description))
		h.Write([]byte{0})

		sortedVariants := slices.Clone(doc.Variants)
		slices.Sort(sortedVariants)
		h.Write([]byte(strings.Join(sortedVariants, "\x01")))
		h.Write([]byte{0})

		sortedClasses := slices.Clone(doc.Classes)
		slices.Sort(sortedClasses)
		h.Write([]byte(strings.Join(sortedClasses, "\x01")))
		h.Write([]byte{0})

		h.Write([]byte(doc.Text))
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}
