package insight

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/avaraper/calily-backend/internal/types"
)

// CacheKey derives a stable request-identity key from the kind and the
// ordered identifiers of the inputs. Entry text is deliberately excluded:
// two calls over the same id set are the same request.
func CacheKey(kind Kind, entries []types.JournalEntry, medications []types.Medication) string {
	var b strings.Builder
	b.WriteString(string(kind))
	for _, e := range entries {
		b.WriteByte('|')
		b.WriteString(e.ID.String())
	}
	b.WriteString("||")
	for _, m := range medications {
		b.WriteByte('|')
		b.WriteString(m.ID.String())
	}

	sum := sha256.Sum256([]byte(b.String()))
	return string(kind) + ":" + hex.EncodeToString(sum[:16])
}
