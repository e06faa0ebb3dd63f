package objstore

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // spec.md mandates SHA-1 identifiers; this is not a security boundary
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mark-oise/fangs/internal/fangserr"
)

// canonicalBytes builds the exact byte sequence that is hashed to derive an
// object's id: "<kind> <len>\x00<payload>". Both Put and Get must agree on
// this form, since the id IS the hash of these bytes (spec.md §3, §4.1).
func canonicalBytes(kind Kind, payload []byte) ([]byte, error) {
	if !kind.Valid() {
		return nil, fangserr.New(fangserr.KindInvalidInput, fmt.Sprintf("hash_object: empty or unknown kind %q", kind))
	}
	header := fmt.Sprintf("%s %d\x00", kind, len(payload))
	buf := make([]byte, 0, len(header)+len(payload))
	buf = append(buf, header...)
	buf = append(buf, payload...)
	return buf, nil
}

// computeID hashes the canonical bytes of (kind, payload) with SHA-1 and
// returns both the hex id and the canonical bytes, so callers that are
// about to write the object don't have to re-derive them.
func computeID(kind Kind, payload []byte) (ID, []byte, error) {
	canon, err := canonicalBytes(kind, payload)
	if err != nil {
		return "", nil, err
	}
	sum := sha1.Sum(canon) //nolint:gosec // see canonicalBytes
	return ID(hex.EncodeToString(sum[:])), canon, nil
}

// splitHeader parses the "<kind> <len>\x00" prefix of a raw object file and
// returns the kind, the declared payload length, and the remaining bytes.
func splitHeader(raw []byte) (kind Kind, declaredLen int, payload []byte, err error) {
	nul := bytes.IndexByte(raw, 0)
	if nul == -1 {
		return "", 0, nil, fangserr.New(fangserr.KindCorruptObject, "object header missing NUL terminator")
	}
	header := raw[:nul]
	payload = raw[nul+1:]

	sp := bytes.IndexByte(header, ' ')
	if sp == -1 {
		return "", 0, nil, fangserr.New(fangserr.KindCorruptObject, fmt.Sprintf("malformed object header %q", header))
	}
	kind = Kind(header[:sp])
	if _, scanErr := fmt.Sscanf(string(header[sp+1:]), "%d", &declaredLen); scanErr != nil {
		return "", 0, nil, fangserr.New(fangserr.KindCorruptObject, fmt.Sprintf("malformed object length in header %q", header))
	}
	return kind, declaredLen, payload, nil
}

// encodeTree produces the canonical, whitespace-insensitive tree payload:
// JSON with entries sorted lexicographically by path, so that identical
// mappings always produce identical bytes (spec.md Open Question 1). This
// same encoding is used both to hash and to decode — never change one
// without the other, since doing so changes every tree id (spec.md §6).
func encodeTree(t *Tree) ([]byte, error) {
	sorted := make([]TreeEntry, len(t.Entries))
	copy(sorted, t.Entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })
	return json.Marshal(&Tree{Entries: sorted})
}

func decodeTree(payload []byte) (*Tree, error) {
	var t Tree
	if err := json.Unmarshal(payload, &t); err != nil {
		return nil, fangserr.Wrap(fangserr.KindCorruptObject, "decoding tree payload", err)
	}
	return &t, nil
}

// encodeCommit applies the same canonicality discipline as encodeTree:
// deterministic JSON, decoded with the exact same function used to encode.
func encodeCommit(c *Commit) ([]byte, error) {
	parents := c.Parents
	if parents == nil {
		parents = []ID{}
	}
	return json.Marshal(&Commit{
		Tree:      c.Tree,
		Parents:   parents,
		Author:    c.Author,
		Timestamp: c.Timestamp,
		Message:   c.Message,
	})
}

func decodeCommit(payload []byte) (*Commit, error) {
	var c Commit
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, fangserr.Wrap(fangserr.KindCorruptObject, "decoding commit payload", err)
	}
	if c.Parents == nil {
		c.Parents = []ID{}
	}
	return &c, nil
}
