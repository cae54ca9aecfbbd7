package cellstore

import (
	"encoding/binary"
	"hash/fnv"
)

// EncodeKeyedID derives a deterministic cell id from a schema id and a user
// key value, so the same (schema, key) pair always addresses the same cell
// — the mechanism original_source's Cell::encode_cell_key names but leaves
// unspecified (SPEC_FULL.md §3). Two FNV-1a passes over disjoint seeds fold
// into the high/low 64 bits of the id so the result is deterministic but not
// trivially invertible to the key.
func EncodeKeyedID(schemaID SchemaID, key Value) Id {
	var schemaBuf [4]byte
	binary.BigEndian.PutUint32(schemaBuf[:], uint32(schemaID))

	hi := fnv.New64a()
	hi.Write(schemaBuf[:])
	hi.Write([]byte{byte(key.Type)})
	hi.Write(key.Data)

	lo := fnv.New64a()
	lo.Write([]byte("graphlayer-keyed-id"))
	lo.Write(schemaBuf[:])
	lo.Write(key.Data)

	var raw [16]byte
	binary.BigEndian.PutUint64(raw[0:8], hi.Sum64())
	binary.BigEndian.PutUint64(raw[8:16], lo.Sum64())

	// Mark as a version-8 (custom) / variant-RFC4122 UUID so it never
	// collides with a randomly generated NewID().
	raw[6] = (raw[6] & 0x0f) | 0x80
	raw[8] = (raw[8] & 0x3f) | 0x80

	id, _ := uuidFromBytes(raw[:])
	return id
}
