package cellstore

import "github.com/google/uuid"

func uuidFromBytes(b []byte) (Id, error) {
	return uuid.FromBytes(b)
}
