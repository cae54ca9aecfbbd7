package pgstore

import (
	"encoding/base64"
	"encoding/json"
	"strconv"

	"github.com/dd0wney/graphlayer/pkg/cellstore"
)

// wireValue is the JSON-on-the-wire shape of a cellstore.Value; Data is
// base64-encoded since it's arbitrary bytes (a float64/int64/uuid encoding,
// not always valid UTF-8).
type wireValue struct {
	Type cellstore.ValueType `json:"type"`
	Data string              `json:"data"`
}

func encodeBody(body map[cellstore.FieldID]cellstore.Value) []byte {
	wire := make(map[string]wireValue, len(body))
	for field, value := range body {
		wire[strconv.FormatUint(uint64(field), 10)] = wireValue{
			Type: value.Type,
			Data: base64.StdEncoding.EncodeToString(value.Data),
		}
	}
	out, _ := json.Marshal(wire)
	return out
}

func decodeBody(raw []byte) (map[cellstore.FieldID]cellstore.Value, error) {
	var wire map[string]wireValue
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, err
	}
	body := make(map[cellstore.FieldID]cellstore.Value, len(wire))
	for key, wv := range wire {
		n, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, err
		}
		data, err := base64.StdEncoding.DecodeString(wv.Data)
		if err != nil {
			return nil, err
		}
		body[cellstore.FieldID(n)] = cellstore.Value{Type: wv.Type, Data: data}
	}
	return body, nil
}
