package models

import "encoding/json"

// PropertyRecord is a read-only projection of one record from the active
// property store. ID is the store-assigned, opaque identifier; Fields
// carries the remaining columns as scalar-or-null values. Records are
// never persisted by this service.
type PropertyRecord struct {
	ID     string
	Fields map[string]interface{}
}

// MarshalJSON flattens the record into a single object: the store ID
// under "id" with the field values spread alongside it. A field literally
// named "id" shadows the store ID, matching the upstream row as-is.
func (r PropertyRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Fields)+1)
	out["id"] = r.ID
	for k, v := range r.Fields {
		out[k] = v
	}
	return json.Marshal(out)
}
