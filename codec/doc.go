/*
Package codec converts between typed domain objects and the canonical records stored in the tree.

Encoding walks struct fields by reflection. Field layouts are computed once per type and cached in
a concurrent map, so the codec is safe for concurrent use. Decoding uses mapstructure with the json
tag and a set of hooks:

  - epoch seconds become time.Time or strfmt.DateTime
  - strings become enumerations implementing StorageStringParser
  - numbers narrow only when the value is representable

A type that embeds Identity receives the key of the node it was read from:

	type Alarm struct {
	    codec.Identity
	    Label  string    `json:"label"`
	    Fires  time.Time `json:"fires"`
	    Repeat *string   `json:"repeat,omitempty"`
	}

	rec, _ := codec.Encode(alarm)               // {"label": ..., "fires": 1700000000}
	a, _ := codec.DecodeWithKey[Alarm]("a1", rec) // a.StoreKey() == "a1"

Required fields are the non-pointer, non-collection fields without omitempty. A record lacking one
fails with a DecodeError naming the field.
*/
package codec
