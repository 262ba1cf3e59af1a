package main

// DefineRequiredIndexes returns the composite indexes muraji's queries need.
// Session listing orders by created_at only, which Firestore serves from the
// automatic single-field index; the message history query orders by
// (created_at, seq) within a session's subcollection and needs a composite.
func DefineRequiredIndexes() []IndexConfig {
	return []IndexConfig{
		{
			CollectionGroup: "messages",
			Fields: []IndexField{
				{FieldPath: "created_at", Order: "ASCENDING"},
				{FieldPath: "seq", Order: "ASCENDING"},
			},
		},
	}
}
