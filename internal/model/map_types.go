package model

import "github.com/google/uuid"

// Stable identifiers of the well-known concept map types.
var (
	SameAsMapTypeUUID         = uuid.MustParse("35543629-7d8c-11e1-909d-c80aa9edcf4e")
	NarrowerThanMapTypeUUID   = uuid.MustParse("43ac5109-7d8c-11e1-909d-c80aa9edcf4e")
	BroaderThanMapTypeUUID    = uuid.MustParse("4b9d9421-7d8c-11e1-909d-c80aa9edcf4e")
	AssociatedWithMapTypeUUID = uuid.MustParse("55e02065-7d8c-11e1-909d-c80aa9edcf4e")
	IsAMapTypeUUID            = uuid.MustParse("1ce7a784-7d8f-11e1-909d-c80aa9edcf4e")
)

// AllMapTypes lists the well-known map types in canonical order.
var AllMapTypes = []ConceptMapType{
	{UUID: SameAsMapTypeUUID, Name: "SAME-AS"},
	{UUID: NarrowerThanMapTypeUUID, Name: "NARROWER-THAN"},
	{UUID: BroaderThanMapTypeUUID, Name: "BROADER-THAN"},
	{UUID: AssociatedWithMapTypeUUID, Name: "ASSOCIATED-WITH"},
	{UUID: IsAMapTypeUUID, Name: "IS-A"},
}

// MapTypeByUUID returns the well-known map type with the given UUID, or ok=false.
func MapTypeByUUID(id uuid.UUID) (ConceptMapType, bool) {
	for _, mt := range AllMapTypes {
		if mt.UUID == id {
			return mt, true
		}
	}
	return ConceptMapType{}, false
}
