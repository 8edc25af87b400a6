package source

import "encoding/json"

// RawRecord is one loosely-typed order as returned by the order service.
// Field presence and JSON types vary between server versions.
type RawRecord map[string]json.RawMessage

// QueryResponse is the raw payload of GET /order_query/orders/query.
// Orders stays nil when the payload has no "orders" array.
type QueryResponse struct {
	Orders []RawRecord     `json:"orders"`
	Total  json.RawMessage `json:"total"`
}

// mongoOID and mongoDate cover the extended-JSON shapes a Mongo-backed
// server emits for ids and dates.
type mongoOID struct {
	OID string `json:"$oid"`
}

type mongoDate struct {
	Date json.RawMessage `json:"$date"`
}

type mongoLong struct {
	NumberLong string `json:"$numberLong"`
}
