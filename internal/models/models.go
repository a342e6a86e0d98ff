package models

// Profile holds the identity fields recovered from a candidate document.
// Fields other than Email may carry the NotFound marker.
type Profile struct {
	Email   string
	Name    string
	Address string
	Role    string
}

// ChunkRecord is one retrievable unit stored in the vector repository.
// Every chunk belonging to one ingestion carries the same Email and
// ContentFingerprint, which is what makes delete-then-insert replacement
// work per (session, email) key.
type ChunkRecord struct {
	ID                 string
	Content            string
	SessionID          string
	Email              string
	Name               string
	Role               string
	Source             string
	ContentFingerprint string
}
