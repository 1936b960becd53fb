package entity

// Photo is a binary attachment selected for a booking submission. The
// client never stores photos, they travel as opaque multipart parts.
type Photo struct {
	Name string
	Data []byte
}
