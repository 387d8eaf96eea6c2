package models

const (
	// DefaultListLimit is applied when the client omits limit.
	DefaultListLimit = 10
	// MaxListLimit caps every list endpoint.
	MaxListLimit = 100
)

// ListParams carries limit/offset pagination shared by list filters.
type ListParams struct {
	Limit  int
	Offset int
}

// Normalize clamps limit into [1, MaxListLimit] and offset to >= 0.
func (p ListParams) Normalize() ListParams {
	if p.Limit <= 0 {
		p.Limit = DefaultListLimit
	}
	if p.Limit > MaxListLimit {
		p.Limit = MaxListLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
