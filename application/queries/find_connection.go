package queries

// FindConnectionQuery asks for the shortest friendship path between two users
type FindConnectionQuery struct {
	UserID       string `validate:"required,max=128"`
	TargetUserID string `validate:"required,max=128"`
}

// Validate validates the FindConnectionQuery
func (q FindConnectionQuery) Validate() error {
	return validate(q)
}

// CacheKey identifies the query parameters
func (q FindConnectionQuery) CacheKey() string {
	return q.UserID + "|" + q.TargetUserID
}

// FindConnectionResult describes how two users are connected.
// Distance is the number of hops and is -1 when no path exists.
type FindConnectionResult struct {
	Connected bool          `json:"connected"`
	Distance  int           `json:"distance"`
	Path      []UserSummary `json:"path"`
	Message   string        `json:"message,omitempty"`
}
