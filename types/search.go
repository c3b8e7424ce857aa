package types

// SearchResults groups matches across resources for a single query.
type SearchResults struct {
	Tasks    []Task     `json:"tasks"`
	Projects []Project  `json:"projects"`
	Users    []Identity `json:"users"`
}
