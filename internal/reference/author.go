package reference

// Author represents one citation author in source order.
type Author struct {
	Family string `json:"family"`          // Family/last name, particles included ("van der Berg")
	Given  string `json:"given,omitempty"` // Given name(s) or initials as they appeared
}
