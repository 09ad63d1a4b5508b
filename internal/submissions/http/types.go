package http

// factorsPayload mirrors the optional factors object on the wire.
// Field names match the public API contract.
type factorsPayload struct {
	VegetationDensity  *float64 `json:"vegetationDensity,omitempty"`
	PreviousArea       *float64 `json:"previousArea,omitempty"`
	TreeSpecies        string   `json:"treeSpecies,omitempty"`
	LocationMultiplier *float64 `json:"locationMultiplier,omitempty"`
}

type submitRequest struct {
	// Image is the capture as a base64 string.
	Image    string          `json:"image"`
	Filename string          `json:"filename,omitempty"`
	GSD      *float64        `json:"gsd"`
	Factors  *factorsPayload `json:"factors,omitempty"`
}

type submitResponse struct {
	Success      bool    `json:"success"`
	Area         float64 `json:"area"`
	CreditsAdded int     `json:"creditsAdded"`
	TotalCredits int64   `json:"totalCredits"`
	Message      string  `json:"message"`
}
