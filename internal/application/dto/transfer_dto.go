package dto

// ImportResult resultado de una importación de sección.
type ImportResult struct {
	Imported int      `json:"imported"`
	Warnings []string `json:"warnings,omitempty"`
}

// RestoreResult resultado de una restauración total.
type RestoreResult struct {
	Stage      string   `json:"stage"`
	Sites      int      `json:"sites"`
	Categories int      `json:"categories"`
	Products   int      `json:"products"`
	Records    int      `json:"records"`
	Warnings   []string `json:"warnings,omitempty"`
}
