package dto

type OpenInput struct {
	ItemID         string `json:"-"`
	LaunchExternal bool   `json:"launch_external"`
}

type HighlightInput struct {
	ItemID  string `json:"-"`
	Passage string `json:"passage"`
}

type DocumentOutput struct {
	ItemID           string `json:"item_id"`
	Title            string `json:"title"`
	SourceKind       string `json:"source_kind"`
	SourceRef        string `json:"source_ref"`
	LifecycleStatus  string `json:"lifecycle_status"`
	Summary          string `json:"summary"`
	Content          string `json:"content"`
	ExternalTarget   string `json:"external_target,omitempty"`
	ExternalLaunched bool   `json:"external_launched"`
}
