package api

type OnlineConfig struct {
	TableSpace   string   `json:"table_space,omitempty"`
	TableOptions []string `json:"table_options,omitempty"`
	Comments     []string `json:"comments,omitempty"`
}
