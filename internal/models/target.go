package models

// Target defines a dial endpoint used to probe connectivity.
type Target struct {
	Name           string `yaml:"name" json:"name"`
	Address        string `yaml:"address" json:"address"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
}
