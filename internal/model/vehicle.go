package model

// Vehicle is a unit known to the dispatch center. ForLeitstelle marks
// vehicles shown in dispatch-level views.
type Vehicle struct {
	ID            uint   `gorm:"primarykey" json:"id"`
	Name          string `gorm:"uniqueIndex" json:"name" yaml:"name"`
	Role          string `json:"role" yaml:"role"`
	ForLeitstelle bool   `json:"forLeitstelle" yaml:"for_leitstelle"`
}
