package entity

import "report-bot-be/pkg/store"

// Report is one stored-artifact row. Name carries the structured artifact
// name without extension, WriteDate the human-readable creation stamp.
type Report struct {
	Name      string
	Category  store.Category
	WriteDate string
}
