package model

// Report mirrors the reports table. ReportSelect carries the category label
// the chat commands use.
type Report struct {
	ReportName   string `gorm:"type:varchar(255);column:report_name"`
	ReportSelect string `gorm:"type:varchar(50);column:report_select"`
	WriteDate    string `gorm:"type:varchar(50);column:write_date"`
}

func (Report) TableName() string {
	return "reports"
}
