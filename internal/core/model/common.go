package model

// Date format of entry keys and DayInfo.Date
const ISODateLayout = "2006-01-02"

// Language identifiers
const (
	LangEN = "EN"
	LangPL = "PL"
)

// DefaultRegion is the holiday region of a fresh state
const DefaultRegion = "PL"
