package models

// SheetPlan is a PLAN row of a scoring sheet.
type SheetPlan struct {
	Line        int
	Participant string
	Lift        Lift
	Weights     [3]float64
}

// SheetAttempt is an ATTEMPT row of a scoring sheet.
type SheetAttempt struct {
	Line        int
	Participant string
	Lift        Lift
	Number      int
	Weight      float64
	Result      Result
}

// SheetRejection is a row that could not be parsed or stored.
type SheetRejection struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// Sheet is a parsed scoring sheet.
type Sheet struct {
	Plans    []SheetPlan
	Attempts []SheetAttempt
	Rejected []SheetRejection
}

// Rows is the number of data rows seen, accepted or not.
func (s *Sheet) Rows() int {
	return len(s.Plans) + len(s.Attempts) + len(s.Rejected)
}
