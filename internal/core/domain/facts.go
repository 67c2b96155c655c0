package domain

// Normalised fact rows, one schema per report category. Each row derives
// deterministically from exactly one RawReport and is upserted on its
// natural business key, so re-processing a raw record replaces rather than
// duplicates.

// SaleItem is one sold line from the itemized sales report.
// Natural key: (BarID, TransactionID, LineID).
type SaleItem struct {
	BarID         string
	TransactionID string
	LineID        int
	ProductCode   string
	ProductName   string
	GroupName     string
	Quantity      float64
	UnitPrice     float64
	GrossTotal    float64
	Discount      float64
	NetTotal      float64
	ReportDate    Date
}

// Payment is one tender from the payments report.
// Natural key: (BarID, TransactionID, Sequence).
type Payment struct {
	BarID         string
	TransactionID string
	Sequence      int
	Method        string
	Amount        float64
	Tip           float64
	ReportDate    Date
}

// HourlyRevenue is one hour bucket from the revenue-by-hour report.
// Natural key: (BarID, ReportDate, Hour).
type HourlyRevenue struct {
	BarID      string
	ReportDate Date
	Hour       int
	Revenue    float64
	OrderCount int
}

// StaffShift is one employee shift from the staff time report.
// Natural key: (BarID, EmployeeID, ReportDate, Shift).
type StaffShift struct {
	BarID         string
	EmployeeID    string
	EmployeeName  string
	Role          string
	ReportDate    Date
	Shift         string
	ClockIn       string
	ClockOut      string
	WorkedMinutes int
}

// CoverCount is one service period from the covers report.
// Natural key: (BarID, ReportDate, Period).
type CoverCount struct {
	BarID      string
	ReportDate Date
	Period     string
	Covers     int
	AvgTicket  float64
}

// StockLevel is one product snapshot from the stock report.
// Natural key: (BarID, ReportDate, ProductCode).
type StockLevel struct {
	BarID       string
	ReportDate  Date
	ProductCode string
	ProductName string
	Unit        string
	OnHand      float64
	UnitCost    float64
}
