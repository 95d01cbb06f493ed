package render

const (
	// Display values
	MissingValue = "<none>"
	NAValue      = "n/a"
	UnknownValue = "<unknown>"
	Blank        = ""

	// DateFmt is the short date layout.
	DateFmt = "2006-01-02"

	// DateTimeFmt is the date and time layout.
	DateTimeFmt = "2006-01-02 15:04"
)
