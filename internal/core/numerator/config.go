package numerator

// Period defines how often a sequence resets.
type Period string

const (
	// PeriodNone: one continuous sequence, never resets.
	PeriodNone Period = "none"

	// PeriodYear: sequence resets each year.
	PeriodYear Period = "year"

	// PeriodMonth: sequence resets each month.
	PeriodMonth Period = "month"
)

// Config describes number generation for one document type.
type Config struct {
	// Prefix prepended to the number, e.g. "RCP"
	Prefix string

	// Period controls sequence reset granularity
	Period Period

	// Digits is the zero-padded width of the counter part
	Digits int
}

// DefaultConfigs maps document types to their numbering scheme.
var DefaultConfigs = map[string]Config{
	"receipt":  {Prefix: "RCP", Period: PeriodYear, Digits: 6},
	"writeoff": {Prefix: "WRO", Period: PeriodYear, Digits: 6},
	"movement": {Prefix: "MOV", Period: PeriodYear, Digits: 6},
}

// ConfigFor returns the numbering config for a document type,
// falling back to a generic scheme for unknown types.
func ConfigFor(docType string) Config {
	if cfg, ok := DefaultConfigs[docType]; ok {
		return cfg
	}
	return Config{Prefix: "DOC", Period: PeriodYear, Digits: 6}
}
