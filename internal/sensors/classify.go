package sensors

// Level is the coarse temperature band shown next to readings.
type Level string

const (
	Cool Level = "Cool"
	Warm Level = "Warm"
	Hot  Level = "Hot"
)

// Classify maps a temperature to Cool (<60), Warm (<80) or Hot.
func Classify(temp float64) Level {
	switch {
	case temp < 60:
		return Cool
	case temp < 80:
		return Warm
	default:
		return Hot
	}
}

// Alert is the threshold state used for notifications.
type Alert int

const (
	AlertNone Alert = iota
	AlertWarning
	AlertCritical
)

func (a Alert) String() string {
	switch a {
	case AlertWarning:
		return "warning"
	case AlertCritical:
		return "critical"
	default:
		return "normal"
	}
}

// Thresholds holds the warning and critical temperatures.
type Thresholds struct {
	Warning  float64
	Critical float64
}

// DefaultThresholds are 85°C and 95°C.
var DefaultThresholds = Thresholds{Warning: 85, Critical: 95}

// Check returns the alert level of temp.
func (t Thresholds) Check(temp float64) Alert {
	switch {
	case temp >= t.Critical:
		return AlertCritical
	case temp >= t.Warning:
		return AlertWarning
	default:
		return AlertNone
	}
}
