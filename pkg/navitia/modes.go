package navitia

type SectionMode string

//goland:noinspection GoUnusedConst
const (
	SectionModeWalking SectionMode = "walking"
	SectionModeBus     SectionMode = "bus"
	SectionModeMetro   SectionMode = "metro"
	SectionModeTramway SectionMode = "tramway"
	SectionModeTrain   SectionMode = "train"
	SectionModeRER     SectionMode = "rer"
	SectionModeUnknown SectionMode = "UNKNOWN"
)

// RailModes are rendered with their network name in front of the line code
var RailModes = []SectionMode{
	SectionModeMetro,
	SectionModeTramway,
	SectionModeTrain,
	SectionModeRER,
}
