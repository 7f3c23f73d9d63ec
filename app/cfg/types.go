package cfg

const (
	CommandOnce     = "once"
	CommandSchedule = "schedule"
	CommandStats    = "stats"
	CommandConvert  = "convert"
	CommandDigest   = "digest"
	CommandBackfill = "backfill"
	CommandServe    = "serve"
)

type Cfg struct {
	// Selected command, CommandSchedule when none given
	Command string

	// Storage configuration
	CatalogPath string
	DBPath      string
	DigestsDir  string

	// Batch configuration
	HoursBack   int
	PerFeedCap  int
	WorkerCount int
	UserAgent   string

	// Summarization providers
	HFToken      string
	HFModels     []string
	OpenAIAPIKey string
	OpenAIModel  string

	// HTTP status surface
	Port         string
	APIAccessKey string

	// Command arguments
	ConvertOutput string
	DigestDate    string
	BackfillLimit int

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
