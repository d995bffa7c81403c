package cfg

type Cfg struct {
	// File locations
	SourcesFile string
	StateFile   string
	OutputDir   string

	// Store bounds
	MaxStoreSize int
	LiveLimit    int

	// Extraction thresholds
	SourceLimit    int
	MinTitleLength int
	MinAnchorText  int

	// Presentation
	SimilarityThreshold float64

	// Archive
	ArchiveHour int

	// Fetching
	FetchTimeout int
	UserAgent    string
	WorkerCount  int

	// Run modes
	Daemon   bool
	CronSpec string
	Serve    bool
	Port     string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
