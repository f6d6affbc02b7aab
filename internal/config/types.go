package config

// Config is the merged run configuration.
type Config struct {
	Query    string `koanf:"query" validate:"required"`
	Database string `koanf:"db" validate:"required"`
	Out      string `koanf:"out" validate:"required"`

	Search   Search   `koanf:"search"`
	Pipeline Pipeline `koanf:"pipeline"`
	Output   Output   `koanf:"output"`
	Log      Log      `koanf:"log"`

	Progress        string `koanf:"progress" validate:"oneof=auto bar log none"`
	MetricsFile     string `koanf:"metrics_file"`
	SummaryFile     string `koanf:"summary_file"`
	NoMatchExitCode int    `koanf:"no_match_exit_code" validate:"gte=0,lte=255"`
}

// Search holds the search knobs. Strand is checked by the pipeline because
// only nucleotide runs use it.
type Search struct {
	MaxAccepts  int     `koanf:"max_accepts" validate:"min=1"`
	MaxRejects  int     `koanf:"max_rejects" validate:"min=0"`
	MinIdentity float64 `koanf:"min_identity" validate:"gte=0,lte=1"`
	Strand      string  `koanf:"strand"`
	WordSize    int     `koanf:"word_size" validate:"gte=0"`
}

type Pipeline struct {
	Threads       int  `koanf:"threads" validate:"gte=0"`
	Writers       int  `koanf:"writers" validate:"gte=1"`
	BatchSize     int  `koanf:"batch_size" validate:"gte=1"`
	QueueCapacity int  `koanf:"queue_capacity" validate:"gte=0"`
	Ordered       bool `koanf:"ordered"`
}

type Output struct {
	Format string `koanf:"format" validate:"omitempty,oneof=alnout csv jsonl sqlite"`
	Header bool   `koanf:"header"`
}

type Log struct {
	Level string `koanf:"level" validate:"oneof=debug info warn warning error"`
	JSON  bool   `koanf:"json"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Search: Search{
			MaxAccepts:  1,
			MaxRejects:  16,
			MinIdentity: 0.75,
			Strand:      "both",
		},
		Pipeline: Pipeline{
			Writers:   1,
			BatchSize: 64,
		},
		Log:             Log{Level: "info"},
		Progress:        "auto",
		NoMatchExitCode: 1,
	}
}

// defaultMap flattens Default for the confmap provider.
func defaultMap() map[string]interface{} {
	def := Default()
	return map[string]interface{}{
		"query": def.Query,
		"db":    def.Database,
		"out":   def.Out,

		"search.max_accepts":  def.Search.MaxAccepts,
		"search.max_rejects":  def.Search.MaxRejects,
		"search.min_identity": def.Search.MinIdentity,
		"search.strand":       def.Search.Strand,
		"search.word_size":    def.Search.WordSize,

		"pipeline.threads":        def.Pipeline.Threads,
		"pipeline.writers":        def.Pipeline.Writers,
		"pipeline.batch_size":     def.Pipeline.BatchSize,
		"pipeline.queue_capacity": def.Pipeline.QueueCapacity,
		"pipeline.ordered":        def.Pipeline.Ordered,

		"output.format": def.Output.Format,
		"output.header": def.Output.Header,

		"log.level": def.Log.Level,
		"log.json":  def.Log.JSON,

		"progress":           def.Progress,
		"metrics_file":       def.MetricsFile,
		"summary_file":       def.SummaryFile,
		"no_match_exit_code": def.NoMatchExitCode,
	}
}
