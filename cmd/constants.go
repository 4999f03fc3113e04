package cmd

// DefaultProjectConfigFilename describes the default config filename for a given project folder.
const DefaultProjectConfigFilename = "drover.json"

// DefaultLogFilename describes the log filename written inside the configured log directory.
const DefaultLogFilename = "drover.log"
