package tutor

// MaxQuestions caps how many quiz questions a single request may ask for.
const MaxQuestions = 20

// Config holds generation settings.
type Config struct {
	ExplainMaxTokens int
	QuizMaxTokens    int
	Temperature      float64
}

// DefaultConfig returns the settings the backend has always used.
func DefaultConfig() Config {
	return Config{
		ExplainMaxTokens: 1500,
		QuizMaxTokens:    2500,
		Temperature:      0.7,
	}
}
